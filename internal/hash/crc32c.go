package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// wordChunk is the number of words encoded per checksum update.
const wordChunk = 64

// CRC32C returns the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// Words returns the CRC32C of words laid out little-endian, which is the
// uncompressed snapshot payload, without materializing the byte slice.
func Words(words []uint64) uint32 {
	var buf [8 * wordChunk]byte
	var sum uint32
	for len(words) > 0 {
		n := min(len(words), wordChunk)
		for i, w := range words[:n] {
			binary.LittleEndian.PutUint64(buf[8*i:], w)
		}
		sum = crc32.Update(sum, castagnoli, buf[:8*n])
		words = words[n:]
	}
	return sum
}

// Base64 encodes sum big-endian in base64, the form S3 expects in
// x-amz-checksum-crc32c.
func Base64(sum uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], sum)
	return base64.StdEncoding.EncodeToString(b[:])
}
