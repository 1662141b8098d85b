// Package hash computes the CRC32-Castagnoli checksums that protect
// snapshots: Words over the uncompressed bit-vector payload, and Base64
// for the integrity header on S3 uploads.
//
//	hdr.Checksum = hash.Words(words)
//	input.ChecksumCRC32C = aws.String(hash.Base64(hash.CRC32C(blob)))
package hash
