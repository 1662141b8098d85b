// Package compress frames snapshot payloads as a sequence of independently
// compressed blocks.
//
// Each block is [uncompressed uint32][compressed uint32][data]. A compressed
// size of 0 marks a block stored raw, which happens whenever the codec saves
// less than 10%.
package compress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type selects the block codec.
type Type uint8

const (
	// None stores blocks raw.
	None Type = 0
	// LZ4 favors speed.
	LZ4 Type = 1
	// ZSTD favors ratio. Random bit vectors rarely compress; sparse ones do.
	ZSTD Type = 2
)

// DefaultBlockSize is the uncompressed size of a full block.
const DefaultBlockSize = 1 << 20

// MaxBlockSize caps the uncompressed size of one block. Encode clamps larger
// block sizes and Decode rejects frames claiming more.
const MaxBlockSize = 64 << 20

const headerSize = 8

var (
	// ErrCorrupt is returned when a framed stream cannot be decoded.
	ErrCorrupt = errors.New("corrupt compressed stream")

	// ErrUnknownType is returned for codec ids outside None, LZ4 and ZSTD.
	ErrUnknownType = errors.New("unknown compression type")
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(t))
	}
}

// Valid reports whether t is a known codec.
func (t Type) Valid() bool { return t <= ZSTD }

// ParseType parses "none", "lz4" or "zstd".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "raw":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlockSize))
	return dec
}

// Encode frames data into blocks of at most blockSize bytes compressed with t.
// blockSize <= 0 selects DefaultBlockSize; values above MaxBlockSize are clamped.
func Encode(data []byte, t Type, blockSize int) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	blockSize = min(blockSize, MaxBlockSize)

	var buf bytes.Buffer
	buf.Grow(len(data) + headerSize*(len(data)/blockSize+1))
	for off := 0; off < len(data); off += blockSize {
		end := min(off+blockSize, len(data))
		if err := appendBlock(&buf, data[off:end], t); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func appendBlock(buf *bytes.Buffer, block []byte, t Type) error {
	var packed []byte
	switch t {
	case LZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(block)))
		n, err := lz4.CompressBlock(block, dst, nil)
		if err != nil {
			return err
		}
		packed = dst[:n]
	case ZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(block, nil)
		zstdEncoderPool.Put(enc)
	}

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(block)))
	if len(packed) == 0 || float64(len(packed)) > float64(len(block))*0.9 {
		buf.Write(hdr[:])
		buf.Write(block)
		return nil
	}
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(packed)))
	buf.Write(hdr[:])
	buf.Write(packed)
	return nil
}

// Decode reverses Encode. limit, if positive, is the largest decoded size
// accepted; a frame that would grow the output past it is rejected before
// its block is allocated. It also preallocates the output.
func Decode(data []byte, t Type, limit int) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}

	out := make([]byte, 0, max(limit, 0))
	for off := 0; off < len(data); {
		if len(data)-off < headerSize {
			return nil, fmt.Errorf("%w: truncated block header at %d", ErrCorrupt, off)
		}
		rawSize := int(binary.LittleEndian.Uint32(data[off:]))
		packedSize := int(binary.LittleEndian.Uint32(data[off+4:]))
		off += headerSize

		if rawSize > MaxBlockSize {
			return nil, fmt.Errorf("%w: block of %d bytes exceeds %d", ErrCorrupt, rawSize, MaxBlockSize)
		}
		if limit > 0 && rawSize > limit-len(out) {
			return nil, fmt.Errorf("%w: block of %d bytes exceeds decoded limit %d", ErrCorrupt, rawSize, limit)
		}

		if packedSize == 0 {
			if len(data)-off < rawSize {
				return nil, fmt.Errorf("%w: raw block extends beyond data", ErrCorrupt)
			}
			out = append(out, data[off:off+rawSize]...)
			off += rawSize
			continue
		}

		if len(data)-off < packedSize {
			return nil, fmt.Errorf("%w: compressed block extends beyond data", ErrCorrupt)
		}
		block, err := decodeBlock(data[off:off+packedSize], t, rawSize)
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		off += packedSize
	}
	return out, nil
}

func decodeBlock(packed []byte, t Type, rawSize int) ([]byte, error) {
	result := make([]byte, rawSize)
	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(packed, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(packed, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if len(decoded) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: compressed block in uncompressed stream", ErrCorrupt)
	}
}
