package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/rankselect/index"
	"github.com/hupe1980/rankselect/internal/compress"
	"github.com/hupe1980/rankselect/internal/conv"
	"github.com/hupe1980/rankselect/internal/popcount"
)

const (
	// Magic identifies snapshot files (ASCII "RSNP").
	Magic uint32 = 0x504E5352
	// Version is the current snapshot format version.
	Version uint16 = 1
	// HeaderSize is the encoded size of Header.
	HeaderSize = 48
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported snapshot version")
	ErrInvalidKind        = errors.New("invalid index kind")
	ErrInvalidCompression = errors.New("invalid compression type")
	ErrCorrupt            = errors.New("corrupt snapshot")
)

// Header is the fixed-size prefix of a snapshot.
type Header struct {
	Magic       uint32
	Version     uint16
	Kind        uint8
	Compression uint8
	K           uint32
	Reserved    uint32
	NumWords    uint64
	Ones        uint64
	PayloadLen  uint64
	Checksum    uint32
	Padding     uint32
}

// Snapshot is the persisted state of an index.
type Snapshot struct {
	Kind        index.Kind
	K           int
	Compression compress.Type
	Words       []uint64
}

// Encode writes s to w and returns the number of bytes written.
func Encode(w io.Writer, s *Snapshot) (int64, error) {
	if len(s.Words) == 0 {
		return 0, index.ErrEmptyVector
	}
	if !s.Compression.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCompression, s.Compression)
	}

	var raw bytes.Buffer
	raw.Grow(8 * len(s.Words))
	if err := binary.Write(&raw, binary.LittleEndian, s.Words); err != nil {
		return 0, err
	}

	payload, err := compress.Encode(raw.Bytes(), s.Compression, 0)
	if err != nil {
		return 0, err
	}
	k, err := conv.IntToUint32(s.K)
	if err != nil {
		return 0, fmt.Errorf("persistence: k: %w", err)
	}

	hdr := Header{
		Magic:       Magic,
		Version:     Version,
		Kind:        uint8(s.Kind),
		Compression: uint8(s.Compression),
		K:           k,
		NumWords:    uint64(len(s.Words)),
		Ones:        uint64(popcount.Sum64(s.Words)),
		PayloadLen:  uint64(len(payload)),
		Checksum:    Checksum(s.Words),
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return 0, err
	}
	n, err := w.Write(payload)
	return int64(HeaderSize + n), err
}

// Marshal encodes s into a byte slice.
func Marshal(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadHeader reads and validates a header.
func ReadHeader(r io.Reader) (*Header, error) {
	var hdr Header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorrupt, err)
	}
	if hdr.Magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, hdr.Magic)
	}
	if hdr.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, hdr.Version)
	}
	if !validKind(index.Kind(hdr.Kind)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, hdr.Kind)
	}
	if !compress.Type(hdr.Compression).Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, hdr.Compression)
	}
	if hdr.NumWords == 0 {
		return nil, index.ErrEmptyVector
	}
	if hdr.NumWords > index.MaxBits/64 {
		return nil, fmt.Errorf("%w: %d words", index.ErrTooLarge, hdr.NumWords)
	}
	if hdr.PayloadLen > maxPayload(hdr.NumWords) {
		return nil, fmt.Errorf("%w: payload length %d", ErrCorrupt, hdr.PayloadLen)
	}
	return &hdr, nil
}

// maxPayload bounds PayloadLen: raw words plus one frame header per block.
func maxPayload(words uint64) uint64 {
	raw := 8 * words
	return raw + 8*(raw/compress.DefaultBlockSize+1)
}

func validKind(k index.Kind) bool {
	for _, known := range index.AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Decode reads a snapshot from r and verifies its checksum and ones count.
func Decode(r io.Reader) (*Snapshot, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	numWords, err := conv.Uint64ToInt(hdr.NumWords)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	k, err := conv.Uint32ToInt(hdr.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	payload := make([]byte, hdr.PayloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrCorrupt, err)
	}

	raw, err := compress.Decode(payload, compress.Type(hdr.Compression), 8*numWords)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if uint64(len(raw)) != 8*hdr.NumWords {
		return nil, fmt.Errorf("%w: %d payload bytes for %d words", ErrCorrupt, len(raw), hdr.NumWords)
	}

	words := make([]uint64, numWords)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, words); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := verifyChecksum(words, hdr.Checksum); err != nil {
		return nil, err
	}
	if ones := popcount.Sum64(words); uint64(ones) != hdr.Ones {
		return nil, fmt.Errorf("%w: header records %d ones, payload has %d", ErrCorrupt, hdr.Ones, ones)
	}

	return &Snapshot{
		Kind:        index.Kind(hdr.Kind),
		K:           k,
		Compression: compress.Type(hdr.Compression),
		Words:       words,
	}, nil
}

// Unmarshal decodes a snapshot from data.
func Unmarshal(data []byte) (*Snapshot, error) {
	return Decode(bytes.NewReader(data))
}
