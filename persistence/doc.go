// Package persistence encodes rank/select snapshots.
//
// A snapshot is a fixed little-endian header followed by the raw bit-vector
// words, optionally compressed:
//
//	┌──────────────────────────── Header (48 bytes) ────────────────────────────┐
//	│ Magic RSNP │ Version │ Kind │ Compression │ K │ Words │ Ones │ PayloadLen │
//	│ Checksum (CRC32C of the uncompressed payload)                             │
//	└───────────────────────────────────────────────────────────────────────────┘
//	┌──────────── Payload (PayloadLen bytes) ────────────┐
//	│ words as little-endian uint64, framed by compress  │
//	└────────────────────────────────────────────────────┘
//
// Only the vector is stored. Derived tables are cheap to rebuild and depend
// on the popcount kernel and k, so they are recomputed on load.
package persistence
