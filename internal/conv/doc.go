// Package conv provides bounds-checked integer conversions for values read
// from or written to snapshot headers.
//
// Conversions that are safe by construction, such as loop indices, use
// plain casts instead.
package conv
