// Package delta implements the fixed-width signed-delta transforms shared by
// §4.4 (index streams) and §4.6 (MG2 quantized coordinate streams).
//
// mebo's internal/encoding.TimestampDeltaEncoder packs each delta through
// zigzag+varint so a single timestamp column is as small as possible on its
// own. OpenCTM's streams are column-transposed and handed to LZMA as one
// contiguous byte run (lzmaio.CompressI32Column packs every element at a
// fixed 4-byte stride): a varint would misalign that stride and hide the
// column's repetition from the entropy coder instead of exposing it, so
// deltas here stay plain fixed-width int32 and let LZMA do the packing.
package delta

// Encode replaces each element of values (after the first) with its signed
// difference from the previous element. values[0] is left as an absolute
// value. The input is not modified; a new slice is returned.
func Encode(values []int32) []int32 {
	if len(values) == 0 {
		return nil
	}

	out := make([]int32, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}

	return out
}

// Decode reverses Encode: deltas[0] is absolute, every following element is
// a signed delta from the previous decoded value.
func Decode(deltas []int32) []int32 {
	if len(deltas) == 0 {
		return nil
	}

	out := make([]int32, len(deltas))
	out[0] = deltas[0]
	for i := 1; i < len(deltas); i++ {
		out[i] = out[i-1] + deltas[i]
	}

	return out
}

// EncodeRelative produces, for each element, its signed difference from the
// corresponding element of base. Used for the second/third index columns,
// which are stored relative to the first column of the same triangle rather
// than relative to their own predecessor.
func EncodeRelative(values, base []int32) []int32 {
	out := make([]int32, len(values))
	for i := range values {
		out[i] = values[i] - base[i]
	}

	return out
}

// DecodeRelative reverses EncodeRelative given the already-decoded base
// column.
func DecodeRelative(deltas, base []int32) []int32 {
	out := make([]int32, len(deltas))
	for i := range deltas {
		out[i] = base[i] + deltas[i]
	}

	return out
}

// EncodeCellReset delta-codes values against the previous element, except
// that the delta resets to an absolute value whenever cellIDs[i] differs
// from cellIDs[i-1] (§4.6: per-cell absolute reset at cell boundaries).
func EncodeCellReset(values []int32, cellIDs []uint32) []int32 {
	if len(values) == 0 {
		return nil
	}

	out := make([]int32, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		if cellIDs[i] != cellIDs[i-1] {
			out[i] = values[i]
		} else {
			out[i] = values[i] - values[i-1]
		}
	}

	return out
}

// DecodeCellReset reverses EncodeCellReset.
func DecodeCellReset(deltas []int32, cellIDs []uint32) []int32 {
	if len(deltas) == 0 {
		return nil
	}

	out := make([]int32, len(deltas))
	out[0] = deltas[0]
	for i := 1; i < len(deltas); i++ {
		if cellIDs[i] != cellIDs[i-1] {
			out[i] = deltas[i]
		} else {
			out[i] = out[i-1] + deltas[i]
		}
	}

	return out
}
