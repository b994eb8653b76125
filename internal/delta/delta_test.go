package delta

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	values := []int32{5, 7, 3, 3, 100, -20}
	enc := Encode(values)
	require.Equal(t, values, Decode(enc))
}

func TestEncode_Empty(t *testing.T) {
	require.Nil(t, Encode(nil))
	require.Nil(t, Decode(nil))
}

func TestEncodeRelative_RoundTrip(t *testing.T) {
	base := []int32{10, 20, 30}
	values := []int32{12, 15, 45}
	enc := EncodeRelative(values, base)
	require.Equal(t, []int32{2, -5, 15}, enc)
	require.Equal(t, values, DecodeRelative(enc, base))
}

func TestEncodeCellReset_RoundTrip(t *testing.T) {
	values := []int32{100, 105, 110, 50, 52}
	cells := []uint32{0, 0, 0, 1, 1}
	enc := EncodeCellReset(values, cells)
	require.Equal(t, []int32{100, 5, 5, 50, 2}, enc)
	require.Equal(t, values, DecodeCellReset(enc, cells))
}

func TestEncodeCellReset_AllSameCell(t *testing.T) {
	values := []int32{1, 2, 4, 7}
	cells := []uint32{9, 9, 9, 9}
	enc := EncodeCellReset(values, cells)
	require.Equal(t, values, DecodeCellReset(enc, cells))
}
