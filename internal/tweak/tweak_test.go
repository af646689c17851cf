package tweak

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitFF3_1(t *testing.T) {
	raw, err := hex.DecodeString("D8E7920AFA330A73"[:14]) // first 7 bytes
	require.NoError(t, err)
	require.Len(t, raw, 7)

	tl, tr, err := Split(raw, false)
	require.NoError(t, err)

	require.Equal(t, [4]byte{0xD8, 0xE7, 0x92, 0x00}, tl)
	require.Equal(t, [4]byte{0xFA, 0x33, 0x0A, 0xA0}, tr)
}

func TestSplitLegacy(t *testing.T) {
	raw, err := hex.DecodeString("D8E7920AFA330A73")
	require.NoError(t, err)
	require.Len(t, raw, 8)

	tl, tr, err := Split(raw, true)
	require.NoError(t, err)
	require.Equal(t, [4]byte{0xD8, 0xE7, 0x92, 0x0A}, tl)
	require.Equal(t, [4]byte{0xFA, 0x33, 0x0A, 0x73}, tr)
}

func TestSplitNilTweakIsZero(t *testing.T) {
	tl, tr, err := Split(nil, false)
	require.NoError(t, err)
	require.Equal(t, [4]byte{}, tl)
	require.Equal(t, [4]byte{}, tr)

	tl, tr, err = Split(nil, true)
	require.NoError(t, err)
	require.Equal(t, [4]byte{}, tl)
	require.Equal(t, [4]byte{}, tr)
}

func TestSplitBadLength(t *testing.T) {
	_, _, err := Split(make([]byte, 6), false)
	require.ErrorIs(t, err, ErrBadLength)

	_, _, err = Split(make([]byte, 7), true)
	require.ErrorIs(t, err, ErrBadLength)

	_, _, err = Split(make([]byte, 8), false)
	require.ErrorIs(t, err, ErrBadLength)
}
