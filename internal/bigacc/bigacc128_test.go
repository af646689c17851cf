package bigacc

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcc128ModSmall(t *testing.T) {
	// 16-byte big-endian encoding of 1234, reduced mod 1000 -> 234.
	buf := make([]byte, 16)
	buf[15] = 1234 & 0xFF
	buf[14] = byte(1234 >> 8)
	a := Acc128FromBytes(buf)
	div := NewDivisor(FromUint32(1000))
	require.Equal(t, FromUint32(234), a.Mod(div))
}

func TestAcc128ModMaxValue(t *testing.T) {
	allFF, err := hex.DecodeString("ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)
	require.Len(t, allFF, 16)
	a := Acc128FromBytes(allFF)
	div := NewDivisor(RadixPow(10, 10))
	r := a.Mod(div)
	require.True(t, r.Cmp(RadixPow(10, 10)) < 0)
}

func TestAcc128FromBytesWrongLengthPanics(t *testing.T) {
	require.Panics(t, func() { Acc128FromBytes(make([]byte, 8)) })
}
