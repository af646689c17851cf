/*

SPDX-Copyright: Copyright (c) Capital One Services, LLC
SPDX-License-Identifier: Apache-2.0
Copyright 2017 Capital One Services, LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and limitations under the License.

*/

package bigacc

import "encoding/binary"

// Acc128 is a 128-bit unsigned integer stored as four 32-bit limbs,
// least-significant first. It exists for exactly one purpose (§4.4 step
// iv of the Feistel round): reducing the 16-byte cipher output block S,
// read as a big-endian 128-bit integer, modulo r^m. Only 16-byte (AES)
// blocks go through Acc128; the Feistel round reduces 8-byte (3DES) blocks
// with FromBytes and Acc96.Mod. Nothing else in this
// module needs 128-bit arithmetic, so Acc128 offers only what that
// reduction requires: construction from bytes and a Mod against an Acc96
// Divisor.
type Acc128 struct {
	w0, w1, w2, w3 uint32 // w0 is least-significant
}

// Acc128FromBytes interprets a 16-byte big-endian buffer as an Acc128.
func Acc128FromBytes(src []byte) Acc128 {
	if len(src) != 16 {
		panic("bigacc: Acc128FromBytes requires a 16-byte input")
	}
	return Acc128{
		w3: binary.BigEndian.Uint32(src[0:4]),
		w2: binary.BigEndian.Uint32(src[4:8]),
		w1: binary.BigEndian.Uint32(src[8:12]),
		w0: binary.BigEndian.Uint32(src[12:16]),
	}
}

func (a Acc128) shr1() Acc128 {
	w0 := (a.w0 >> 1) | (a.w1 << 31)
	w1 := (a.w1 >> 1) | (a.w2 << 31)
	w2 := (a.w2 >> 1) | (a.w3 << 31)
	w3 := a.w3 >> 1
	return Acc128{w0: w0, w1: w1, w2: w2, w3: w3}
}

func (a Acc128) shl1() Acc128 {
	w3 := (a.w3 << 1) | (a.w2 >> 31)
	w2 := (a.w2 << 1) | (a.w1 >> 31)
	w1 := (a.w1 << 1) | (a.w0 >> 31)
	w0 := a.w0 << 1
	return Acc128{w0: w0, w1: w1, w2: w2, w3: w3}
}

// cmp compares a and b, returning -1/0/1.
func (a Acc128) cmp(b Acc128) int {
	switch {
	case a.w3 != b.w3:
		if a.w3 < b.w3 {
			return -1
		}
		return 1
	case a.w2 != b.w2:
		if a.w2 < b.w2 {
			return -1
		}
		return 1
	case a.w1 != b.w1:
		if a.w1 < b.w1 {
			return -1
		}
		return 1
	case a.w0 != b.w0:
		if a.w0 < b.w0 {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (a Acc128) sub(b Acc128) Acc128 {
	w0, c0 := subBorrow32(a.w0, b.w0, 0)
	w1, c1 := subBorrow32(a.w1, b.w1, c0)
	w2, c2 := subBorrow32(a.w2, b.w2, c1)
	w3, c3 := subBorrow32(a.w3, b.w3, c2)
	if c3 != 0 {
		panic("bigacc: Acc128 sub underflow")
	}
	return Acc128{w0: w0, w1: w1, w2: w2, w3: w3}
}

func acc96To128(a Acc96) Acc128 {
	return Acc128{w0: a.Lo, w1: a.Mid, w2: a.Hi, w3: 0}
}

func (a Acc128) clz() uint {
	if a.w3 != 0 {
		return clz32(a.w3)
	}
	if a.w2 != 0 {
		return 32 + clz32(a.w2)
	}
	if a.w1 != 0 {
		return 64 + clz32(a.w1)
	}
	if a.w0 != 0 {
		return 96 + clz32(a.w0)
	}
	return 128
}

// Mod reduces a 128-bit value modulo the Divisor d (whose Value is at
// most 96 bits) and returns the remainder as an Acc96.
//
// The divisor is widened to 128 bits with a zero top limb (Acc96's bits
// occupy the low 96 bits of the 128-bit frame) and then normalized to the
// top of the 128-bit register; the result equals the normalized 96-bit
// divisor with a zero limb appended at the low end, the form §4.2
// describes. The loop runs shiftCount128+1
// iterations, where shiftCount128 is the divisor's leading-zero count
// measured over the full 128-bit width — §4.2's "32 + shift_count + 1"
// figure, since CLZ over 128 bits of a 96-bit value is 32 more than its
// CLZ over 96 bits.
func (a Acc128) Mod(d Divisor) Acc96 {
	if d.Value.IsZero() {
		panic("bigacc: Acc128 Mod by zero divisor")
	}
	divisor128 := acc96To128(d.Value)
	shiftCount := divisor128.clz()
	shifted := divisor128
	for i := uint(0); i < shiftCount; i++ {
		shifted = shifted.shl1()
	}

	iterations := shiftCount + 1
	rem := a
	divisor := shifted
	for i := uint(0); i < iterations; i++ {
		if rem.cmp(divisor) >= 0 {
			rem = rem.sub(divisor)
		}
		if i != iterations-1 {
			divisor = divisor.shr1()
		}
	}
	// rem is now < d.Value, which fits in 96 bits, so the high limb must
	// be zero; a non-zero high limb here would mean the reduction didn't
	// converge, which is an internal-consistency fault.
	if rem.w3 != 0 {
		panic("bigacc: Acc128 Mod did not reduce below 96 bits")
	}
	result := Acc96{Lo: rem.w0, Mid: rem.w1, Hi: rem.w2}
	rem = Acc128{}
	return result
}
