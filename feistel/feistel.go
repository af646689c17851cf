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

// Package feistel implements the eight-round unbalanced Feistel cipher at
// the heart of FF3-1 (and, with enableLegacyTweak, the original 8-byte
// tweak FF3 scheme), operating on radix-r digit vectors rather than
// strings so the radix isn't bounded by math/big.MaxBase the way the
// original source's string/big.Int based Cipher was.
//
// Package feistel is the internal workhorse: the exported engine lives in
// the root fpe package, which validates caller input and handles the
// string <-> digit vector translation via package codec. BpsChain
// (package bps) calls this package's Cipher once per logical block for
// inputs longer than maxlen.
package feistel

import (
	"errors"
	"fmt"

	"github.com/foldedtext/fpe/internal/bigacc"
	"github.com/foldedtext/fpe/internal/tweak"
)

const numRounds = 8

// BlockCipher is the raw single-block ECB-mode primitive this package
// consumes. crypto/cipher.Block already satisfies this interface; AES-128/
// 192/256 (BlockSize 16) are the only conforming FF3-1 ciphers. A
// BlockSize of 8 (3DES) runs the non-standard BPS-paper variant rather
// than draft-conforming FF3-1 — see DESIGN.md's "3DES with FF3-1" open
// question.
type BlockCipher interface {
	BlockSize() int
	Encrypt(dst, src []byte)
}

var (
	// ErrBlockSize is returned when the configured cipher's block size
	// exceeds 16 bytes (128 bits) — the round reduces each cipher output
	// block with internal/bigacc, whose widest accumulator is 128 bits.
	ErrBlockSize = errors.New("feistel: block cipher block size must be at most 16 bytes")
	// ErrRadixRange is returned when radix is outside [2, 65536].
	ErrRadixRange = errors.New("feistel: radix must be between 2 and 65536")
	// ErrLenRange is returned when minLen/maxLen violate §3's invariants.
	ErrLenRange = errors.New("feistel: invalid minLen/maxLen for radix")
	// ErrInputLen is returned when a digit vector's length falls outside
	// [minLen, maxLen].
	ErrInputLen = errors.New("feistel: input length out of bounds")
	// ErrDigitRange is returned when a digit vector contains a value >= radix.
	ErrDigitRange = errors.New("feistel: digit out of range for radix")
	// ErrOutputTooShort is returned when the destination buffer is
	// smaller than the input.
	ErrOutputTooShort = errors.New("feistel: destination buffer shorter than input")
	// ErrTweakLen is returned when the tweak doesn't match the length the
	// current mode (FF3-1 or legacy FF3) requires.
	ErrTweakLen = errors.New("feistel: invalid tweak length")
)

// Cipher is a configured FF3-1 / legacy-FF3 Feistel instance: one radix,
// one block cipher, one pair of length bounds.
type Cipher struct {
	block  BlockCipher
	radix  uint32
	minLen uint32
	maxLen uint32
	legacy bool
}

// New validates the construction-time parameters (§3's invariants) and
// returns a configured Cipher. minLen/maxLen of 0 mean "compute the
// default" the way the Facade does; pass explicit values to narrow the
// accepted range further.
func New(block BlockCipher, radix uint32, minLen, maxLen uint32, legacyTweak bool) (*Cipher, error) {
	if block == nil {
		return nil, fmt.Errorf("feistel: %w: nil block cipher", ErrBlockSize)
	}
	if block.BlockSize() > 16 {
		return nil, ErrBlockSize
	}
	if radix < 2 || radix > 65536 {
		return nil, ErrRadixRange
	}

	blockBits := uint32(block.BlockSize()) * 8
	if minLen == 0 {
		minLen = defaultMinLen(radix)
	}
	if maxLen == 0 {
		maxLen = maxLenForRadix(radix, blockBits)
	}

	if minLen < 2 {
		return nil, fmt.Errorf("feistel: %w: minLen must be >= 2", ErrLenRange)
	}
	if maxLen < minLen {
		return nil, fmt.Errorf("feistel: %w: maxLen must be >= minLen", ErrLenRange)
	}
	if !radixPowAtLeast(radix, minLen, 1000000) {
		return nil, fmt.Errorf("feistel: %w: radix^minLen must be >= 1,000,000", ErrLenRange)
	}
	if maxLen > maxLenForRadix(radix, blockBits) {
		return nil, fmt.Errorf("feistel: %w: maxLen too large for radix", ErrLenRange)
	}

	return &Cipher{block: block, radix: radix, minLen: minLen, maxLen: maxLen, legacy: legacyTweak}, nil
}

// MinLen and MaxLen expose the configured bounds, used by package bps to
// size logical blocks and by the Facade to validate input before calling
// in.
func (c *Cipher) MinLen() uint32 { return c.minLen }
func (c *Cipher) MaxLen() uint32 { return c.maxLen }
func (c *Cipher) Radix() uint32  { return c.radix }

// Legacy reports whether this Cipher was constructed to accept 8-byte
// (legacy FF3) tweaks rather than FF3-1's 7-byte layout. Package bps
// requires a legacy-tweak Cipher: its chaining construction perturbs
// tweak bytes 1 and 5, a layout only the 8-byte split has room for.
func (c *Cipher) Legacy() bool { return c.legacy }

// radixPowAtLeast reports whether radix^n >= min, computed by repeated
// multiplication so it doesn't overflow float64 precision for large radix
// the way math.Pow-based checks would.
func radixPowAtLeast(radix, n uint32, min uint64) bool {
	acc := uint64(1)
	for i := uint32(0); i < n; i++ {
		acc *= uint64(radix)
		if acc >= min {
			return true
		}
	}
	return acc >= min
}

// defaultMinLen returns the smallest n for which radix^n >= 1,000,000, the
// default minLen the Facade uses when the caller doesn't narrow it
// further — mirroring the source's minLen computation, generalized from
// its fixed feistelMin=100 threshold to this package's 1,000,000 floor.
func defaultMinLen(radix uint32) uint32 {
	var n uint32
	acc := uint64(1)
	for acc < 1000000 {
		acc *= uint64(radix)
		n++
	}
	return n
}

// maxLenForRadix returns 2 * floor((blockBits-32) * log_radix(2)) =
// 2 * floor((blockBits-32) / log2(radix)), computed by an exact integer
// search (via bigacc.Acc96.TryMultiplyAdd) rather than floating-point
// logs, matching §3's invariant maxlen <= 2*floor((cipherBlockBits-32) *
// log_r 2). For the standard FF3-1 case blockBits is 128 (AES), giving
// the familiar 96-bit trailer budget; for the non-standard BPS/3DES case
// (see DESIGN.md's "3DES with FF3-1" open question) blockBits is 64,
// giving a correspondingly smaller trailer budget rather than special-
// casing 3DES.
func maxLenForRadix(radix uint32, blockBits uint32) uint32 {
	bitBudget := blockBits - 32
	acc := bigacc.One()
	var k uint32
	for {
		next, ok := acc.TryMultiplyAdd(uint64(radix), 0)
		if !ok || (96-uint32(next.CountLeadingZeros())) > bitBudget {
			break
		}
		acc = next
		k++
	}
	return 2 * k
}

// Encrypt runs the eight-round FF3-1 (or legacy FF3, if the Cipher was
// constructed with legacyTweak) Feistel cipher forward over x, writing
// the result into dst. dst and x may be the same slice (in place).
func (c *Cipher) Encrypt(t []byte, x []uint16, dst []uint16) error {
	return c.run(t, x, dst, true)
}

// Decrypt runs the Feistel cipher in reverse.
func (c *Cipher) Decrypt(t []byte, x []uint16, dst []uint16) error {
	return c.run(t, x, dst, false)
}

func (c *Cipher) run(t []byte, x []uint16, dst []uint16, encrypt bool) error {
	n := uint32(len(x))
	if n < c.minLen || n > c.maxLen {
		return ErrInputLen
	}
	if len(dst) < len(x) {
		return ErrOutputTooShort
	}
	for _, d := range x {
		if uint32(d) >= c.radix {
			return ErrDigitRange
		}
	}

	tl, tr, err := tweak.Split(t, c.legacy)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTweakLen, err)
	}

	u := (n + 1) / 2
	v := n - u

	divU := bigacc.NewDivisor(bigacc.RadixPow(c.radix, u))
	var divV bigacc.Divisor
	if v == u {
		divV = divU
	} else {
		divV = bigacc.NewDivisor(bigacc.RadixPow(c.radix, v))
	}

	// A and B are two fixed-size scratch slots rather than offsets into a
	// shared buffer (§9's design note: "a cleaner design uses two
	// parallel fixed-size slots and a toggle" instead of the source's
	// in-place slice-offset rotation, which needs a final conditional
	// copy when the offsets end up reversed after an odd round count).
	A := make([]uint16, u)
	B := make([]uint16, v)
	copy(A, x[:u])
	copy(B, x[u:])

	defer func() {
		zeroize(A)
		zeroize(B)
	}()

	blockSize := c.block.BlockSize()
	P := make([]byte, blockSize)
	defer zeroize16(P)

	start, stop, step := 0, numRounds, 1
	if !encrypt {
		start, stop, step = numRounds-1, -1, -1
	}

	for i := start; i != stop; i += step {
		var m uint32
		var W [4]byte
		var divM bigacc.Divisor
		if i%2 == 0 {
			m, W, divM = u, tr, divU
		} else {
			m, W, divM = v, tl, divV
		}

		var side []uint16
		if encrypt {
			side = B
		} else {
			side = A
		}

		for bi := 0; bi < 4; bi++ {
			P[bi] = W[bi] ^ byte(uint32(i)>>uint(8*(3-bi)))
		}
		numSide := numRev(side, c.radix)
		numSide.CopyTo(P[4:blockSize])

		s := make([]byte, blockSize)
		revBInto(s, P)
		c.block.Encrypt(s, s)
		revB(s)

		var y bigacc.Acc96
		if blockSize == 16 {
			y = bigacc.Acc128FromBytes(s).Mod(divM)
		} else {
			y = bigacc.FromBytes(s).Mod(divM)
		}
		zeroize16(s)

		var base []uint16
		if encrypt {
			base = A
		} else {
			base = B
		}
		numBase := numRev(base, c.radix)

		var newVal bigacc.Acc96
		if encrypt {
			newVal = bigacc.ModAdd(numBase, y, divM)
		} else {
			newVal = bigacc.ModSub(numBase, y, divM)
		}

		replacement := make([]uint16, m)
		strRev(newVal, c.radix, replacement)

		if encrypt {
			A, B = B, replacement
		} else {
			B, A = A, replacement
		}
	}

	copy(dst[:u], A)
	copy(dst[u:n], B)
	return nil
}

// numRev computes NUM_r(REV(s)): fold s from its last digit to its
// first, acc <- acc*r + s[i]. Equivalent to reversing s and reading it
// most-significant-digit-first, without materializing the reversed copy.
func numRev(s []uint16, radix uint32) bigacc.Acc96 {
	acc := bigacc.Zero()
	for i := len(s) - 1; i >= 0; i-- {
		acc = acc.MultiplyAdd(uint64(radix), uint32(s[i]))
	}
	return acc
}

// strRev is the inverse of numRev: writes c's radix-r digits into dst
// least-significant-digit-first (dst[0] is the least significant digit),
// matching §4.4 step vi's "StrRev" description.
func strRev(c bigacc.Acc96, radix uint32, dst []uint16) {
	div := bigacc.NewDivisor(bigacc.FromUint32(radix))
	v := c
	for i := range dst {
		q, r := v.DivRem(div)
		dst[i] = uint16(r.Lo)
		v = q
	}
}

func revB(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

func revBInto(dst, src []byte) {
	n := len(src)
	for i := 0; i < n; i++ {
		dst[i] = src[n-1-i]
	}
}

func zeroize(s []uint16) {
	for i := range s {
		s[i] = 0
	}
}

func zeroize16(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
