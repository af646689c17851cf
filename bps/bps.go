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

// Package bps implements the Brier-Peyrin-Stern chaining construction that
// extends a single Feistel block (package feistel) to inputs longer than
// the block cipher's maxlen. Nothing in the teacher repo implements this
// construction; its shape here follows the BPS whitepaper's CBC-style
// block chaining, expressed over feistel.Cipher's digit-vector API the
// same way the rest of this module builds on it.
package bps

import (
	"errors"
	"fmt"

	"github.com/foldedtext/fpe/feistel"
	"github.com/foldedtext/fpe/internal/tweak"
)

var (
	// ErrLegacyTweakRequired is returned when the supplied Cipher wasn't
	// constructed with an 8-byte (legacy) tweak: BPS's chaining nonce
	// lives at tweak bytes 1 and 5, a layout only that split has room for.
	ErrLegacyTweakRequired = errors.New("bps: cipher must be configured for 8-byte (legacy) tweaks")
	// ErrTweakLen is returned when a non-nil tweak isn't exactly 8 bytes.
	ErrTweakLen = errors.New("bps: tweak must be nil or exactly 8 bytes")
	// ErrDigitRange is returned when a digit vector contains a value >= the
	// cipher's radix.
	ErrDigitRange = errors.New("bps: digit out of range for radix")
	// ErrOutputTooShort is returned when the destination buffer is smaller
	// than the input.
	ErrOutputTooShort = errors.New("bps: destination buffer shorter than input")
)

// Encrypt runs BpsEncrypt: for |x| <= c.MaxLen() this is exactly one
// feistel.Cipher.Encrypt call; longer inputs are split into maxlen-sized
// logical blocks and chained, the final partial block overlapping the one
// before it. A nil tweak is treated as an all-zero 8-byte buffer. A
// non-nil tweak is mutated during the call and restored to its original
// bytes before Encrypt returns, even on error.
func Encrypt(c *feistel.Cipher, t []byte, x []uint16, dst []uint16) error {
	return run(c, t, x, dst, true)
}

// Decrypt runs BpsDecrypt, the inverse of Encrypt.
func Decrypt(c *feistel.Cipher, t []byte, x []uint16, dst []uint16) error {
	return run(c, t, x, dst, false)
}

func run(c *feistel.Cipher, t []byte, x []uint16, dst []uint16, encrypt bool) error {
	if !c.Legacy() {
		return ErrLegacyTweakRequired
	}
	if t != nil && len(t) != tweak.LenLegacy {
		return ErrTweakLen
	}
	if len(dst) < len(x) {
		return ErrOutputTooShort
	}
	radix := c.Radix()
	for _, d := range x {
		if uint32(d) >= radix {
			return ErrDigitRange
		}
	}

	tw := t
	if tw == nil {
		tw = make([]byte, tweak.LenLegacy)
	}

	n := uint32(len(x))
	maxlen := c.MaxLen()

	if n <= maxlen {
		if encrypt {
			return c.Encrypt(tw, x, dst)
		}
		return c.Decrypt(tw, x, dst)
	}

	Y := make([]uint16, n)
	copy(Y, x)
	tmp := make([]uint16, maxlen)
	defer func() {
		zeroize(tmp)
		zeroize(Y)
	}()

	numFull := n / maxlen
	rest := n % maxlen

	var err error
	if encrypt {
		err = bpsEncrypt(c, tw, Y, tmp, radix, maxlen, numFull, rest)
	} else {
		err = bpsDecrypt(c, tw, Y, tmp, radix, maxlen, numFull, rest)
	}
	if err != nil {
		return err
	}

	copy(dst[:n], Y)
	return nil
}

func bpsEncrypt(c *feistel.Cipher, tw []byte, Y, tmp []uint16, radix, maxlen, numFull, rest uint32) error {
	c0 := uint32(0)
	for i := uint32(0); i < numFull; i++ {
		copy(tmp, Y[c0:c0+maxlen])
		if i > 0 {
			addDigitsMod(tmp, Y[c0-maxlen:c0], radix)
		}
		if err := feistelRound(c, tw, i, tmp, true); err != nil {
			return err
		}
		copy(Y[c0:c0+maxlen], tmp)
		c0 += maxlen
	}

	if rest == 0 {
		return nil
	}

	n := uint32(len(Y))
	for idx := n - rest; idx < n; idx++ {
		Y[idx] = uint16((uint32(Y[idx]) + uint32(Y[idx-maxlen])) % radix)
	}
	copy(tmp, Y[n-maxlen:n])
	if err := feistelRound(c, tw, numFull, tmp, true); err != nil {
		return err
	}
	copy(Y[n-maxlen:n], tmp)
	return nil
}

func bpsDecrypt(c *feistel.Cipher, tw []byte, Y, tmp []uint16, radix, maxlen, numFull, rest uint32) error {
	n := uint32(len(Y))

	if rest > 0 {
		copy(tmp, Y[n-maxlen:n])
		if err := feistelRound(c, tw, numFull, tmp, false); err != nil {
			return err
		}
		for idx := uint32(1); idx <= rest; idx++ {
			pos := maxlen - idx
			prev := uint32(Y[n-idx-maxlen]) % radix
			tmp[pos] = uint16((uint32(tmp[pos]) + radix - prev) % radix)
		}
		copy(Y[n-maxlen:n], tmp)
	}

	c0 := n - rest
	for i := numFull; i > 0; {
		i--
		copy(tmp, Y[c0-maxlen:c0])
		if err := feistelRound(c, tw, i, tmp, false); err != nil {
			return err
		}
		if i > 0 {
			subDigitsMod(tmp, Y[c0-2*maxlen:c0-maxlen], radix)
		}
		copy(Y[c0-maxlen:c0], tmp)
		c0 -= maxlen
	}
	return nil
}

// feistelRound perturbs tw's chaining bytes (positions 1 and 5) with the
// block counter i, runs one feistel.Cipher call on blk in place, and
// restores tw before returning, error or not.
func feistelRound(c *feistel.Cipher, tw []byte, i uint32, blk []uint16, encrypt bool) error {
	perturb(tw, i)
	defer perturb(tw, i)

	if encrypt {
		if err := c.Encrypt(tw, blk, blk); err != nil {
			return fmt.Errorf("bps: %w", err)
		}
		return nil
	}
	if err := c.Decrypt(tw, blk, blk); err != nil {
		return fmt.Errorf("bps: %w", err)
	}
	return nil
}

// perturb XORs the one-byte round counter i into tw[1] and tw[5]; calling
// it twice with the same i is its own inverse, which is how feistelRound
// restores tw after each block.
func perturb(tw []byte, i uint32) {
	b := byte(i)
	tw[1] ^= b
	tw[5] ^= b
}

func addDigitsMod(dst, prev []uint16, radix uint32) {
	for i := range dst {
		dst[i] = uint16((uint32(dst[i]) + uint32(prev[i])) % radix)
	}
}

func subDigitsMod(dst, prev []uint16, radix uint32) {
	for i := range dst {
		dst[i] = uint16((uint32(dst[i]) + radix - uint32(prev[i])) % radix)
	}
}

func zeroize(s []uint16) {
	for i := range s {
		s[i] = 0
	}
}
