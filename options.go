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

package fpe

// config holds the options NewEngine assembles into an Engine.
type config struct {
	alphabet    string
	key         []byte
	minLen      uint32
	maxLen      uint32
	legacyTweak bool
	bpsChaining bool
}

// Option configures an Engine. Apply as many as needed to NewEngine.
type Option func(*config)

// WithAlphabet sets the set of characters Encrypt/Decrypt's string forms
// accept as plaintext digits; any other character in the input is
// preserved verbatim as formatting (see package codec). Required.
func WithAlphabet(alphabet string) Option {
	return func(c *config) { c.alphabet = alphabet }
}

// WithKey sets the AES key (16, 24, or 32 bytes for AES-128/192/256) the
// Feistel rounds encrypt under. The key is copied internally; the caller
// may zero the original after NewEngine returns. Required.
func WithKey(key []byte) Option {
	return func(c *config) {
		c.key = make([]byte, len(key))
		copy(c.key, key)
	}
}

// WithLengthBounds narrows the accepted plaintext length (in alphabet
// digits) to [minLen, maxLen]. Omit to use the defaults NewEngine derives
// from the alphabet's radix: the smallest minLen with radix^minLen >=
// 1,000,000, and the largest maxLen the 128-bit Feistel block supports.
func WithLengthBounds(minLen, maxLen uint32) Option {
	return func(c *config) {
		c.minLen = minLen
		c.maxLen = maxLen
	}
}

// WithLegacyTweak configures the Engine to accept the original, withdrawn
// FF3 scheme's 8-byte tweak instead of FF3-1's 7-byte tweak. Implied by
// WithBpsChaining, which requires the 8-byte layout for its chaining nonce.
func WithLegacyTweak() Option {
	return func(c *config) { c.legacyTweak = true }
}

// WithBpsChaining enables the BPS whitepaper's chaining construction
// (package bps) for plaintexts longer than maxLen, splitting them into
// maxLen-sized logical blocks instead of rejecting them with
// ErrInputLength. Implies WithLegacyTweak.
func WithBpsChaining() Option {
	return func(c *config) {
		c.legacyTweak = true
		c.bpsChaining = true
	}
}
