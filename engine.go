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

import (
	"crypto/aes"
	"fmt"

	"github.com/foldedtext/fpe/bps"
	"github.com/foldedtext/fpe/codec"
	"github.com/foldedtext/fpe/feistel"
)

// Engine is the format-preserving encryption facade: one alphabet, one
// key, one pair of length bounds. It composes package codec with package
// feistel (and, when WithBpsChaining is set, package bps) so callers work
// directly with strings rather than digit vectors and formatting lists.
//
// An Engine is not safe for concurrent use — callers who want to encrypt
// from multiple goroutines should construct one Engine per goroutine (the
// key schedule and length bounds are immutable and cheap to share-by-
// reconstruction, unlike the source's single shared CBC encryptor).
type Engine struct {
	alphabet    codec.Alphabet
	cipher      *feistel.Cipher
	bpsChaining bool
}

// NewEngine validates opts (§3's construction invariants) and returns a
// configured Engine. WithAlphabet and WithKey are required; all other
// options have defaults matching the teacher's automatic minLen/maxLen
// computation.
func NewEngine(opts ...Option) (*Engine, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.alphabet == "" {
		return nil, ErrNoAlphabet
	}
	alphabet, err := codec.NewAlphabet(cfg.alphabet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoAlphabet, err)
	}

	if len(cfg.key) == 0 {
		return nil, ErrNoKey
	}
	switch len(cfg.key) {
	case 16, 24, 32:
	default:
		return nil, ErrKeySize
	}

	// The FF3-1 construction encrypts under REVB(key); computing that once
	// here, rather than per round, is why feistel.Cipher never touches the
	// key bytes themselves (see ReverseKeyBytes's doc comment).
	block, err := aes.NewCipher(ReverseKeyBytes(cfg.key))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySize, err)
	}

	radix := uint32(alphabet.Radix())
	fc, err := feistel.New(block, radix, cfg.minLen, cfg.maxLen, cfg.legacyTweak)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLenBounds, err)
	}

	return &Engine{alphabet: alphabet, cipher: fc, bpsChaining: cfg.bpsChaining}, nil
}

// MinLen and MaxLen expose the Engine's configured length bounds, in
// alphabet digits.
func (e *Engine) MinLen() uint32 { return e.cipher.MinLen() }
func (e *Engine) MaxLen() uint32 { return e.cipher.MaxLen() }

// Encrypt decodes plaintext through the Engine's alphabet, runs the
// Feistel cipher (or, with WithBpsChaining, the BPS chain) over the
// resulting digits, and re-encodes the result, splicing any formatting
// characters back into their original positions.
func (e *Engine) Encrypt(tweak []byte, plaintext string) (string, error) {
	return e.run(tweak, plaintext, true)
}

// Decrypt is the inverse of Encrypt.
func (e *Engine) Decrypt(tweak []byte, ciphertext string) (string, error) {
	return e.run(tweak, ciphertext, false)
}

func (e *Engine) run(tweak []byte, s string, encrypt bool) (string, error) {
	digits, formatting := codec.Decode(s, e.alphabet)

	out := make([]uint16, len(digits))
	if err := e.runDigits(tweak, digits, out, encrypt); err != nil {
		return "", err
	}

	result, err := codec.Encode(out, e.alphabet, formatting)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return result, nil
}

// EncryptDigits runs the Feistel cipher (or BPS chain) directly over a
// digit vector, for callers that have already decoded their input (or
// never had a string representation to begin with).
func (e *Engine) EncryptDigits(tweak []byte, digits []uint16, dst []uint16) error {
	return e.runDigits(tweak, digits, dst, true)
}

// DecryptDigits is the inverse of EncryptDigits.
func (e *Engine) DecryptDigits(tweak []byte, digits []uint16, dst []uint16) error {
	return e.runDigits(tweak, digits, dst, false)
}

func (e *Engine) runDigits(tweak []byte, digits []uint16, dst []uint16, encrypt bool) error {
	n := uint32(len(digits))
	withinBlock := n >= e.cipher.MinLen() && n <= e.cipher.MaxLen()

	if !withinBlock && !e.bpsChaining {
		return ErrInputLength
	}

	var err error
	switch {
	case withinBlock && !e.bpsChaining:
		if encrypt {
			err = e.cipher.Encrypt(tweak, digits, dst)
		} else {
			err = e.cipher.Decrypt(tweak, digits, dst)
		}
	case encrypt:
		err = bps.Encrypt(e.cipher, tweak, digits, dst)
	default:
		err = bps.Decrypt(e.cipher, tweak, digits, dst)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ReverseKeyBytes returns a new slice holding key's bytes in reverse
// order. The FF3/FF3-1 specification calls for the block cipher to be
// loaded with REVB(key) rather than key itself; NewEngine applies this
// automatically, so callers only need ReverseKeyBytes when constructing a
// feistel.Cipher directly against a raw, un-reversed key from an external
// source (e.g. a key published in "natural" byte order).
func ReverseKeyBytes(key []byte) []byte {
	out := make([]byte, len(key))
	for i, b := range key {
		out[len(key)-1-i] = b
	}
	return out
}
