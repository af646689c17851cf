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

import "errors"

// ConfigError wraps a problem with NewEngine's options: a bad alphabet, a
// key of the wrong size, or length bounds that don't fit the radix.
// Returned only from NewEngine, never from Encrypt/Decrypt.
var (
	// ErrNoAlphabet indicates WithAlphabet was never called, or was called
	// with fewer than 2 distinct characters.
	ErrNoAlphabet = errors.New("fpe: alphabet must have at least 2 distinct characters")
	// ErrKeySize indicates the key isn't 16, 24, or 32 bytes (AES-128/192/256).
	ErrKeySize = errors.New("fpe: key must be 16, 24, or 32 bytes")
	// ErrNoKey indicates WithKey was never called.
	ErrNoKey = errors.New("fpe: no key provided")
	// ErrLenBounds indicates minLen/maxLen don't satisfy radix^minLen >=
	// 1,000,000 and minLen <= maxLen <= the radix's maximum feistel length.
	ErrLenBounds = errors.New("fpe: invalid minLen/maxLen for radix")
)

// InputError wraps a problem with a specific Encrypt/Decrypt call: a
// plaintext too short or too long, a digit outside the radix (digit-vector
// API only; the string API keeps non-alphabet characters as formatting), a
// destination buffer too short, or a tweak of the wrong length.
var (
	// ErrInputLength indicates the decoded digit count falls outside
	// [minLen, maxLen] and BPS chaining wasn't enabled to extend that range.
	ErrInputLength = errors.New("fpe: input length out of bounds")
	// ErrInvalidInput is the umbrella for every other call-time rejection
	// the underlying feistel/bps layers surface: a tweak of the wrong
	// length, a digit outside the alphabet's radix, or a destination
	// buffer shorter than the input.
	ErrInvalidInput = errors.New("fpe: invalid input")
)

// InternalError denotes a library bug. ErrInternal is returned when the
// cipher's output digits fail to re-encode through the alphabet, which
// cannot happen while packages feistel and bps return only in-radix
// digits. Accumulator overflow in internal/bigacc is not reported here; it
// panics. Call sites should treat ErrInternal the same way they'd treat a
// panic recovered at a process boundary — it is never expected to fire and
// is never meant to be handled by retrying.
var ErrInternal = errors.New("fpe: internal invariant violated")
