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

// Package fpe implements format-preserving encryption per NIST SP
// 800-38G Revision 1 (draft), the "FF3-1" method, plus the original
// FF3 tweak layout for legacy interoperability and the BPS whitepaper's
// chaining construction for plaintexts longer than one Feistel block.
//
// NIST SP 800-38G Rev. 1 (draft):
// https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-38Gr1-draft.pdf
//
// # Basic usage
//
//	engine, err := fpe.NewEngine(
//	    fpe.WithAlphabet("0123456789"),
//	    fpe.WithKey(key), // 16, 24, or 32 bytes
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tweak, _ := hex.DecodeString("39383736353433") // FF3-1 tweaks are 7 bytes
//
//	ciphertext, err := engine.Encrypt(tweak, "4012888888881881")
//	plaintext, err := engine.Decrypt(tweak, ciphertext)
//
// # Long inputs
//
// The Feistel core alone only accepts plaintexts up to maxlen digits
// (roughly 56 decimal digits for AES). WithBpsChaining extends Encrypt
// and Decrypt to arbitrarily long inputs by splitting them into
// maxlen-sized blocks and chaining them per the BPS whitepaper; it
// implies WithLegacyTweak, since the chaining nonce is written into tweak
// bytes that only the 8-byte tweak layout has room for.
//
// # Formatting characters
//
// Encrypt and Decrypt's string forms preserve any character outside the
// configured alphabet (punctuation, separators) at its original position;
// see package codec. Callers working directly with digit vectors instead
// of strings can use EncryptDigits/DecryptDigits, which skip the codec
// step entirely.
//
// This package itself only assembles the pieces; the real work lives in
// the feistel, bps, and codec sub-packages and the internal/bigacc and
// internal/tweak packages they build on.
package fpe
