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

// Package tweak derives the (T_L, T_R) halves consumed by a Feistel round
// from a caller-supplied tweak, per the FF3-1 (7-byte) and legacy FF3
// (8-byte) layouts.
package tweak

import "errors"

const (
	// LenFF3_1 is the tweak length required by the NIST SP 800-38G Rev.1
	// draft ("FF3-1").
	LenFF3_1 = 7
	// LenLegacy is the tweak length used by the original, withdrawn FF3
	// scheme, kept here for legacy interoperability.
	LenLegacy = 8
)

// ErrBadLength is returned when the supplied tweak doesn't match the
// length required for the current mode.
var ErrBadLength = errors.New("tweak: invalid length")

// Split derives TL and TR from t. If legacy is true, t must be 8 bytes and
// is split evenly down the middle (the original FF3 rule). Otherwise t
// must be 7 bytes and is split per the FF3-1 bit-packing: TL holds t's
// first 28 bits, TR holds t's last 24 bits followed by t's remaining 4
// bits shifted into the high nibble of TR's last byte.
//
// A nil t is treated as all-zero of the length the current mode expects.
func Split(t []byte, legacy bool) (tl, tr [4]byte, err error) {
	if legacy {
		if t == nil {
			return tl, tr, nil
		}
		if len(t) != LenLegacy {
			return tl, tr, ErrBadLength
		}
		copy(tl[:], t[0:4])
		copy(tr[:], t[4:8])
		return tl, tr, nil
	}

	if t == nil {
		return tl, tr, nil
	}
	if len(t) != LenFF3_1 {
		return tl, tr, ErrBadLength
	}
	tl[0], tl[1], tl[2] = t[0], t[1], t[2]
	tl[3] = t[3] & 0xF0

	tr[0], tr[1], tr[2] = t[4], t[5], t[6]
	tr[3] = t[3] << 4

	return tl, tr, nil
}
