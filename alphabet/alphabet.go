// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package alphabet implements the 25-symbol protein alphabet used
// throughout bigalign and the 5-bit packed encoding of sequences
// over it. The packing is the device format: six 5-bit codes per
// 32-bit word, so all alignment backends index sequences without
// decoding.
package alphabet

// A Code is the 5-bit encoding of a single alphabet symbol.
type Code uint8

// Padding is the code of the '*' symbol. It pads encoded sequences
// to a word boundary and terminates alignment early when reached.
const Padding Code = 24

// Unknown is the code input characters outside the alphabet fold to.
const Unknown Code = 23 // 'X'

// NumCodes is the cardinality of the alphabet, padding included.
const NumCodes = 25

// symbols lists the alphabet in code order. The order is fixed: it
// defines the axes of every scoring table.
var symbols = [NumCodes]byte{
	'A', 'C', 'T', 'G', 'R', 'N', 'D', 'Q', 'E', 'H', 'I', 'L', 'K',
	'M', 'F', 'P', 'S', 'W', 'Y', 'V', 'B', 'J', 'Z', 'X', '*',
}

// codes maps an upper-case letter ('A'-'Z') to its code. Letters
// with no symbol of their own (O, U) fold to Unknown.
var codes = [26]Code{
	'A' - 'A': 0,
	'B' - 'A': 20,
	'C' - 'A': 1,
	'D' - 'A': 6,
	'E' - 'A': 8,
	'F' - 'A': 14,
	'G' - 'A': 3,
	'H' - 'A': 9,
	'I' - 'A': 10,
	'J' - 'A': 21,
	'K' - 'A': 12,
	'L' - 'A': 11,
	'M' - 'A': 13,
	'N' - 'A': 5,
	'O' - 'A': Unknown,
	'P' - 'A': 15,
	'Q' - 'A': 7,
	'R' - 'A': 4,
	'S' - 'A': 16,
	'T' - 'A': 2,
	'U' - 'A': Unknown,
	'V' - 'A': 19,
	'W' - 'A': 17,
	'X' - 'A': Unknown,
	'Y' - 'A': 18,
	'Z' - 'A': 22,
}

// EncodeSymbol returns the code for character c. Case is folded;
// characters outside the alphabet fold to Unknown, except '*' which
// encodes to Padding.
func EncodeSymbol(c byte) Code {
	if c == '*' {
		return Padding
	}
	if 'a' <= c && c <= 'z' {
		c -= 'a' - 'A'
	}
	if 'A' <= c && c <= 'Z' {
		return codes[c-'A']
	}
	return Unknown
}

// DecodeSymbol returns the character for code c.
func DecodeSymbol(c Code) byte {
	if c >= NumCodes {
		return '*'
	}
	return symbols[c]
}
