// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package alphabet

import "strings"

// SymbolsPerWord is the number of 5-bit codes packed into each
// 32-bit word.
const SymbolsPerWord = 6

// shift holds the in-word bit offset of each packed code. Bit 0
// flags the final word of a sequence; bit 16 is unused.
var shift = [SymbolsPerWord]uint{1, 6, 11, 17, 22, 27}

// A Word holds SymbolsPerWord packed codes.
type Word uint32

// At returns the i'th code packed into w, 0 <= i < SymbolsPerWord.
func (w Word) At(i int) Code {
	return Code(w>>shift[i]) & 0x1f
}

// final reports whether w terminates its sequence.
func (w Word) final() bool { return w&1 != 0 }

// A Sequence is an immutable string of alphabet codes packed six to
// a word. The tail of the last word is padded with the Padding code,
// and indexing past the end yields Padding, so backends never bound
// their inner loops with a length check against ragged storage.
//
// The zero Sequence is empty and valid.
type Sequence struct {
	words  []Word
	length int
}

// Encode packs the string s into a Sequence, folding characters
// outside the alphabet to Unknown.
func Encode(s string) Sequence {
	n := len(s)
	words := make([]Word, (n+SymbolsPerWord-1)/SymbolsPerWord)
	for w := range words {
		var word Word
		for i := 0; i < SymbolsPerWord; i++ {
			code := Padding
			if p := w*SymbolsPerWord + i; p < n {
				code = EncodeSymbol(s[p])
			}
			word |= Word(code) << shift[i]
		}
		words[w] = word
	}
	if len(words) > 0 {
		words[len(words)-1] |= 1
	}
	return Sequence{words: words, length: n}
}

// FromCodes packs the given codes into a Sequence.
func FromCodes(codes []Code) Sequence {
	b := make([]byte, len(codes))
	for i, c := range codes {
		b[i] = DecodeSymbol(c)
	}
	return Encode(string(b))
}

// Len returns the sequence's length in symbols, padding excluded.
func (s Sequence) Len() int { return s.length }

// Words returns the number of packed words backing s.
func (s Sequence) Words() int { return len(s.words) }

// Word returns the i'th packed word of s.
func (s Sequence) Word(i int) Word { return s.words[i] }

// At returns the code at position i. Positions at or beyond Len
// return Padding.
func (s Sequence) At(i int) Code {
	if i < 0 || i >= s.length {
		return Padding
	}
	return s.words[i/SymbolsPerWord].At(i % SymbolsPerWord)
}

// Decode returns the sequence as a string, padding truncated.
func (s Sequence) Decode() string {
	var b strings.Builder
	b.Grow(s.length)
	for i := 0; i < s.length; i++ {
		b.WriteByte(DecodeSymbol(s.At(i)))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (s Sequence) String() string { return s.Decode() }
