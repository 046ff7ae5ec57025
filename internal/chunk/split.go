// Package chunk splits long replies into messages that fit a transport limit.
package chunk

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// Split cuts text into pieces of at most maxLen runes. Each cut is made at the
// last space at or before maxLen; a text without such a space is cut exactly
// at maxLen, which may split a word. Leading whitespace is dropped from every
// piece after a cut. The result always has at least one element, the last one
// being whatever non-blank text is left, and text that already fits is
// returned unchanged.
func Split(text string, maxLen int) []string {
	return split(text, maxLen, func(rune) int { return 1 })
}

// SplitUTF16 is Split with the limit counted in UTF-16 code units, the unit
// Telegram uses for message length. Characters outside the Basic
// Multilingual Plane, emoji among them, count as two.
func SplitUTF16(text string, maxUnits int) []string {
	return split(text, maxUnits, utf16Width)
}

// UTF16Len reports the length of text in UTF-16 code units.
func UTF16Len(text string) int {
	n := 0
	for _, r := range text {
		n += utf16Width(r)
	}
	return n
}

func utf16Width(r rune) int {
	if w := utf16.RuneLen(r); w > 0 {
		return w
	}
	// Invalid runes are encoded as U+FFFD.
	return 1
}

func split(text string, limit int, width func(rune) int) []string {
	if limit <= 0 {
		return []string{text}
	}

	var pieces []string
	rest := []rune(text)
	for {
		fit := fitting(rest, limit, width)
		if fit == len(rest) {
			break
		}
		cut := lastSpace(rest, fit)
		if cut <= 0 {
			cut = fit
		}
		pieces = append(pieces, string(rest[:cut]))
		rest = []rune(strings.TrimLeftFunc(string(rest[cut:]), unicode.IsSpace))
	}
	if len(rest) == 0 && len(pieces) > 0 {
		return pieces
	}
	return append(pieces, string(rest))
}

// fitting returns how many leading runes fit into limit, never less than one
// for a non-empty slice so that a single wide rune still makes progress.
func fitting(runes []rune, limit int, width func(rune) int) int {
	used := 0
	for i, r := range runes {
		used += width(r)
		if used > limit {
			return max(i, 1)
		}
	}
	return len(runes)
}

// lastSpace returns the index of the last ' ' in runes[0:limit+1], or -1.
func lastSpace(runes []rune, limit int) int {
	for i := min(limit, len(runes)-1); i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
