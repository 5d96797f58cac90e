package storage

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxKeyLength is the longest key Sanitize produces before any collision
// suffix is added.
const MaxKeyLength = 30

// Sanitize derives a storage key from a display name. Diacritics are
// folded to their base letters, spaces become underscores and every other
// character outside [A-Za-z0-9_-] is dropped. The result is cut to
// MaxKeyLength bytes and may be empty.
func Sanitize(name string) string {
	folded, _, err := transform.String(foldMarks(), name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	for _, r := range folded {
		if b.Len() == MaxKeyLength {
			break
		}
		switch {
		case r == ' ':
			b.WriteByte('_')
		case validKeyRune(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldMarks decomposes text, strips combining marks and recomposes it.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

func validKeyRune(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '-'
}

// ValidKey reports whether key could have been produced by Sanitize,
// optionally with a collision suffix.
func ValidKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if !validKeyRune(r) {
			return false
		}
	}
	return true
}

// UniqueKey returns base, or base with the smallest numeric suffix _1, _2,
// ... for which taken reports false.
func UniqueKey(base string, taken func(string) bool) string {
	key := base
	for n := 1; taken(key); n++ {
		key = base + "_" + strconv.Itoa(n)
	}
	return key
}
