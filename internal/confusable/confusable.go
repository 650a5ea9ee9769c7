// Package confusable detects Unicode lookalike tricks in domain names:
// Cyrillic and Greek letters that render like Latin ones, and labels
// that mix scripts. "gmаil.com" with a Cyrillic а is not gmail.com.
package confusable

import (
	"strings"
	"unicode"
)

// confusables maps Cyrillic and Greek letters to the Latin letters they
// are visually indistinguishable from in most fonts.
var confusables = map[rune]rune{
	// Cyrillic
	'а': 'a', 'е': 'e', 'о': 'o', 'р': 'p', 'с': 'c', 'у': 'y', 'х': 'x',
	'А': 'A', 'Е': 'E', 'О': 'O', 'Р': 'P', 'С': 'C', 'У': 'Y', 'Х': 'X',
	// Greek capitals
	'Α': 'A', 'Β': 'B', 'Ε': 'E', 'Η': 'H', 'Ι': 'I', 'Κ': 'K', 'Μ': 'M',
	'Ν': 'N', 'Ο': 'O', 'Ρ': 'P', 'Τ': 'T', 'Χ': 'X', 'Υ': 'Y',
}

// diacritics folds accented Latin letters to their base letter so that
// "gmaìl.com" skeletons to "gmail.com".
var diacritics = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'ç': "c",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ñ': "n",
	'ò': "o", 'ó': "o", 'ô': "o", 'ö': "o", 'õ': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u",
	'ÿ': "y",
	'œ': "oe", 'æ': "ae",
	'À': "A", 'Á': "A", 'Â': "A", 'Ä': "A", 'Ã': "A", 'Å': "A",
	'Ç': "C",
	'È': "E", 'É': "E", 'Ê': "E", 'Ë': "E",
	'Ì': "I", 'Í': "I", 'Î': "I", 'Ï': "I",
	'Ñ': "N",
	'Ò': "O", 'Ó': "O", 'Ô': "O", 'Ö': "O", 'Õ': "O",
	'Ù': "U", 'Ú': "U", 'Û': "U", 'Ü': "U",
	'Œ': "OE", 'Æ': "AE",
}

// Skeleton maps every confusable or accented rune to its plain Latin
// counterpart. When the result differs from the input, the input only
// looked like its skeleton.
func Skeleton(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if lat, ok := confusables[r]; ok {
			b.WriteRune(lat)
			continue
		}
		if base, ok := diacritics[r]; ok {
			b.WriteString(base)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsLookalike reports whether s contains at least one confusable rune,
// i.e. its skeleton is a different string.
func IsLookalike(s string) bool {
	for _, r := range s {
		if _, ok := confusables[r]; ok {
			return true
		}
	}
	return false
}

// IsMixedScript reports whether any dot-separated label of s draws
// letters from more than one of the Latin, Cyrillic and Greek scripts.
// Legitimate internationalized domains keep each label in one script.
func IsMixedScript(s string) bool {
	for _, label := range strings.Split(s, ".") {
		if mixedLabel(label) {
			return true
		}
	}
	return false
}

func mixedLabel(label string) bool {
	var primary *unicode.RangeTable
	for _, r := range label {
		script := scriptOf(r)
		if script == nil {
			continue
		}
		if primary == nil {
			primary = script
			continue
		}
		if script != primary {
			return true
		}
	}
	return false
}

func scriptOf(r rune) *unicode.RangeTable {
	switch {
	case unicode.Is(unicode.Latin, r):
		return unicode.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return unicode.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return unicode.Greek
	default:
		return nil
	}
}
