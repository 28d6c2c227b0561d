// Package fingerprint derives the small integer keys used to address cached
// translations in local storage.
package fingerprint

import (
	"strconv"
	"unicode/utf16"
)

// Hash folds the UTF-16 code units of s into a running accumulator.
//
// The fold matches the one used by earlier versions of the widget so that
// entries already sitting in local storage keep resolving. It is cheap and
// deterministic, not collision resistant.
func Hash(s string) int64 {
	var a int64
	for _, c := range utf16.Encode([]rune(s)) {
		var lt int64
		if a < 5 {
			lt = 1
		}
		a = lt - a + int64(c)
	}
	return a
}

// Key returns the storage key for s: the decimal form of Hash(s).
func Key(s string) string {
	return strconv.FormatInt(Hash(s), 10)
}
