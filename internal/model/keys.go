package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKey canonicalizes a natural key for comparison and storage.
// Keys are NFC normalized and stripped of surrounding whitespace so that
// the same name typed in two UIs always lands on the same row.
func NormalizeKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
