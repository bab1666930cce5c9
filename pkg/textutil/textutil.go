// Copyright (c) 2026 Punchline. All rights reserved.

// Package textutil normalizes user-submitted text before validation and storage.
//
// Submitted names arrive from arbitrary clients in mixed Unicode forms; two
// visually identical strings can differ byte-for-byte (composed vs decomposed
// accents). Normalizing to NFC once at the boundary keeps length validation,
// uniqueness checks, and display consistent.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean trims surrounding whitespace and normalizes the value to Unicode NFC.
func Clean(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}
