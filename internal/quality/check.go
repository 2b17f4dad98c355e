// Package quality runs the deterministic post-generation checks: length
// against the platform cap and literal banned-term containment. It never
// fails — a non-compliant draft is data, and the caller decides whether to
// show, regenerate or block it.
package quality

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kapu/snsgen-go/internal/domain"
)

// Check reports on a single draft text. Character counting is rune-based so
// the number matches what the user sees in the composer, not the UTF-8 byte
// length. Banned-term matching is case-sensitive substring containment,
// evaluated per term in list order; a term nested inside another match is
// still reported on its own.
func Check(text string, bannedTerms []string, maxChars int) domain.QualityReport {
	charCount := utf8.RuneCountInString(text)

	found := make([]string, 0)
	for _, term := range bannedTerms {
		if term == "" {
			continue
		}
		if strings.Contains(text, term) {
			found = append(found, term)
		}
	}

	warnings := make([]string, 0)
	if charCount > maxChars {
		warnings = append(warnings, fmt.Sprintf("文字数超過: %d/%d", charCount, maxChars))
	}
	if len(found) > 0 {
		warnings = append(warnings, fmt.Sprintf("禁止語検出: %s", strings.Join(found, ", ")))
	}

	return domain.QualityReport{
		CharCount:        charCount,
		BannedTermsFound: found,
		Compliant:        charCount <= maxChars && len(found) == 0,
		Warnings:         warnings,
	}
}
