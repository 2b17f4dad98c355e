// Package extract recovers a structured generation result from raw model
// output. Models wrap JSON in prose or code fences despite instructions, so
// extraction runs an ordered chain of strategies and takes the first one
// whose candidate parses.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kapu/snsgen-go/internal/domain"
	"github.com/kapu/snsgen-go/pkg/errors"
)

var fencedBlockRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// strategy returns a candidate JSON payload cut from the raw text, or false
// when the raw text has no shape this strategy recognizes.
type strategy struct {
	name string
	cut  func(raw string) (string, bool)
}

// Ordered: a language-tagged fence beats a bare brace span beats the whole
// text. Appending a new heuristic means appending to this slice.
var strategies = []strategy{
	{
		name: "fenced_block",
		cut: func(raw string) (string, bool) {
			match := fencedBlockRe.FindStringSubmatch(raw)
			if match == nil {
				return "", false
			}
			return strings.TrimSpace(match[1]), true
		},
	},
	{
		name: "brace_span",
		cut: func(raw string) (string, bool) {
			start := strings.Index(raw, "{")
			end := strings.LastIndex(raw, "}")
			if start < 0 || end <= start {
				return "", false
			}
			return raw[start : end+1], true
		},
	},
	{
		name: "whole_text",
		cut: func(raw string) (string, bool) {
			return strings.TrimSpace(raw), true
		},
	},
}

var requiredFields = []string{"main", "alt1", "alt2", "short_main"}

// Extract parses the raw model output into a GeneratedResult. All four text
// variants must be present as strings; hashtags defaults to empty. When no
// strategy yields parseable JSON the raw text is attached to the error for
// diagnostics — partial results are never returned.
func Extract(raw string) (*domain.GeneratedResult, error) {
	var lastErr error

	for _, s := range strategies {
		candidate, ok := s.cut(raw)
		if !ok {
			continue
		}

		var parsed map[string]any
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			lastErr = fmt.Errorf("%s: %w", s.name, err)
			continue
		}

		return buildResult(parsed, raw)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no JSON-like structure in output")
	}
	return nil, errors.NewExtractionError("no parseable payload in model output", raw, lastErr)
}

// buildResult validates a successfully parsed payload. A missing or
// non-string required field fails the whole extraction rather than falling
// through to a weaker strategy: the payload parsed, it is just wrong.
func buildResult(parsed map[string]any, raw string) (*domain.GeneratedResult, error) {
	texts := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		value, ok := parsed[field]
		if !ok {
			return nil, errors.NewExtractionError(
				fmt.Sprintf("required field %q missing from model output", field), raw, nil)
		}
		text, ok := value.(string)
		if !ok {
			return nil, errors.NewExtractionError(
				fmt.Sprintf("required field %q is not a string", field), raw, nil)
		}
		texts[field] = text
	}

	result := &domain.GeneratedResult{
		Main:      texts["main"],
		Alt1:      texts["alt1"],
		Alt2:      texts["alt2"],
		ShortMain: texts["short_main"],
		Hashtags:  []string{},
	}

	if rawTags, ok := parsed["hashtags"].([]any); ok {
		for _, tag := range rawTags {
			if s, ok := tag.(string); ok {
				result.Hashtags = append(result.Hashtags, s)
			}
		}
	}

	return result, nil
}
