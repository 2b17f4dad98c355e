package extract

import (
	"strings"
	"testing"

	"github.com/kapu/snsgen-go/pkg/errors"
)

func TestExtractFencedBlockInsideProse(t *testing.T) {
	raw := "以下が生成結果です。\n\n```json\n{\"main\": \"本文\", \"alt1\": \"案1\", \"alt2\": \"案2\", \"short_main\": \"短縮\", \"hashtags\": [\"#旅\"]}\n```\n\nご確認ください。"

	result, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Main != "本文" {
		t.Fatalf("unexpected main: %q", result.Main)
	}
	if result.Alt1 != "案1" || result.Alt2 != "案2" || result.ShortMain != "短縮" {
		t.Fatalf("unexpected variants: %+v", result)
	}
	if len(result.Hashtags) != 1 || result.Hashtags[0] != "#旅" {
		t.Fatalf("unexpected hashtags: %v", result.Hashtags)
	}
}

func TestExtractFencedBlockBeatsBraceSpan(t *testing.T) {
	// A brace pair appears in the prose before the fence; the fenced payload
	// must still win.
	raw := "results {not json here} and then:\n```json\n{\"main\": \"m\", \"alt1\": \"a\", \"alt2\": \"b\", \"short_main\": \"s\"}\n```"

	result, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Main != "m" {
		t.Fatalf("expected fenced payload to win, got main=%q", result.Main)
	}
}

func TestExtractBraceSpanWithoutFence(t *testing.T) {
	raw := "こちらが結果です: {\"main\": \"m\", \"alt1\": \"a\", \"alt2\": \"b\", \"short_main\": \"s\"} 以上。"

	result, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Main != "m" {
		t.Fatalf("unexpected main: %q", result.Main)
	}
	if result.Hashtags == nil || len(result.Hashtags) != 0 {
		t.Fatalf("expected empty hashtags slice, got %v", result.Hashtags)
	}
}

func TestExtractWholeTextFallback(t *testing.T) {
	raw := "{\"main\": \"m\", \"alt1\": \"a\", \"alt2\": \"b\", \"short_main\": \"s\"}"

	result, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ShortMain != "s" {
		t.Fatalf("unexpected short_main: %q", result.ShortMain)
	}
}

func TestExtractNoJSONFails(t *testing.T) {
	raw := "申し訳ありませんが、生成できませんでした。"

	_, err := Extract(raw)
	if err == nil {
		t.Fatalf("expected extraction error")
	}

	var extractionErr *errors.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected *errors.ExtractionError, got %T", err)
	}
	if extractionErr.RawText != raw {
		t.Fatalf("raw text not attached to error")
	}
}

func TestExtractMissingRequiredField(t *testing.T) {
	raw := "{\"main\": \"m\", \"alt1\": \"a\", \"alt2\": \"b\"}"

	_, err := Extract(raw)
	if err == nil {
		t.Fatalf("expected error for missing short_main")
	}

	var extractionErr *errors.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected *errors.ExtractionError, got %T", err)
	}
	if !strings.Contains(err.Error(), "short_main") {
		t.Fatalf("error should name the missing field: %v", err)
	}
}

func TestExtractNonStringFieldFails(t *testing.T) {
	raw := "{\"main\": 42, \"alt1\": \"a\", \"alt2\": \"b\", \"short_main\": \"s\"}"

	_, err := Extract(raw)
	if err == nil {
		t.Fatalf("expected error for non-string main")
	}
	if !strings.Contains(err.Error(), "main") {
		t.Fatalf("error should name the field: %v", err)
	}
}

func TestExtractSkipsNonStringHashtags(t *testing.T) {
	raw := "{\"main\": \"m\", \"alt1\": \"a\", \"alt2\": \"b\", \"short_main\": \"s\", \"hashtags\": [\"#ok\", 7, null, \"#also\"]}"

	result, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Hashtags) != 2 || result.Hashtags[0] != "#ok" || result.Hashtags[1] != "#also" {
		t.Fatalf("unexpected hashtags: %v", result.Hashtags)
	}
}

func TestExtractUnparseableFenceFallsBack(t *testing.T) {
	// The fence body is broken but the surrounding text carries a valid brace
	// span; the chain must continue past the failed parse.
	raw := "```json\nnot valid\n``` but later {\"main\": \"m\", \"alt1\": \"a\", \"alt2\": \"b\", \"short_main\": \"s\"} done"

	result, err := Extract(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Main != "m" {
		t.Fatalf("unexpected main: %q", result.Main)
	}
}
