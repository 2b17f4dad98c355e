package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeDedupesKeepingOrder(t *testing.T) {
	brand := &BrandProfile{
		BannedTerms: []string{"絶対", "必ず", "絶対", "", "無料", "必ず"},
		MustInclude: []string{"公式", "公式"},
	}
	brand.Normalize()

	if !reflect.DeepEqual(brand.BannedTerms, []string{"絶対", "必ず", "無料"}) {
		t.Fatalf("unexpected banned terms: %v", brand.BannedTerms)
	}
	if !reflect.DeepEqual(brand.MustInclude, []string{"公式"}) {
		t.Fatalf("unexpected must include: %v", brand.MustInclude)
	}
}

func TestPersonaExtraKeysRoundTrip(t *testing.T) {
	input := []byte(`{"target_age":"30代","interests":["旅行"],"region":"関西","budget":5000}`)

	var persona Persona
	if err := json.Unmarshal(input, &persona); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if persona.TargetAge != "30代" {
		t.Fatalf("known field not decoded: %+v", persona)
	}
	if persona.Extra["region"] != "関西" {
		t.Fatalf("extra key not preserved: %v", persona.Extra)
	}

	out, err := json.Marshal(persona)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("re-unmarshal failed: %v", err)
	}
	if decoded["region"] != "関西" || decoded["budget"] != float64(5000) {
		t.Fatalf("extra keys lost on round trip: %v", decoded)
	}
}

func TestPersonaSerializationIsByteStable(t *testing.T) {
	persona := Persona{
		TargetAge: "20代",
		Extra: map[string]any{
			"zeta":  "last",
			"alpha": "first",
			"mid":   3,
		},
	}

	first, err := json.Marshal(persona)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		next, err := json.Marshal(persona)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(first) != string(next) {
			t.Fatalf("serialization not byte-stable:\n%s\n%s", first, next)
		}
	}

	// Known fields first, extras sorted.
	want := `{"target_age":"20代","alpha":"first","mid":3,"zeta":"last"}`
	if string(first) != want {
		t.Fatalf("unexpected serialization order:\n got %s\nwant %s", first, want)
	}
}

func TestResolvedDefaults(t *testing.T) {
	opts := GenerationOptions{}.Resolved()

	if opts.MaxChars != DefaultMaxChars {
		t.Fatalf("expected default max chars %d, got %d", DefaultMaxChars, opts.MaxChars)
	}
	if opts.Emoji != EmojiModerate {
		t.Fatalf("expected moderate emoji default, got %s", opts.Emoji)
	}
	if opts.CTA != CTAWeak {
		t.Fatalf("expected weak CTA default, got %s", opts.CTA)
	}
	if opts.Hashtags != nil {
		t.Fatalf("absent hashtag options must stay nil")
	}
}

func TestResolvedHashtagDefaults(t *testing.T) {
	opts := GenerationOptions{
		Hashtags: &HashtagOptions{On: true},
	}.Resolved()

	if opts.Hashtags.Max != DefaultHashtagMax {
		t.Fatalf("expected hashtag max default %d, got %d", DefaultHashtagMax, opts.Hashtags.Max)
	}
	if opts.Hashtags.Position != HashtagEnd {
		t.Fatalf("expected end position default, got %s", opts.Hashtags.Position)
	}
}

func TestResolvedDoesNotMutateReceiver(t *testing.T) {
	original := GenerationOptions{
		Hashtags: &HashtagOptions{On: true},
	}
	_ = original.Resolved()

	if original.Hashtags.Max != 0 {
		t.Fatalf("Resolved must not mutate the original options")
	}
}
