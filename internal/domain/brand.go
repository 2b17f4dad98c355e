package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// BrandProfile is the user-authored persona/voice configuration consumed
// read-only by the generation pipeline. Ownership and mutation live in the
// account screens, outside this service.
type BrandProfile struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Theme          string         `json:"theme,omitempty"`
	Persona        Persona        `json:"persona"`
	ToneGuidelines ToneGuidelines `json:"tone_guidelines"`
	BannedTerms    []string       `json:"banned_terms"`
	MustInclude    []string       `json:"must_include"`
	KnowledgeBase  string         `json:"knowledge_base,omitempty"`
	LinkPolicy     LinkPolicy     `json:"link_policy"`
}

// Normalize drops duplicate banned/must-include entries, keeping first
// occurrence order.
func (b *BrandProfile) Normalize() {
	b.BannedTerms = dedupe(b.BannedTerms)
	b.MustInclude = dedupe(b.MustInclude)
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// Persona describes the target audience. The four known fields stay typed;
// anything else the account screens attach rides along in Extra.
type Persona struct {
	TargetAge  string         `json:"target_age,omitempty"`
	Interests  []string       `json:"interests,omitempty"`
	PainPoints []string       `json:"pain_points,omitempty"`
	Benefits   []string       `json:"benefits,omitempty"`
	Extra      map[string]any `json:"-"`
}

func (p Persona) MarshalJSON() ([]byte, error) {
	enc := newOrderedEncoder()
	enc.addString("target_age", p.TargetAge)
	enc.addStrings("interests", p.Interests)
	enc.addStrings("pain_points", p.PainPoints)
	enc.addStrings("benefits", p.Benefits)
	enc.addExtra(p.Extra)
	return enc.finish()
}

func (p *Persona) UnmarshalJSON(data []byte) error {
	raw, err := decodeOpenObject(data, map[string]any{
		"target_age":  &p.TargetAge,
		"interests":   &p.Interests,
		"pain_points": &p.PainPoints,
		"benefits":    &p.Benefits,
	})
	if err != nil {
		return err
	}
	p.Extra = raw
	return nil
}

// ToneGuidelines steer vocabulary and sentence style.
type ToneGuidelines struct {
	Formality     string         `json:"formality,omitempty"`
	EmojiUsage    EmojiLevel     `json:"emoji_usage,omitempty"`
	SentenceStyle string         `json:"sentence_style,omitempty"`
	BrandVoice    []string       `json:"brand_voice,omitempty"`
	Extra         map[string]any `json:"-"`
}

func (t ToneGuidelines) MarshalJSON() ([]byte, error) {
	enc := newOrderedEncoder()
	enc.addString("formality", t.Formality)
	enc.addString("emoji_usage", string(t.EmojiUsage))
	enc.addString("sentence_style", t.SentenceStyle)
	enc.addStrings("brand_voice", t.BrandVoice)
	enc.addExtra(t.Extra)
	return enc.finish()
}

func (t *ToneGuidelines) UnmarshalJSON(data []byte) error {
	var emoji string
	raw, err := decodeOpenObject(data, map[string]any{
		"formality":      &t.Formality,
		"emoji_usage":    &emoji,
		"sentence_style": &t.SentenceStyle,
		"brand_voice":    &t.BrandVoice,
	})
	if err != nil {
		return err
	}
	t.EmojiUsage = EmojiLevel(emoji)
	t.Extra = raw
	return nil
}

// LinkPolicy is rendered into the prompt but never enforced here; link
// rewriting happens in the publish adapters.
type LinkPolicy struct {
	UTMTemplate    string         `json:"utm_template,omitempty"`
	ShortenAllowed *bool          `json:"shorten_allowed,omitempty"`
	Extra          map[string]any `json:"-"`
}

func (l LinkPolicy) MarshalJSON() ([]byte, error) {
	enc := newOrderedEncoder()
	enc.addString("utm_template", l.UTMTemplate)
	if l.ShortenAllowed != nil {
		enc.add("shorten_allowed", *l.ShortenAllowed)
	}
	enc.addExtra(l.Extra)
	return enc.finish()
}

func (l *LinkPolicy) UnmarshalJSON(data []byte) error {
	raw, err := decodeOpenObject(data, map[string]any{
		"utm_template":    &l.UTMTemplate,
		"shorten_allowed": &l.ShortenAllowed,
	})
	if err != nil {
		return err
	}
	l.Extra = raw
	return nil
}

// orderedEncoder emits a JSON object with known fields first, then the open
// side-map keys in sorted order. Prompt construction depends on this being
// byte-stable across calls.
type orderedEncoder struct {
	buf   bytes.Buffer
	err   error
	count int
}

func newOrderedEncoder() *orderedEncoder {
	enc := &orderedEncoder{}
	enc.buf.WriteByte('{')
	return enc
}

func (enc *orderedEncoder) add(key string, value any) {
	if enc.err != nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		enc.err = err
		return
	}
	if enc.count > 0 {
		enc.buf.WriteByte(',')
	}
	keyData, _ := json.Marshal(key)
	enc.buf.Write(keyData)
	enc.buf.WriteByte(':')
	enc.buf.Write(data)
	enc.count++
}

func (enc *orderedEncoder) addString(key, value string) {
	if value != "" {
		enc.add(key, value)
	}
}

func (enc *orderedEncoder) addStrings(key string, values []string) {
	if len(values) > 0 {
		enc.add(key, values)
	}
}

func (enc *orderedEncoder) addExtra(extra map[string]any) {
	if len(extra) == 0 {
		return
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		enc.add(k, extra[k])
	}
}

func (enc *orderedEncoder) finish() ([]byte, error) {
	if enc.err != nil {
		return nil, enc.err
	}
	enc.buf.WriteByte('}')
	return enc.buf.Bytes(), nil
}

// decodeOpenObject unmarshals data into the given known-field targets and
// returns the remaining keys as the open side-map (nil when none).
func decodeOpenObject(data []byte, known map[string]any) (map[string]any, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	for key, target := range known {
		value, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, target); err != nil {
			return nil, err
		}
		delete(raw, key)
	}

	if len(raw) == 0 {
		return nil, nil
	}

	extra := make(map[string]any, len(raw))
	for key, value := range raw {
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return nil, err
		}
		extra[key] = decoded
	}
	return extra, nil
}
