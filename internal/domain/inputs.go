package domain

import "fmt"

// Platform identifies a publishing target.
type Platform string

const (
	PlatformX         Platform = "X"
	PlatformInstagram Platform = "Instagram"
	PlatformThreads   Platform = "Threads"
	PlatformNote      Platform = "note"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformX, PlatformInstagram, PlatformThreads, PlatformNote:
		return true
	}
	return false
}

func (p Platform) String() string {
	return string(p)
}

func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

// PostType is platform-dependent vocabulary (normal/thread for X and
// Threads, feed/reel/story/carousel for Instagram, article/snippet for note).
type PostType string

const (
	PostTypeNormal   PostType = "normal"
	PostTypeThread   PostType = "thread"
	PostTypeFeed     PostType = "feed"
	PostTypeReel     PostType = "reel"
	PostTypeStory    PostType = "story"
	PostTypeCarousel PostType = "carousel"
	PostTypeArticle  PostType = "article"
	PostTypeSnippet  PostType = "snippet"
)

// ContentType selects a rhetorical pattern with worked examples in the
// prompt. Closed set; an unknown value simply renders without examples.
type ContentType string

const (
	ContentTypeContrast    ContentType = "contrast"
	ContentTypeAuthority   ContentType = "authority"
	ContentTypeValue       ContentType = "value"
	ContentTypeEmpathy     ContentType = "empathy"
	ContentTypeInsight     ContentType = "insight"
	ContentTypeStory       ContentType = "story"
	ContentTypeQuestion    ContentType = "question"
	ContentTypeAchievement ContentType = "achievement"
)

type EmojiLevel string

const (
	EmojiNone     EmojiLevel = "none"
	EmojiLight    EmojiLevel = "light"
	EmojiModerate EmojiLevel = "moderate"
	EmojiHeavy    EmojiLevel = "heavy"
)

type CTALevel string

const (
	CTANone   CTALevel = "none"
	CTAWeak   CTALevel = "weak"
	CTAStrong CTALevel = "strong"
)

type HashtagPosition string

const (
	HashtagEnd          HashtagPosition = "end"
	HashtagInline       HashtagPosition = "inline"
	HashtagEndOrComment HashtagPosition = "end_or_comment"
	HashtagInlineOrEnd  HashtagPosition = "inline_or_end"
)

// DefaultMaxChars applies when the caller sends no explicit length cap.
const DefaultMaxChars = 280

// DefaultHashtagMax applies when hashtags are on but no cap was given.
const DefaultHashtagMax = 5

type HashtagOptions struct {
	On       bool            `json:"on"`
	Max      int             `json:"max,omitempty"`
	Position HashtagPosition `json:"position,omitempty"`
}

type GenerationOptions struct {
	Hashtags *HashtagOptions `json:"hashtags,omitempty"`
	MaxChars int             `json:"max_chars,omitempty"`
	Emoji    EmojiLevel      `json:"emoji,omitempty"`
	CTA      CTALevel        `json:"cta,omitempty"`
}

// Resolved returns a copy with every absent field replaced by its default,
// so nothing downstream ever renders an empty constraint.
func (o GenerationOptions) Resolved() GenerationOptions {
	if o.MaxChars <= 0 {
		o.MaxChars = DefaultMaxChars
	}
	if o.Emoji == "" {
		o.Emoji = EmojiModerate
	}
	if o.CTA == "" {
		o.CTA = CTAWeak
	}
	if o.Hashtags != nil && o.Hashtags.On {
		hashtags := *o.Hashtags
		if hashtags.Max <= 0 {
			hashtags.Max = DefaultHashtagMax
		}
		if hashtags.Position == "" {
			hashtags.Position = HashtagEnd
		}
		o.Hashtags = &hashtags
	}
	return o
}

// GenerationInputs are the per-invocation parameters. Transient; validated
// and default-resolved by the orchestrator before prompt construction.
type GenerationInputs struct {
	Prompt      string            `json:"prompt"`
	BaseText    string            `json:"base_text,omitempty"`
	Platform    Platform          `json:"sns"`
	PostType    PostType          `json:"post_type"`
	ContentType ContentType       `json:"content_type,omitempty"`
	Options     GenerationOptions `json:"options,omitempty"`
}
