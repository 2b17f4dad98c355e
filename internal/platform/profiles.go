// Package platform holds the static per-platform posting constraints.
// Values mirror each platform's published limits plus house guidance; they
// are loaded once and never mutated.
package platform

import (
	"fmt"

	"github.com/kapu/snsgen-go/internal/domain"
	"github.com/kapu/snsgen-go/pkg/errors"
)

type Range struct {
	Min int
	Max int
}

type HashtagPolicy struct {
	Recommended Range
	Max         int
	Position    domain.HashtagPosition
}

// PolicyProfile is pure data: hard and soft length bounds, hashtag policy,
// and tone descriptors rendered into the prompt.
type PolicyProfile struct {
	MaxChars         int
	RecommendedChars Range
	ShortChars       Range
	Hashtags         HashtagPolicy
	LineBreaks       string
	Tone             []string
	HashtagHint      string
}

var profiles = map[domain.Platform]PolicyProfile{
	domain.PlatformX: {
		MaxChars:         280,
		RecommendedChars: Range{140, 260},
		ShortChars:       Range{80, 120},
		Hashtags: HashtagPolicy{
			Recommended: Range{2, 4},
			Max:         5,
			Position:    domain.HashtagEnd,
		},
		LineBreaks:  "minimal",
		Tone:        []string{"concise", "impactful", "timely"},
		HashtagHint: "コア2個 + ニッチ1-2個、トレンドを意識",
	},
	domain.PlatformInstagram: {
		MaxChars:         2200,
		RecommendedChars: Range{200, 500},
		ShortChars:       Range{100, 150},
		Hashtags: HashtagPolicy{
			Recommended: Range{8, 15},
			Max:         30,
			Position:    domain.HashtagEndOrComment,
		},
		LineBreaks:  "generous",
		Tone:        []string{"storytelling", "empathy", "visual"},
		HashtagHint: "コア3個 + ニッチ7-12個、検索とトレンドのバランス",
	},
	domain.PlatformThreads: {
		MaxChars:         500,
		RecommendedChars: Range{100, 300},
		ShortChars:       Range{80, 150},
		Hashtags: HashtagPolicy{
			Recommended: Range{1, 3},
			Max:         5,
			Position:    domain.HashtagInlineOrEnd,
		},
		LineBreaks:  "moderate",
		Tone:        []string{"conversational", "casual", "community"},
		HashtagHint: "コア1-2個 + ニッチ1個、控えめに",
	},
	domain.PlatformNote: {
		MaxChars:         50000,
		RecommendedChars: Range{1000, 3000},
		ShortChars:       Range{500, 800},
		Hashtags: HashtagPolicy{
			Recommended: Range{3, 5},
			Max:         10,
			Position:    domain.HashtagEnd,
		},
		LineBreaks:  "generous",
		Tone:        []string{"detailed", "structured", "educational"},
		HashtagHint: "コア2-3個 + ニッチ2個、検索重視",
	},
}

var postTypes = map[domain.Platform][]domain.PostType{
	domain.PlatformX:         {domain.PostTypeNormal, domain.PostTypeThread},
	domain.PlatformInstagram: {domain.PostTypeFeed, domain.PostTypeReel, domain.PostTypeStory, domain.PostTypeCarousel},
	domain.PlatformThreads:   {domain.PostTypeNormal, domain.PostTypeThread},
	domain.PlatformNote:      {domain.PostTypeArticle, domain.PostTypeSnippet},
}

// Profile resolves the policy profile for a platform. An unknown platform is
// a caller bug, reported as a ConfigurationError.
func Profile(p domain.Platform) (PolicyProfile, error) {
	profile, ok := profiles[p]
	if !ok {
		return PolicyProfile{}, errors.NewConfigurationError(
			fmt.Sprintf("unknown platform %q", string(p)), "platform", string(p))
	}
	return profile, nil
}

// ValidPostType reports whether the post type belongs to the platform's
// vocabulary.
func ValidPostType(p domain.Platform, t domain.PostType) bool {
	for _, valid := range postTypes[p] {
		if t == valid {
			return true
		}
	}
	return false
}

// PostTypes returns the platform's post-type vocabulary.
func PostTypes(p domain.Platform) []domain.PostType {
	return postTypes[p]
}
