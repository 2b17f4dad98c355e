package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kapu/snsgen-go/internal/domain"
	"github.com/kapu/snsgen-go/internal/platform"
)

func testBrand() *domain.BrandProfile {
	return &domain.BrandProfile{
		ID:   "brand-1",
		Name: "テストブランド",
		Persona: domain.Persona{
			TargetAge: "30代",
			Interests: []string{"旅行", "グルメ"},
		},
		ToneGuidelines: domain.ToneGuidelines{
			Formality: "カジュアル",
		},
		BannedTerms: []string{"絶対", "必ず"},
		MustInclude: []string{"公式"},
	}
}

func testInputs() *domain.GenerationInputs {
	return &domain.GenerationInputs{
		Prompt:      "新商品の発売告知",
		Platform:    domain.PlatformX,
		PostType:    domain.PostTypeNormal,
		ContentType: domain.ContentTypeValue,
		Options: domain.GenerationOptions{
			Hashtags: &domain.HashtagOptions{On: true, Max: 3},
		},
	}
}

func xProfile(t *testing.T) platform.PolicyProfile {
	t.Helper()
	profile, err := platform.Profile(domain.PlatformX)
	if err != nil {
		t.Fatalf("profile lookup failed: %v", err)
	}
	return profile
}

func TestBuildIsDeterministic(t *testing.T) {
	brand := testBrand()
	brand.Persona.Extra = map[string]any{"zeta": "z", "alpha": "a", "mid": 1}
	in := testInputs()
	profile := xProfile(t)

	sys1, user1, err := Build(brand, in, profile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		sys2, user2, err := Build(brand, in, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sys1 != sys2 || user1 != user2 {
			t.Fatalf("prompt output not byte-stable across runs")
		}
	}
}

func TestBuildSystemInstructionIsFixed(t *testing.T) {
	sys, _, err := Build(testBrand(), testInputs(), xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := testBrand()
	other.Name = "別ブランド"
	other.BannedTerms = nil
	sysOther, _, err := Build(other, testInputs(), xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sys != sysOther {
		t.Fatalf("system instruction must not depend on configuration")
	}
	if !strings.Contains(sys, "JSON") {
		t.Fatalf("system instruction must demand structured output")
	}
}

func TestBuildRendersSectionsInOrder(t *testing.T) {
	_, user, err := Build(testBrand(), testInputs(), xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sections := []string{
		"# ブランドトーン",
		"# ターゲットペルソナ",
		"# SNS: X",
		"# 投稿種別",
		"# 投稿内容タイプ",
		"# 目的",
		"# 必須/禁止語",
		"# SNS仕様",
		"# 制約",
		"# 出力形式（JSON）",
	}

	last := -1
	for _, section := range sections {
		idx := strings.Index(user, section)
		if idx < 0 {
			t.Fatalf("missing section %q in prompt", section)
		}
		if idx < last {
			t.Fatalf("section %q out of order", section)
		}
		last = idx
	}
}

func TestBuildRendersDefaults(t *testing.T) {
	in := testInputs()
	in.Options = domain.GenerationOptions{} // everything absent

	_, user, err := Build(testBrand(), in, xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(user, fmt.Sprintf("最大文字数: %d", domain.DefaultMaxChars)) {
		t.Fatalf("default max chars not rendered")
	}
	if !strings.Contains(user, "ハッシュタグ: 生成なし") {
		t.Fatalf("absent hashtag options must render as off")
	}
	if strings.Contains(user, "絵文字: \n") {
		t.Fatalf("emoji level rendered empty")
	}
}

func TestBuildOmitsAbsentSections(t *testing.T) {
	brand := testBrand()
	brand.KnowledgeBase = ""
	in := testInputs()
	in.BaseText = ""
	in.ContentType = ""

	_, user, err := Build(brand, in, xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(user, "# 知識ベース") {
		t.Fatalf("empty knowledge base must not render")
	}
	if strings.Contains(user, "# ベース文章") {
		t.Fatalf("empty base text must not render")
	}
	if strings.Contains(user, "# 参考例文") {
		t.Fatalf("no content type means no examples")
	}
}

func TestBuildRendersTermsAndPlaceholders(t *testing.T) {
	_, user, err := Build(testBrand(), testInputs(), xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(user, "禁止語: 絶対, 必ず") {
		t.Fatalf("banned terms not rendered")
	}

	brand := testBrand()
	brand.BannedTerms = nil
	brand.MustInclude = nil
	_, user, err = Build(brand, testInputs(), xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(user, "必須語: なし") || !strings.Contains(user, "禁止語: なし") {
		t.Fatalf("empty term lists must render the placeholder")
	}
}

func TestBuildRendersHashtagOptions(t *testing.T) {
	_, user, err := Build(testBrand(), testInputs(), xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(user, "生成ON、最大3個") {
		t.Fatalf("hashtag options not rendered: missing count")
	}
}

func TestBuildIncludesContentTypeExamples(t *testing.T) {
	_, user, err := Build(testBrand(), testInputs(), xProfile(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(user, "# 参考例文") {
		t.Fatalf("content type examples section missing")
	}
	if !strings.Contains(user, "1. ") {
		t.Fatalf("examples must be numbered")
	}
}
