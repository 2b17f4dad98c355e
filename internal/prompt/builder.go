// Package prompt composes the system and user instructions sent to the
// generation backend. Building is a pure function of the brand profile, the
// generation inputs and the platform policy profile: same inputs, same bytes.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kapu/snsgen-go/internal/domain"
	"github.com/kapu/snsgen-go/internal/platform"
)

// systemInstruction is fixed and configuration-independent: role, hard rules,
// and the structured output requirement.
const systemInstruction = `あなたはSNSコピーライターです。各SNSの仕様・読者心理・ブランドトーンに準拠して、短く刺さる投稿文を日本語で作成します。
以下のルールを厳守してください：
- 誇大表現や根拠のない断定を避ける
- 禁止語を使用しない
- 指定された文字数・ハッシュタグ数を守る
- トーンガイドラインに沿った口調・語彙を使用する
- 出力はJSON形式で返す`

const outputSchema = `# 出力形式（JSON）
{
  "main": "本命案の投稿文",
  "alt1": "代替案1",
  "alt2": "代替案2",
  "short_main": "短縮版",
  "hashtags": ["#タグ1", "#タグ2"]
}`

// Build returns the system and user instructions. Option defaults are
// resolved before rendering, so absent fields never surface as empty text.
func Build(brand *domain.BrandProfile, in *domain.GenerationInputs, profile platform.PolicyProfile) (string, string, error) {
	opts := in.Options.Resolved()

	tone, err := json.MarshalIndent(brand.ToneGuidelines, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("serialize tone guidelines: %w", err)
	}
	persona, err := json.MarshalIndent(brand.Persona, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("serialize persona: %w", err)
	}

	var b strings.Builder

	b.WriteString("# ブランドトーン\n")
	b.Write(tone)
	b.WriteString("\n\n# ターゲットペルソナ\n")
	b.Write(persona)
	b.WriteString("\n\n")

	if brand.KnowledgeBase != "" {
		b.WriteString("# 知識ベース（ブランド・商品情報）\n")
		b.WriteString(brand.KnowledgeBase)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "# SNS: %s\n", in.Platform)
	fmt.Fprintf(&b, "# 投稿種別: %s\n", postTypeLabel(in.PostType))

	if in.ContentType != "" {
		if desc, ok := contentTypeDescriptions[in.ContentType]; ok {
			fmt.Fprintf(&b, "# 投稿内容タイプ: %s\n", desc)
		} else {
			fmt.Fprintf(&b, "# 投稿内容タイプ: %s\n", in.ContentType)
		}
		if examples := ExamplesFor(in.ContentType); len(examples) > 0 {
			b.WriteString("\n# 参考例文（このタイプの投稿イメージ）\n")
			for i, example := range examples {
				if i >= maxExamplesPerType {
					break
				}
				fmt.Fprintf(&b, "%d. %s\n", i+1, example)
			}
		}
	}

	b.WriteString("\n# 目的\n")
	b.WriteString(in.Prompt)
	b.WriteString("\n\n")

	if in.BaseText != "" {
		b.WriteString("# ベース文章\n")
		b.WriteString(in.BaseText)
		b.WriteString("\n\n")
	}

	b.WriteString("# 必須/禁止語\n")
	fmt.Fprintf(&b, "必須語: %s\n", termList(brand.MustInclude))
	fmt.Fprintf(&b, "禁止語: %s\n", termList(brand.BannedTerms))

	b.WriteString("\n# SNS仕様\n")
	fmt.Fprintf(&b, "推奨文字数: %d〜%d文字\n", profile.RecommendedChars.Min, profile.RecommendedChars.Max)
	fmt.Fprintf(&b, "短縮版の目安: %d〜%d文字\n", profile.ShortChars.Min, profile.ShortChars.Max)
	fmt.Fprintf(&b, "ハッシュタグ目安: %d〜%d個（上限%d個、配置: %s）\n",
		profile.Hashtags.Recommended.Min, profile.Hashtags.Recommended.Max,
		profile.Hashtags.Max, hashtagPositionLabel(profile.Hashtags.Position))
	if profile.HashtagHint != "" {
		fmt.Fprintf(&b, "ハッシュタグ選定: %s\n", profile.HashtagHint)
	}
	fmt.Fprintf(&b, "トーン: %s\n", strings.Join(profile.Tone, " / "))

	b.WriteString("\n# 制約\n")
	fmt.Fprintf(&b, "最大文字数: %d\n", opts.MaxChars)
	fmt.Fprintf(&b, "ハッシュタグ: %s\n", hashtagPolicyText(opts.Hashtags))
	fmt.Fprintf(&b, "絵文字: %s\n", emojiLevelDescriptions[opts.Emoji])
	fmt.Fprintf(&b, "CTA: %s\n", ctaLevelDescriptions[opts.CTA])

	b.WriteString("\n")
	b.WriteString(outputSchema)

	return systemInstruction, b.String(), nil
}

func termList(terms []string) string {
	if len(terms) == 0 {
		return "なし"
	}
	return strings.Join(terms, ", ")
}

func hashtagPolicyText(opts *domain.HashtagOptions) string {
	if opts == nil || !opts.On {
		return "生成なし"
	}
	return fmt.Sprintf("生成ON、最大%d個、配置：%s", opts.Max, hashtagPositionLabel(opts.Position))
}
