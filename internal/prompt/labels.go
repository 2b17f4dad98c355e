package prompt

import "github.com/kapu/snsgen-go/internal/domain"

var postTypeLabels = map[domain.PostType]string{
	domain.PostTypeNormal:   "通常投稿",
	domain.PostTypeThread:   "スレッド",
	domain.PostTypeFeed:     "フィード投稿",
	domain.PostTypeReel:     "リール",
	domain.PostTypeStory:    "ストーリーズ",
	domain.PostTypeCarousel: "カルーセル",
	domain.PostTypeArticle:  "記事",
	domain.PostTypeSnippet:  "つぶやき",
}

var contentTypeDescriptions = map[domain.ContentType]string{
	domain.ContentTypeContrast:    "対立型 - 常識否定、逆張り、仮想敵設定で注目を集める",
	domain.ContentTypeAuthority:   "権威構築型 - 実績・専門性をアピールして信頼を得る",
	domain.ContentTypeValue:       "価値提供型 - ノウハウ・Tips・教育的コンテンツで役立つ",
	domain.ContentTypeEmpathy:     "共感型 - あるある・悩み共有で寄り添う",
	domain.ContentTypeInsight:     "洞察型 - 哲学・本質・深い気づきで考えさせる",
	domain.ContentTypeStory:       "ストーリー型 - 体験談・変化の物語で引き込む",
	domain.ContentTypeQuestion:    "問いかけ型 - 質問・対話でエンゲージメント促進",
	domain.ContentTypeAchievement: "結果公開型 - 数字・実績・証拠で説得力を持たせる",
}

var emojiLevelDescriptions = map[domain.EmojiLevel]string{
	domain.EmojiNone:     "絵文字なし（ビジネス・公式）",
	domain.EmojiLight:    "控えめ（1-2個/投稿）",
	domain.EmojiModerate: "通常（3-5個/投稿）",
	domain.EmojiHeavy:    "多め（6個以上/投稿）",
}

var ctaLevelDescriptions = map[domain.CTALevel]string{
	domain.CTANone:   "なし",
	domain.CTAWeak:   "弱（例：詳しくはプロフィールから）",
	domain.CTAStrong: "強（例：今すぐチェック！）",
}

var hashtagPositionLabels = map[domain.HashtagPosition]string{
	domain.HashtagEnd:          "末尾",
	domain.HashtagInline:       "文中",
	domain.HashtagEndOrComment: "末尾またはコメント",
	domain.HashtagInlineOrEnd:  "文中または末尾",
}

func postTypeLabel(t domain.PostType) string {
	if label, ok := postTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

func hashtagPositionLabel(p domain.HashtagPosition) string {
	if label, ok := hashtagPositionLabels[p]; ok {
		return label
	}
	return "末尾"
}
