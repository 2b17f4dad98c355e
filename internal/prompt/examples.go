package prompt

import "github.com/kapu/snsgen-go/internal/domain"

// Worked examples per content type, rendered into the prompt so the model
// imitates the rhetorical pattern rather than guessing it from the label.
// Three per type; the builder renders at most maxExamplesPerType.

const maxExamplesPerType = 3

var contrastExamples = []string{
	"「毎日投稿すべき」は嘘です。SNS疲れの原因は量より質の問題。週3本の濃い投稿の方が圧倒的に伸びます。",
	"業界の常識「フォロワーが増えれば売上も上がる」←これ、半分間違ってます。大事なのは数じゃなくて○○です。",
	"「SNS運用は楽しく」という人ほど伸びない理由。本気で結果を出したいなら、戦略的に設計すべきです。",
}

var authorityExamples = []string{
	"フォロワー0→10万まで1年で達成した私が、実践した3つの施策を公開します。再現性高めです。",
	"マーケター歴10年、累計100社のSNS運用を支援してきました。その経験から見えた「伸びるアカウント」の共通点とは？",
	"書籍「SNS設計の教科書」著者。これまで培ったノウハウを惜しみなく発信していきます。",
}

var valueExamples = []string{
	"【保存版】投稿のインプレッションを3倍にする5つのテクニック｜①投稿時間を最適化 ②冒頭で引きを作る ③...",
	"プロフィール文章の作り方、完全ガイド。見た瞬間にフォローされるプロフィールには、この3要素が入っています。",
	"ハッシュタグ選定の正しい手順｜闇雲に付けても無意味です。ビッグ×ミドル×スモールの黄金比率を解説します。",
}

var empathyExamples = []string{
	"SNS運用してると「いいね少ない…私ダメなのかな」って思う時ありますよね。大丈夫、みんな通る道です。",
	"投稿ネタが思いつかなくて手が止まる…わかります。私も毎週その壁にぶち当たってます。",
	"フォロワー増えないし、反応も薄い。「何のためにやってるんだろう」って思う日、ありますよね。",
}

var insightExamples = []string{
	"SNS運用の本質は「発信」ではなく「対話」です。一方的に話すだけでは、誰も振り向いてくれません。",
	"「バズり」を追うのをやめた時、本当の成長が始まる。数字ではなく、届けたい人に届ける。それがSNSの真髄。",
	"フォロワー数は「結果」であって「目的」ではない。あなたが提供する価値こそが、すべての起点です。",
}

var storyExamples = []string{
	"3ヶ月前、フォロワー200人で心が折れかけてました。でも、ある投稿をきっかけに風向きが変わったんです。",
	"初めてバズった日のこと、今でも覚えてます。朝起きたら通知が1000件。でも、それ以上に嬉しかったのは…",
	"「SNSなんて無理」と思ってた私が、1年後には講座を開くまでになった話。すべてはあの日の決断から始まりました。",
}

var questionExamples = []string{
	"あなたがSNSで一番伸び悩んでるポイントはどこですか？｜①ネタ切れ ②文章力 ③継続 ④戦略 コメントで教えてください！",
	"正直に聞きます。SNS運用、楽しめてますか？それとも義務になってますか？",
	"もし明日からフォロワーが0になったら、あなたは同じ発信を続けますか？この質問、意外と本質を突いてると思います。",
}

var achievementExamples = []string{
	"【運用6ヶ月の成果報告】フォロワー：0→12,340人｜月間インプレッション：328万｜問い合わせ：月42件。やったこと全部公開します。",
	"先月の投稿で最も反応が良かったTOP3を分析しました。共通点は「○○」でした。データで見ると一目瞭然です。",
	"A/Bテストの結果が出ました｜パターンA：いいね487 パターンB：いいね1,240。勝因は冒頭の「たった2文字」の違いでした。",
}

// ExamplesFor returns the worked examples for a content type. The switch
// keeps the lookup closed over the known set: anything else is the
// no-examples case, and the section is omitted from the prompt.
func ExamplesFor(ct domain.ContentType) []string {
	switch ct {
	case domain.ContentTypeContrast:
		return contrastExamples
	case domain.ContentTypeAuthority:
		return authorityExamples
	case domain.ContentTypeValue:
		return valueExamples
	case domain.ContentTypeEmpathy:
		return empathyExamples
	case domain.ContentTypeInsight:
		return insightExamples
	case domain.ContentTypeStory:
		return storyExamples
	case domain.ContentTypeQuestion:
		return questionExamples
	case domain.ContentTypeAchievement:
		return achievementExamples
	default:
		return nil
	}
}
