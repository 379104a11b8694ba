package podcast

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

// Speaker names are fixed personas; the TTS voice map keys on them.
const (
	SpeakerHost  = "ホスト"
	SpeakerGuest = "ゲスト"
)

// Turn is one utterance of the generated dialogue.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

const scriptPromptTemplate = `あなたはポッドキャスト「ひびちどく」の脚本家です。以下の記事内容をもとに、ホスト（若い女性）とゲスト（男性）が議論する10-15分のポッドキャスト台本を作成してください。

【重要なルール】
- 番組名は「ひびちどく」とひらがなで読んでください（「日々知読」ではなく）
- ゲストは専門家や大学教授などを名乗らないでください。自己紹介は不要です
- 2人は対等に議論する形式です

## 記事タイトル
%s

## 記事概要
%s

## 詳細解説
%s

## 番組コンセプト
- 「休日の朝にカフェで聴く、テック系ラジオ」
- 堅苦しい解説ではなく、二人のパーソナリティが楽しくおしゃべりしながらニュースを掘り下げるスタイル。

## 構成指示 (全体で50ターン程度)
1. **オープニング (重要)**
   - ホスト: 明るく元気よく！「みなさん、こんにちは！ひびちどくラジオへようこそ！」
   - フリートーク: 季節の話題や軽い雑談から入り、スムーズに本題へ繋げる。

2. **本題 (メインパート)**
   - 記事の内容をベースにするが、読み上げるのではなく「会話」にする。
   - 「えっ、それって本当？」のような、大きめのリアクションを入れる。
   - ホストが熱く語り、ゲストが冷静に突っ込む、あるいはその逆など、キャラを立てる。

3. **エンディング**
   - 「いや〜、今日の話も深かったですね」と感想を言い合う。
   - ホスト:「詳しい内容は、ひびちどくのWebページに掲載されています。概要欄のリンクから飛んでみてくださいね！」
   - 最後は二人で声を合わせて「それでは、また次回！バイバーイ！」と元気に締める。

## 台本の指示
- 合計50ターンの会話
- 各発言は2-4文、80-150文字程度
- ホストは親しみやすく、質問と相槌が上手
- ゲストは知識を分かりやすく解説（ただし肩書きを名乗らない）
- 専門用語は説明を加える

## 出力形式（JSON配列のみ）
[
  {"speaker": "ホスト", "text": "..."},
  {"speaker": "ゲスト", "text": "..."}
]

JSONのみを出力してください。`

// TextGenerator is the LLM call used for script generation.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string, jsonMode bool) (string, error)
}

// GenerateScript asks the LLM for the dialogue. Any failure, including an
// output with no parsable turn array, yields an empty slice: the caller
// aborts narration for this article without failing the pipeline.
func GenerateScript(ctx context.Context, gen TextGenerator, model string, a *article.Article) []Turn {
	title := a.DisplayTitle()
	overview := a.SummaryJa
	commentary := a.TranslationJa

	prompt := fmt.Sprintf(scriptPromptTemplate, title, overview, commentary)

	text, err := gen.GenerateText(ctx, model, prompt, true)
	if err != nil {
		return nil
	}

	turns, err := parseTurns(text)
	if err != nil {
		return nil
	}
	return turns
}

// parseTurns extracts the first bracket-delimited JSON array from raw
// model output; the model may wrap it in prose or code fences.
func parseTurns(text string) ([]Turn, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in script output")
	}

	var turns []Turn
	if err := json.Unmarshal([]byte(text[start:end+1]), &turns); err != nil {
		return nil, fmt.Errorf("decoding script turns: %w", err)
	}

	// Drop empty utterances so the TTS never receives blank input.
	out := turns[:0]
	for _, turn := range turns {
		if strings.TrimSpace(turn.Text) != "" {
			out = append(out, turn)
		}
	}
	return out, nil
}

// Transcript renders turns in the "speaker: text" form the multi-speaker
// TTS expects.
func Transcript(turns []Turn) string {
	lines := make([]string, len(turns))
	for i, turn := range turns {
		lines[i] = turn.Speaker + ": " + turn.Text
	}
	return strings.Join(lines, "\n\n")
}

// TotalChars sums utterance lengths; roughly 150 chars per minute of
// Japanese narration.
func TotalChars(turns []Turn) int {
	n := 0
	for _, turn := range turns {
		n += len([]rune(turn.Text))
	}
	return n
}
