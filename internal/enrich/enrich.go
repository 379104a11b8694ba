// Package enrich augments fetched articles with Japanese translations,
// summaries and commentary generated by an LLM.
package enrich

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/Giraffe0925/ai-trend-viewer/internal/article"
)

const fallbackExplanation = "解説を生成できませんでした。"

const promptTemplate = `You are an expert science communicator.
Analyze the following academic paper's abstract and provide a comprehensive Japanese translation and explanation.

IMPORTANT: The original content may contain HTML tags, links, or code snippets.
You MUST remove ALL HTML tags, URLs, and code-like formatting from your output.
Provide clean, readable Japanese text only.

Title: %s
Abstract: %s

Output valid JSON with the following keys:
- titleJa: Japanese translation of the title (clean text, no HTML)
- summaryJa: A comprehensive summary covering the ENTIRE paper's scope - include: (1) research problem/motivation, (2) methodology/approach, (3) key findings/results, (4) conclusions/implications. Write in flowing paragraphs, approx 400-600 chars. Use polite "desu/masu" style.
- explanationJa: A simple one-sentence explanation for a general audience (use polite "desu/masu" style, approx 50-80 chars)
- translationJa: A detailed Japanese translation of the abstract that helps readers understand the full paper without reading the original. Include context and explain technical terms. Approx 500-800 chars, clean text, NO HTML.
- insightJa: A short insight on how this topic might impact everyday life or business (use polite "desu/masu" style, 1-2 sentences, approx 80-120 chars)
- recommendedBooks: An array of 2-3 related book search keywords in Japanese (e.g. ["人工知能 入門", "機械学習 ビジネス"])
- tags: An array of 3-5 relevant keywords (in English or Japanese)
- visualSuggestions: An array of 2-3 short Japanese descriptions of diagrams or images that would illustrate the paper

Do not include Markdown formatting like ` + "```json" + `. Just the raw JSON string.`

// TextGenerator is the LLM call the enricher depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string, jsonMode bool) (string, error)
}

// Enricher tries each candidate model in order until one returns a payload
// that parses and validates. Enrichment is best-effort: if every candidate
// fails the input article is returned unchanged.
type Enricher struct {
	gen    TextGenerator
	models []string
	logger *log.Logger
}

func New(gen TextGenerator, candidateModels []string, logger *log.Logger) *Enricher {
	return &Enricher{gen: gen, models: candidateModels, logger: logger}
}

// Enrich returns a copy of the article with enrichment fields merged in.
// Fields the model omitted keep the original article's values.
func (e *Enricher) Enrich(ctx context.Context, a article.Article) article.Article {
	prompt := fmt.Sprintf(promptTemplate, a.Title, a.OriginalContent)

	var lastErr error
	for _, model := range e.models {
		text, err := e.gen.GenerateText(ctx, model, prompt, false)
		if err != nil {
			e.logger.Warn("model call failed", "model", model, "article", a.ID, "err", err)
			lastErr = err
			continue
		}

		p, err := extractPayload(text)
		if err != nil {
			// A parse failure counts as a model failure.
			e.logger.Warn("unusable model output", "model", model, "article", a.ID, "err", err)
			lastErr = err
			continue
		}

		e.logger.Info("enriched", "model", model, "article", a.ID)
		return merge(a, p)
	}

	e.logger.Error("all candidate models failed", "article", a.ID, "err", lastErr)
	return a
}

func merge(a article.Article, p *payload) article.Article {
	out := a

	out.TitleJa = orDefault(p.TitleJa, a.Title)
	out.SummaryJa = orDefault(p.SummaryJa, a.Summary)
	out.ExplanationJa = orDefault(p.ExplanationJa, fallbackExplanation)
	out.TranslationJa = p.TranslationJa
	out.InsightJa = p.InsightJa
	out.RecommendedBooks = p.RecommendedBooks
	out.Tags = p.Tags
	out.VisualSuggestions = p.VisualSuggestions

	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
