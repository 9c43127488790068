// Package normalize maps the four backend payload shapes onto the
// canonical conversational message. The mapping is total: every input,
// malformed ones included, yields a valid message.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docchat/internal/domain"
)

const (
	noRAGResults = "No relevant content found in the documents."
	noKAGResults = "No results found for your query."
	badShape     = "Received response from the assistant, but in an unexpected format."
)

// Normalize produces the assistant message for a backend response.
// Content is resolved by priority: conversational response, direct
// answer, rendered result blocks, raw text, then a per-mode fallback.
func Normalize(resp domain.BackendResponse, mode domain.Mode) domain.Message {
	msg := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Source:    resp.Source,
		CreatedAt: time.Now(),
	}
	if resp.Malformed {
		msg.Content = badShape
		return msg
	}
	msg.Content = content(resp, mode)
	if resp.RAG != nil {
		msg.Followups = resp.RAG.Followups()
	}
	return msg
}

func content(resp domain.BackendResponse, mode domain.Mode) string {
	switch {
	case resp.RAG != nil:
		r := resp.RAG
		if s := strings.TrimSpace(r.ConversationalResponse); s != "" {
			return r.ConversationalResponse
		}
		if s := strings.TrimSpace(r.Response); s != "" {
			return r.Response
		}
		if s := strings.TrimSpace(r.ConciseAnswer); s != "" {
			return r.ConciseAnswer
		}
		if blocks := renderHits(ragHits(r.Results)); blocks != "" {
			return blocks
		}
	case resp.Standard != nil:
		r := resp.Standard
		if s := strings.TrimSpace(r.ConversationalResponse); s != "" {
			return r.ConversationalResponse
		}
		if blocks := renderHits(kagHits(r.Results)); blocks != "" {
			return blocks
		}
	case resp.Simplified != nil:
		r := resp.Simplified
		if s := strings.TrimSpace(r.ConversationalResponse); s != "" {
			return r.ConversationalResponse
		}
		if blocks := renderHits(simplifiedHits(r.Results)); blocks != "" {
			return blocks
		}
	case strings.TrimSpace(resp.Text) != "":
		return resp.Text
	}
	if mode == domain.ModeKAG {
		return noKAGResults
	}
	return noRAGResults
}

// hit is the shape-independent view of one retrieval result.
type hit struct {
	content string
	source  string
	page    *int
	score   *float64
}

func ragHits(results []domain.RAGHit) []hit {
	hits := make([]hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, hit{
			content: r.Content,
			source:  r.Metadata.Source,
			page:    r.Metadata.Page,
			score:   r.Score,
		})
	}
	return hits
}

func kagHits(results []domain.KAGHit) []hit {
	hits := make([]hit, 0, len(results))
	for _, r := range results {
		content := r.Content
		if strings.TrimSpace(content) == "" {
			content = r.Title
		}
		hits = append(hits, hit{content: content, source: r.Title, score: r.Score})
	}
	return hits
}

func simplifiedHits(results []domain.KAGSimplifiedHit) []hit {
	hits := make([]hit, 0, len(results))
	for _, r := range results {
		var lines []string
		if r.InvoiceNumber != "" {
			lines = append(lines, "Invoice number: "+r.InvoiceNumber)
		}
		if r.Date != "" {
			lines = append(lines, "Date: "+r.Date)
		}
		if r.TotalAmount != "" {
			lines = append(lines, "Total amount: "+r.TotalAmount)
		}
		if len(r.LineItems) > 0 {
			lines = append(lines, fmt.Sprintf("Line items: %d", len(r.LineItems)))
		}
		source := ""
		if r.InvoiceNumber != "" {
			source = "Invoice " + r.InvoiceNumber
		}
		hits = append(hits, hit{content: strings.Join(lines, "\n"), source: source})
	}
	return hits
}

// renderHits joins one block per hit with blank lines. Empty or
// all-empty result lists render to "" so the caller can fall through.
func renderHits(hits []hit) string {
	blocks := make([]string, 0, len(hits))
	for _, h := range hits {
		var b strings.Builder
		b.WriteString("Content: " + strings.TrimSpace(h.content))
		source := h.source
		if strings.TrimSpace(source) == "" {
			source = "Unknown"
		}
		b.WriteString("\nSource: " + source)
		if h.page != nil {
			b.WriteString(fmt.Sprintf("\nPage: %d", *h.page))
		}
		if h.score != nil {
			b.WriteString(fmt.Sprintf("\nRelevance: %.1f%%", *h.score*100))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// ErrorMessage is the single user-visible shape for an adapter failure.
func ErrorMessage(detail string) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   "Sorry, there was an error processing your request. " + detail,
		Source:    domain.SourceError,
		CreatedAt: time.Now(),
	}
}
