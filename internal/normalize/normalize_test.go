package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/domain"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestConversationalResponseWins(t *testing.T) {
	hit := domain.RAGHit{Content: "ignored"}
	tests := []struct {
		name string
		resp domain.BackendResponse
	}{
		{
			name: "rag",
			resp: domain.BackendResponse{
				Source: domain.SourceRAG,
				RAG:    &domain.RAGResponse{ConversationalResponse: "A", Results: []domain.RAGHit{hit}},
			},
		},
		{
			name: "kag standard",
			resp: domain.BackendResponse{
				Source:   domain.SourceKAGStandard,
				Standard: &domain.KAGStandardResponse{ConversationalResponse: "A", Results: []domain.KAGHit{{Content: "ignored"}}},
			},
		},
		{
			name: "kag simplified",
			resp: domain.BackendResponse{
				Source:     domain.SourceKAGSimplified,
				Simplified: &domain.KAGSimplifiedResponse{ConversationalResponse: "A", Results: []domain.KAGSimplifiedHit{{InvoiceNumber: "1"}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Normalize(tt.resp, domain.ModeKAG)
			assert.Equal(t, "A", msg.Content)
		})
	}
}

func TestResponseFieldBeatsResults(t *testing.T) {
	resp := domain.BackendResponse{
		Source: domain.SourceRAG,
		RAG: &domain.RAGResponse{
			Response: "direct answer",
			Results:  []domain.RAGHit{{Content: "chunk"}},
		},
	}
	msg := Normalize(resp, domain.ModeRAG)
	assert.Equal(t, "direct answer", msg.Content)
}

func TestEmptyResultsFallbacks(t *testing.T) {
	rag := domain.BackendResponse{Source: domain.SourceRAG, RAG: &domain.RAGResponse{Results: []domain.RAGHit{}}}
	assert.Equal(t, "No relevant content found in the documents.", Normalize(rag, domain.ModeRAG).Content)

	kag := domain.BackendResponse{Source: domain.SourceKAGStandard, Standard: &domain.KAGStandardResponse{}}
	assert.Equal(t, "No results found for your query.", Normalize(kag, domain.ModeKAG).Content)
}

func TestResultFormatting(t *testing.T) {
	hit := domain.RAGHit{Content: "X", Score: floatPtr(0.823)}
	hit.Metadata.Source = "doc.pdf"
	hit.Metadata.Page = intPtr(3)
	resp := domain.BackendResponse{Source: domain.SourceRAG, RAG: &domain.RAGResponse{Results: []domain.RAGHit{hit}}}

	msg := Normalize(resp, domain.ModeRAG)
	assert.Equal(t, "Content: X\nSource: doc.pdf\nPage: 3\nRelevance: 82.3%", msg.Content)
}

func TestResultFormattingDefaults(t *testing.T) {
	resp := domain.BackendResponse{
		Source: domain.SourceRAG,
		RAG:    &domain.RAGResponse{Results: []domain.RAGHit{{Content: "first"}, {Content: "second"}}},
	}
	msg := Normalize(resp, domain.ModeRAG)
	assert.Equal(t, "Content: first\nSource: Unknown\n\nContent: second\nSource: Unknown", msg.Content)
}

func TestSimplifiedRendering(t *testing.T) {
	resp := domain.BackendResponse{
		Source: domain.SourceKAGSimplified,
		Simplified: &domain.KAGSimplifiedResponse{
			QueryType: "price",
			Results: []domain.KAGSimplifiedHit{{
				InvoiceNumber: "INV-42",
				TotalAmount:   "$99.50",
			}},
		},
	}
	msg := Normalize(resp, domain.ModeKAG)
	assert.Contains(t, msg.Content, "Invoice number: INV-42")
	assert.Contains(t, msg.Content, "Total amount: $99.50")
	assert.Contains(t, msg.Content, "Source: Invoice INV-42")
	assert.NotContains(t, msg.Content, "Date:")
}

func TestTextVariant(t *testing.T) {
	resp := domain.BackendResponse{Source: domain.SourceKAGText, Text: "The invoice number is INV-42."}
	msg := Normalize(resp, domain.ModeKAG)
	assert.Equal(t, "The invoice number is INV-42.", msg.Content)

	empty := domain.BackendResponse{Source: domain.SourceKAGText, Text: "  "}
	assert.Equal(t, "No results found for your query.", Normalize(empty, domain.ModeKAG).Content)
}

func TestMalformedPayload(t *testing.T) {
	resp := domain.BackendResponse{Source: domain.SourceRAG, Malformed: true}
	msg := Normalize(resp, domain.ModeRAG)
	assert.Equal(t, "Received response from the assistant, but in an unexpected format.", msg.Content)
	assert.Empty(t, msg.Followups)
}

func TestFollowupsBothKeys(t *testing.T) {
	snake := domain.BackendResponse{Source: domain.SourceRAG, RAG: &domain.RAGResponse{
		Response:          "ok",
		FollowupQuestions: []string{"q1", "q2"},
	}}
	assert.Equal(t, []string{"q1", "q2"}, Normalize(snake, domain.ModeRAG).Followups)

	camel := domain.BackendResponse{Source: domain.SourceRAG, RAG: &domain.RAGResponse{
		Response:             "ok",
		FollowupQuestionsAlt: []string{"q3"},
	}}
	assert.Equal(t, []string{"q3"}, Normalize(camel, domain.ModeRAG).Followups)

	kag := domain.BackendResponse{Source: domain.SourceKAGStandard, Standard: &domain.KAGStandardResponse{ConversationalResponse: "ok"}}
	assert.Empty(t, Normalize(kag, domain.ModeKAG).Followups)
}

func TestMessageShape(t *testing.T) {
	resp := domain.BackendResponse{Source: domain.SourceRAG, RAG: &domain.RAGResponse{Response: "ok"}}
	msg := Normalize(resp, domain.ModeRAG)
	require.NotEmpty(t, msg.ID)
	assert.Equal(t, domain.RoleAssistant, msg.Role)
	assert.Equal(t, domain.SourceRAG, msg.Source)
	assert.False(t, msg.CreatedAt.IsZero())
}

func TestErrorMessage(t *testing.T) {
	msg := ErrorMessage("connection refused")
	assert.Equal(t, "Sorry, there was an error processing your request. connection refused", msg.Content)
	assert.Equal(t, domain.SourceError, msg.Source)
	assert.Equal(t, domain.RoleAssistant, msg.Role)
}
