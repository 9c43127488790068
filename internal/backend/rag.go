package backend

import (
	"context"
	"encoding/json"

	"docchat/internal/domain"
)

const (
	ragQueryPath        = "/api/documents/query"
	ragConciseQueryPath = "/api/documents/concise-query"
)

// RAGAdapter queries the document-embedding service.
type RAGAdapter struct {
	client  *Client
	concise bool
}

// NewRAGAdapter creates the RAG adapter. With concise set, queries go to
// the concise-query endpoint, which returns a short answer instead of
// full chunks.
func NewRAGAdapter(client *Client, concise bool) *RAGAdapter {
	return &RAGAdapter{client: client, concise: concise}
}

func (a *RAGAdapter) Source() domain.Source { return domain.SourceRAG }

func (a *RAGAdapter) Invoke(ctx context.Context, req domain.QueryRequest) (domain.BackendResponse, error) {
	body := map[string]any{
		"query": req.Text,
		"k":     req.Limit,
	}
	if req.SessionID != "" {
		body["session_id"] = req.SessionID
	}
	path := ragQueryPath
	if a.concise {
		path = ragConciseQueryPath
	}
	payload, err := a.client.PostJSON(ctx, path, body)
	if err != nil {
		return domain.BackendResponse{}, err
	}
	var out domain.RAGResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return domain.BackendResponse{Source: domain.SourceRAG, Malformed: true}, nil
	}
	return domain.BackendResponse{Source: domain.SourceRAG, RAG: &out}, nil
}
