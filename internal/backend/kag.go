package backend

import (
	"context"
	"encoding/json"
	"strings"

	"docchat/internal/domain"
)

const (
	kagQueryPath           = "/api/kag/query"
	kagSimplifiedQueryPath = "/api/kag/simplified-query"
	kagTextQueryPath       = "/api/kag/text-query"
)

func kagRequestBody(req domain.QueryRequest) map[string]any {
	body := map[string]any{
		"query": req.Text,
		"limit": req.Limit,
	}
	if req.DocumentType != "" {
		body["document_type"] = req.DocumentType
	}
	if req.SessionID != "" {
		body["session_id"] = req.SessionID
	}
	return body
}

// KAGStandardAdapter queries the knowledge-graph service's standard
// endpoint, which returns full document items.
type KAGStandardAdapter struct {
	client *Client
}

func NewKAGStandardAdapter(client *Client) *KAGStandardAdapter {
	return &KAGStandardAdapter{client: client}
}

func (a *KAGStandardAdapter) Source() domain.Source { return domain.SourceKAGStandard }

func (a *KAGStandardAdapter) Invoke(ctx context.Context, req domain.QueryRequest) (domain.BackendResponse, error) {
	payload, err := a.client.PostJSON(ctx, kagQueryPath, kagRequestBody(req))
	if err != nil {
		return domain.BackendResponse{}, err
	}
	var out domain.KAGStandardResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return domain.BackendResponse{Source: domain.SourceKAGStandard, Malformed: true}, nil
	}
	return domain.BackendResponse{Source: domain.SourceKAGStandard, Standard: &out}, nil
}

// KAGSimplifiedAdapter queries the simplified endpoint, which strips
// results down to the fields relevant to the query.
type KAGSimplifiedAdapter struct {
	client *Client
}

func NewKAGSimplifiedAdapter(client *Client) *KAGSimplifiedAdapter {
	return &KAGSimplifiedAdapter{client: client}
}

func (a *KAGSimplifiedAdapter) Source() domain.Source { return domain.SourceKAGSimplified }

func (a *KAGSimplifiedAdapter) Invoke(ctx context.Context, req domain.QueryRequest) (domain.BackendResponse, error) {
	body := kagRequestBody(req)
	body["format_as_text"] = false
	payload, err := a.client.PostJSON(ctx, kagSimplifiedQueryPath, body)
	if err != nil {
		return domain.BackendResponse{}, err
	}
	var out domain.KAGSimplifiedResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return domain.BackendResponse{Source: domain.SourceKAGSimplified, Malformed: true}, nil
	}
	return domain.BackendResponse{Source: domain.SourceKAGSimplified, Simplified: &out}, nil
}

// KAGTextAdapter queries the text endpoint, which answers with a plain
// text body rather than JSON. It never carries a session id.
type KAGTextAdapter struct {
	client *Client
}

func NewKAGTextAdapter(client *Client) *KAGTextAdapter {
	return &KAGTextAdapter{client: client}
}

func (a *KAGTextAdapter) Source() domain.Source { return domain.SourceKAGText }

func (a *KAGTextAdapter) Invoke(ctx context.Context, req domain.QueryRequest) (domain.BackendResponse, error) {
	payload, err := a.client.PostJSON(ctx, kagTextQueryPath, kagRequestBody(req))
	if err != nil {
		return domain.BackendResponse{}, err
	}
	text := strings.TrimSpace(string(payload))
	// PlainTextResponse bodies sometimes arrive JSON-quoted.
	var quoted string
	if json.Unmarshal(payload, &quoted) == nil {
		text = strings.TrimSpace(quoted)
	}
	return domain.BackendResponse{Source: domain.SourceKAGText, Text: text}, nil
}
