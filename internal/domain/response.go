package domain

// RAGHit is one retrieval result from the document service.
type RAGHit struct {
	Content  string `json:"content"`
	Metadata struct {
		Source string `json:"source"`
		Page   *int   `json:"page"`
	} `json:"metadata"`
	Score *float64 `json:"score"`
}

// RAGResponse is the wire shape of /api/documents/query and
// /api/documents/concise-query.
type RAGResponse struct {
	Query                  string   `json:"query"`
	Response               string   `json:"response"`
	ConciseAnswer          string   `json:"concise_answer"`
	ConversationalResponse string   `json:"conversational_response"`
	Results                []RAGHit `json:"results"`
	SessionID              string   `json:"session_id"`
	FollowupQuestions      []string `json:"followup_questions"`
	FollowupQuestionsAlt   []string `json:"followupQuestions"`
}

// Followups returns the suggested follow-up questions regardless of
// which key the backend used.
func (r *RAGResponse) Followups() []string {
	if len(r.FollowupQuestions) > 0 {
		return r.FollowupQuestions
	}
	return r.FollowupQuestionsAlt
}

// KAGHit is one document item from the knowledge-graph service.
type KAGHit struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Score    *float64       `json:"score"`
}

// KAGStandardResponse is the wire shape of /api/kag/query.
type KAGStandardResponse struct {
	Query                  string   `json:"query"`
	Results                []KAGHit `json:"results"`
	TotalResults           int      `json:"total_results"`
	ConversationalResponse string   `json:"conversational_response"`
	SessionID              string   `json:"session_id"`
}

// KAGSimplifiedHit carries only the fields the backend judged relevant
// to the query. InvoiceNumber is always present.
type KAGSimplifiedHit struct {
	InvoiceNumber string           `json:"invoice_number"`
	Date          string           `json:"date"`
	TotalAmount   string           `json:"total_amount"`
	LineItems     []map[string]any `json:"line_items"`
}

// KAGSimplifiedResponse is the wire shape of /api/kag/simplified-query.
type KAGSimplifiedResponse struct {
	Query                  string             `json:"query"`
	QueryType              string             `json:"query_type"`
	Results                []KAGSimplifiedHit `json:"results"`
	ConversationalResponse string             `json:"conversational_response"`
	SessionID              string             `json:"session_id"`
}

// BackendResponse is the tagged union over the four payload shapes.
// Exactly one variant field is set according to Source. Malformed marks
// a payload that arrived but could not be decoded as its shape; the
// normalizer absorbs it into a fallback message.
type BackendResponse struct {
	Source     Source
	RAG        *RAGResponse
	Standard   *KAGStandardResponse
	Simplified *KAGSimplifiedResponse
	Text       string
	Malformed  bool
}

// SessionID returns the session token supplied by the response, if any.
// The text variant never carries one.
func (r BackendResponse) SessionID() string {
	switch {
	case r.RAG != nil:
		return r.RAG.SessionID
	case r.Standard != nil:
		return r.Standard.SessionID
	case r.Simplified != nil:
		return r.Simplified.SessionID
	}
	return ""
}
