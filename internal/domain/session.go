package domain

// Mode selects which backend serves queries.
type Mode string

const (
	ModeRAG Mode = "rag"
	ModeKAG Mode = "kag"
)

// Variant selects the KAG query endpoint. Ignored in RAG mode.
type Variant string

const (
	VariantStandard   Variant = "standard"
	VariantSimplified Variant = "simplified"
	VariantText       Variant = "text"
)

// Session is the conversation-continuity handle shared with the backend.
// ID stays empty until the first response that supplies one; switching
// mode always clears it.
type Session struct {
	ID      string
	Mode    Mode
	Variant Variant
}
