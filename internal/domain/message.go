package domain

import "time"

// Role identifies who produced a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source records which backend shape a message was normalized from.
type Source string

const (
	SourceRAG           Source = "rag"
	SourceKAGStandard   Source = "kag-standard"
	SourceKAGSimplified Source = "kag-simplified"
	SourceKAGText       Source = "kag-text"
	SourceError         Source = "error"
)

// Message is one entry in the conversation log. Messages are immutable
// once created; the log is append-only.
type Message struct {
	ID           string
	Role         Role
	Content      string
	Followups    []string
	Source       Source
	AutoFallback bool
	CreatedAt    time.Time
}
