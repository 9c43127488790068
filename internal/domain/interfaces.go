package domain

import "context"

// Adapter issues a single query to one backend endpoint. Adapters do
// transport and typed (de)serialization only: no retries, no response
// interpretation.
type Adapter interface {
	Source() Source
	Invoke(ctx context.Context, req QueryRequest) (BackendResponse, error)
}

// Prober checks a backend's health endpoint. A nil error means the
// service answered with a success status.
type Prober interface {
	Service() Mode
	Probe(ctx context.Context) error
}
