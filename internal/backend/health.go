package backend

import (
	"context"

	"docchat/internal/domain"
)

const healthPath = "/health/"

// HealthProber probes one backend's health endpoint.
type HealthProber struct {
	service domain.Mode
	client  *Client
}

func NewHealthProber(service domain.Mode, client *Client) *HealthProber {
	return &HealthProber{service: service, client: client}
}

func (p *HealthProber) Service() domain.Mode { return p.service }

// Probe succeeds on any 2xx answer from /health/.
func (p *HealthProber) Probe(ctx context.Context) error {
	return p.client.Get(ctx, healthPath)
}
