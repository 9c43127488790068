package domain

import "time"

// QueryRequest is built fresh for every submission and not retained
// after the call resolves.
type QueryRequest struct {
	Text         string
	Mode         Mode
	Variant      Variant
	DocumentType string
	Limit        int
	SessionID    string
}

// Availability is the probe state of one backend service.
type Availability string

const (
	AvailabilityChecking  Availability = "checking"
	AvailabilityConnected Availability = "connected"
	AvailabilityError     Availability = "error"
)

// ServiceStatus is the latest probe result for one backend. Overwritten
// on every probe, never removed.
type ServiceStatus struct {
	Service     Mode
	State       Availability
	LastChecked time.Time
}

// Usable reports whether the orchestrator may target the service.
// An unprobed service counts as usable so the first query never blocks.
func (s ServiceStatus) Usable() bool {
	return s.State != AvailabilityError
}
