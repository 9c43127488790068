package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"docchat/internal/domain"
)

type stubChat struct {
	log  []domain.Message
	sess domain.Session
}

func (s *stubChat) Submit(context.Context, string) (domain.Message, error) {
	return domain.Message{}, nil
}
func (s *stubChat) SwitchMode(_ context.Context, mode domain.Mode) { s.sess.Mode = mode }
func (s *stubChat) SetVariant(v domain.Variant)                    { s.sess.Variant = v }
func (s *stubChat) Reset(mode domain.Mode)                         { s.log = nil; s.sess = domain.Session{Mode: mode} }
func (s *stubChat) Messages() []domain.Message                     { return s.log }
func (s *stubChat) Session() domain.Session                        { return s.sess }

type stubStatuses struct{}

func (stubStatuses) Status(service domain.Mode) domain.ServiceStatus {
	return domain.ServiceStatus{Service: service, State: domain.AvailabilityConnected}
}

func TestRenderLogShowsRolesAndFollowups(t *testing.T) {
	log := []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello", Followups: []string{"more?"}},
	}
	out := renderLog(log, "")
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "[1] more?")
}

func TestRenderLogFallbackAnnotation(t *testing.T) {
	log := []domain.Message{{Role: domain.RoleAssistant, Content: "x", AutoFallback: true}}
	assert.Contains(t, renderLog(log, ""), "switched backend automatically")
}

func TestRenderLogPendingTurn(t *testing.T) {
	out := renderLog(nil, "still thinking about this")
	assert.Contains(t, out, "still thinking about this")
	assert.Contains(t, out, "…")
}

func TestFollowupSelection(t *testing.T) {
	chat := &stubChat{log: []domain.Message{
		{Role: domain.RoleAssistant, Content: "old", Followups: []string{"stale"}},
		{Role: domain.RoleUser, Content: "q"},
		{Role: domain.RoleAssistant, Content: "a", Followups: []string{"f1", "f2"}},
	}}
	m := New(chat, stubStatuses{}, nil)

	q, ok := m.followup("2")
	assert.True(t, ok)
	assert.Equal(t, "f2", q)

	// Only the latest assistant message offers follow-ups.
	_, ok = m.followup("3")
	assert.False(t, ok)
}

func TestNextVariantCycles(t *testing.T) {
	assert.Equal(t, domain.VariantSimplified, nextVariant(domain.VariantStandard))
	assert.Equal(t, domain.VariantText, nextVariant(domain.VariantSimplified))
	assert.Equal(t, domain.VariantStandard, nextVariant(domain.VariantText))
}
