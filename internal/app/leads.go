package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"baanmae/internal/adapters/observability"
	"baanmae/internal/domain"
)

type LeadService struct {
	leads    domain.LeadRepository
	villas   domain.VillaRepository
	notifier domain.Notifier
}

func NewLeadService(l domain.LeadRepository, v domain.VillaRepository, n domain.Notifier) *LeadService {
	return &LeadService{leads: l, villas: v, notifier: n}
}

// CreateLeadInput holds the public form fields after the transport
// layer has coerced them to text. All normalization happens here.
type CreateLeadInput struct {
	Name      string
	Tel       string
	LineID    string
	VisitDate string
	Message   string
	VillaID   string
}

// Create normalizes and persists a lead, then pushes a sales
// notification without waiting for it. Name and telephone are the only
// required fields; an unparseable visit date and an unknown villa id
// are both tolerated.
func (s *LeadService) Create(ctx context.Context, in CreateLeadInput) (domain.Lead, error) {
	name := strings.TrimSpace(in.Name)
	tel := strings.TrimSpace(in.Tel)
	if name == "" || tel == "" {
		return domain.Lead{}, fmt.Errorf("%w: name and telephone are required", domain.ErrValidation)
	}

	var visit *time.Time
	if v := strings.TrimSpace(in.VisitDate); v != "" {
		if t, err := parseDate(v); err == nil {
			visit = &t
		}
	}

	villaID := optStr(strings.TrimSpace(in.VillaID))

	// Resolve the display name for the notification only. A dangling
	// villa reference is not an error for lead capture.
	villaName := ""
	if villaID != nil {
		if v, err := s.villas.GetVilla(ctx, *villaID); err == nil {
			villaName = v.Name
		}
	}

	lead, err := s.leads.CreateLead(ctx, domain.Lead{
		ID:        uuid.NewString(),
		Name:      name,
		Tel:       tel,
		LineID:    optStr(strings.TrimSpace(in.LineID)),
		VisitDate: visit,
		Message:   optStr(strings.TrimSpace(in.Message)),
		VillaID:   villaID,
		Status:    domain.LeadNew,
	})
	if err != nil {
		return domain.Lead{}, err
	}

	text := formatLeadNotification(lead, villaName)

	// Fire and forget: detach from the request's cancellation, never
	// await, never surface the outcome to the submitter.
	go func(ctx context.Context) {
		err := s.notifier.Push(ctx, text)
		observability.ObserveLeadNotification(err)
		if err != nil {
			log.Warn().Err(err).Str("lead_id", lead.ID).Msg("lead notification failed")
		}
	}(context.WithoutCancel(ctx))

	return lead, nil
}

// formatLeadNotification builds the multi-line sales message, omitting
// every line whose source field is absent.
func formatLeadNotification(l domain.Lead, villaName string) string {
	lines := []string{
		"🏡 ลูกค้าใหม่สนใจ!",
		"👤 ชื่อ: " + l.Name,
		"📞 เบอร์: " + l.Tel,
	}
	if l.LineID != nil {
		lines = append(lines, "💬 LINE: "+*l.LineID)
	}
	if villaName != "" {
		lines = append(lines, "🏠 สนใจ: "+villaName)
	}
	if l.VisitDate != nil {
		lines = append(lines, "📅 วันเยี่ยมชม: "+thaiDate(*l.VisitDate))
	}
	if l.Message != nil {
		lines = append(lines, "💬 ข้อความ: "+*l.Message)
	}
	return strings.Join(lines, "\n")
}

func (s *LeadService) List(ctx context.Context) ([]domain.LeadWithVilla, error) {
	return s.leads.ListLeads(ctx)
}

func (s *LeadService) UpdateStatus(ctx context.Context, id, status string) (domain.Lead, error) {
	switch domain.LeadStatus(status) {
	case domain.LeadNew, domain.LeadContacted, domain.LeadClosed:
	default:
		return domain.Lead{}, fmt.Errorf("%w: unknown lead status %q", domain.ErrValidation, status)
	}
	return s.leads.UpdateLeadStatus(ctx, id, domain.LeadStatus(status))
}
