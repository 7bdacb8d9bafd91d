package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"baanmae/internal/adapters/observability"
	"baanmae/internal/app"
	"baanmae/internal/domain"
)

func leadSetup() (*fakeLeadRepo, *fakeVillaRepo, *fakeNotifier, *app.LeadService) {
	leads := &fakeLeadRepo{}
	villas := newFakeVillaRepo()
	notifier := newFakeNotifier()
	return leads, villas, notifier, app.NewLeadService(leads, villas, notifier)
}

func awaitPush(t *testing.T, n *fakeNotifier) string {
	t.Helper()
	select {
	case text := <-n.sent:
		return text
	case <-time.After(2 * time.Second):
		t.Fatal("notification never dispatched")
		return ""
	}
}

func TestCreateLead_BlankNameRejected(t *testing.T) {
	leads, _, _, svc := leadSetup()
	_, err := svc.Create(context.Background(), app.CreateLeadInput{Name: "  ", Tel: "0812345678"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if len(leads.leads) != 0 {
		t.Fatalf("nothing should be persisted, have %d", len(leads.leads))
	}
}

func TestCreateLead_BlankTelRejected(t *testing.T) {
	leads, _, _, svc := leadSetup()
	_, err := svc.Create(context.Background(), app.CreateLeadInput{Name: "Somchai", Tel: "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if len(leads.leads) != 0 {
		t.Fatalf("nothing should be persisted, have %d", len(leads.leads))
	}
}

func TestCreateLead_UnparseableVisitDateStoredAbsent(t *testing.T) {
	_, _, notifier, svc := leadSetup()
	lead, err := svc.Create(context.Background(), app.CreateLeadInput{
		Name: "Somchai", Tel: "0812345678", VisitDate: "next tuesday maybe",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if lead.VisitDate != nil {
		t.Fatalf("visit date should be absent, got %v", lead.VisitDate)
	}
	// still notifies, without a visit-date line
	text := awaitPush(t, notifier)
	if strings.Contains(text, "📅") {
		t.Fatalf("unexpected visit-date line in %q", text)
	}
}

func TestCreateLead_EmptyOptionalFieldsBecomeAbsent(t *testing.T) {
	leads, _, notifier, svc := leadSetup()
	lead, err := svc.Create(context.Background(), app.CreateLeadInput{
		Name: "  Somchai  ", Tel: " 0812345678 ", LineID: "   ", Message: "  ", VillaID: " ",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if lead.Name != "Somchai" || lead.Tel != "0812345678" {
		t.Fatalf("trim failed: %q %q", lead.Name, lead.Tel)
	}
	if lead.LineID != nil || lead.Message != nil || lead.VillaID != nil {
		t.Fatalf("empty optionals must be absent: %+v", lead)
	}
	if len(leads.leads) != 1 {
		t.Fatalf("expected one persisted lead")
	}
	awaitPush(t, notifier)
}

func TestCreateLead_UnknownVillaStillCreated(t *testing.T) {
	leads, _, notifier, svc := leadSetup()
	lead, err := svc.Create(context.Background(), app.CreateLeadInput{
		Name: "Somchai", Tel: "0812345678", VillaID: "no-such-villa",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if deref(lead.VillaID) != "no-such-villa" {
		t.Fatalf("villaId must be kept: %v", lead.VillaID)
	}
	if len(leads.leads) != 1 {
		t.Fatalf("lead must be persisted despite missing villa")
	}
	// no villa line in the notification
	text := awaitPush(t, notifier)
	if strings.Contains(text, "🏠") {
		t.Fatalf("unexpected villa line in %q", text)
	}
}

func TestCreateLead_NotificationContent(t *testing.T) {
	_, villas, notifier, svc := leadSetup()
	villas.villas["v1"] = domain.Villa{ID: "v1", Name: "Sea View Villa", Slug: "sea-view-villa"}

	_, err := svc.Create(context.Background(), app.CreateLeadInput{
		Name: "Somchai", Tel: "0812345678", LineID: "somchai_line",
		VisitDate: "2024-06-10", Message: "Interested in a viewing",
		VillaID: "v1",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	text := awaitPush(t, notifier)

	for _, want := range []string{
		"ลูกค้าใหม่สนใจ",
		"ชื่อ: Somchai",
		"เบอร์: 0812345678",
		"LINE: somchai_line",
		"สนใจ: Sea View Villa",
		"วันเยี่ยมชม: 10/6/2567", // Buddhist-era year
		"ข้อความ: Interested in a viewing",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("notification missing %q:\n%s", want, text)
		}
	}
}

func TestCreateLead_NotifierFailureSwallowed(t *testing.T) {
	leads := &fakeLeadRepo{}
	notifier := newFakeNotifier()
	notifier.err = errors.New("line is down")
	svc := app.NewLeadService(leads, newFakeVillaRepo(), notifier)

	lead, err := svc.Create(context.Background(), app.CreateLeadInput{Name: "Somchai", Tel: "0812345678"})
	if err != nil {
		t.Fatalf("dispatch failure must not surface: %v", err)
	}
	if lead.Status != domain.LeadNew {
		t.Fatalf("status: %s", lead.Status)
	}
	awaitPush(t, notifier)
	if len(leads.leads) != 1 {
		t.Fatalf("lead must stay persisted")
	}
}

// awaitCounter polls a label child until it has moved past the given
// baseline; the observation happens after the push returns, so the
// channel await alone is not enough.
func awaitCounter(t *testing.T, outcome string, before float64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(observability.LeadNotifications.WithLabelValues(outcome))-before < 1 {
		if time.Now().After(deadline) {
			t.Fatalf("%s dispatch outcome never counted", outcome)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCreateLead_DispatchOutcomesCounted(t *testing.T) {
	okBefore := testutil.ToFloat64(observability.LeadNotifications.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(observability.LeadNotifications.WithLabelValues("error"))

	_, _, notifier, svc := leadSetup()
	if _, err := svc.Create(context.Background(), app.CreateLeadInput{Name: "Somchai", Tel: "0812345678"}); err != nil {
		t.Fatalf("err: %v", err)
	}
	awaitPush(t, notifier)
	awaitCounter(t, "ok", okBefore)

	failing := newFakeNotifier()
	failing.err = errors.New("line is down")
	svc = app.NewLeadService(&fakeLeadRepo{}, newFakeVillaRepo(), failing)
	if _, err := svc.Create(context.Background(), app.CreateLeadInput{Name: "Somsri", Tel: "0898765432"}); err != nil {
		t.Fatalf("err: %v", err)
	}
	awaitPush(t, failing)
	awaitCounter(t, "error", errBefore)
}

func TestUpdateLeadStatus(t *testing.T) {
	leads, _, _, svc := leadSetup()
	leads.leads = append(leads.leads, domain.Lead{ID: "l1", Name: "A", Tel: "1", Status: domain.LeadNew})

	out, err := svc.UpdateStatus(context.Background(), "l1", "CONTACTED")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.Status != domain.LeadContacted {
		t.Fatalf("status: %s", out.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), "l1", "SHOUTING"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), "nope", "CLOSED"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
