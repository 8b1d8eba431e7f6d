package application

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"spotlight/contexts/identity-access/onboarding-service/adapters/memory"
	"spotlight/contexts/identity-access/onboarding-service/domain/entities"
	domainerrors "spotlight/contexts/identity-access/onboarding-service/domain/errors"
	"spotlight/contexts/identity-access/onboarding-service/ports"
)

type staticRoles map[string]string

func (r staticRoles) GetRole(_ context.Context, accountID string) (string, error) {
	return r[accountID], nil
}

type recordingOutbox struct {
	mu     sync.Mutex
	events []ports.EventEnvelope
}

func (o *recordingOutbox) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, envelope)
	return nil
}

func (o *recordingOutbox) count(eventType string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	total := 0
	for _, event := range o.events {
		if event.EventType == eventType {
			total++
		}
	}
	return total
}

func newTestService() (Service, *recordingOutbox) {
	store := memory.NewStore()
	outbox := &recordingOutbox{}
	return Service{
		Repo:        store,
		Idempotency: store,
		Roles:       staticRoles{"admin-1": "admin", "brand-1": "brand"},
		Outbox:      outbox,
		Clock:       store,
		IDGenerator: store,
	}, outbox
}

func validInput() SubmitInput {
	return SubmitInput{
		FullName:       "Jamie Rivera",
		Email:          "Jamie@Example.com",
		Niche:          "fitness",
		FollowerCount:  48000,
		EngagementRate: 4.2,
		PortfolioURL:   "https://jamie.example.com",
		SocialHandles:  map[string]string{"Instagram": "@jamie"},
	}
}

func TestSubmitIsPendingAndReplayable(t *testing.T) {
	service, outbox := newTestService()
	ctx := context.Background()

	first, err := service.Submit(ctx, "idem-1", validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if first.Replayed || first.Application.Status != entities.StatusPending {
		t.Fatalf("unexpected first result %+v", first)
	}
	if first.Application.Email != "jamie@example.com" || first.Application.SocialHandles["instagram"] != "@jamie" {
		t.Fatalf("expected normalized fields, got %+v", first.Application)
	}

	second, err := service.Submit(ctx, "idem-1", validInput())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !second.Replayed || second.Application.ApplicationID != first.Application.ApplicationID {
		t.Fatalf("expected replay of %s, got %+v", first.Application.ApplicationID, second)
	}
	if got := outbox.count("influencer_application.submitted"); got != 1 {
		t.Fatalf("expected one submitted event, got %d", got)
	}

	changed := validInput()
	changed.Niche = "travel"
	if _, err := service.Submit(ctx, "idem-1", changed); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
	if _, err := service.Submit(ctx, " ", validInput()); !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	service, _ := newTestService()
	cases := map[string]func(*SubmitInput){
		"missing name":       func(in *SubmitInput) { in.FullName = "" },
		"bad email":          func(in *SubmitInput) { in.Email = "not-an-email" },
		"missing niche":      func(in *SubmitInput) { in.Niche = " " },
		"negative followers": func(in *SubmitInput) { in.FollowerCount = -1 },
		"engagement high":    func(in *SubmitInput) { in.EngagementRate = 100.5 },
		"engagement nan":     func(in *SubmitInput) { in.EngagementRate = math.NaN() },
		"engagement inf":     func(in *SubmitInput) { in.EngagementRate = math.Inf(1) },
		"engagement -inf":    func(in *SubmitInput) { in.EngagementRate = math.Inf(-1) },
		"no handles":         func(in *SubmitInput) { in.SocialHandles = map[string]string{"instagram": " "} },
		"bad portfolio":      func(in *SubmitInput) { in.PortfolioURL = "ftp://jamie" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validInput()
			mutate(&input)
			if _, err := service.Submit(context.Background(), "idem-"+name, input); !errors.Is(err, domainerrors.ErrInvalidRequest) {
				t.Fatalf("expected invalid request, got %v", err)
			}
		})
	}
	stored, err := service.List(context.Background(), "admin-1", "")
	if err != nil || len(stored) != 0 {
		t.Fatalf("expected nothing stored after rejected submissions, got %d (%v)", len(stored), err)
	}
}

func TestReviewRequiresAdminAndPending(t *testing.T) {
	service, outbox := newTestService()
	ctx := context.Background()
	submitted, err := service.Submit(ctx, "idem-1", validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	id := submitted.Application.ApplicationID

	if _, err := service.Review(ctx, "brand-1", id, "approve", ""); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for brand, got %v", err)
	}
	if _, err := service.Review(ctx, "admin-1", id, "reject", ""); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected rejection without reason to fail, got %v", err)
	}

	approved, err := service.Review(ctx, "admin-1", id, "approve", "great fit")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != entities.StatusApproved || approved.ReviewedBy != "admin-1" {
		t.Fatalf("unexpected review result %+v", approved)
	}
	if _, err := service.Review(ctx, "admin-1", id, "reject", "changed mind"); !errors.Is(err, domainerrors.ErrAlreadyReviewed) {
		t.Fatalf("expected already reviewed, got %v", err)
	}
	if got := outbox.count("influencer_application.reviewed"); got != 1 {
		t.Fatalf("expected one reviewed event, got %d", got)
	}
	if _, err := service.Review(ctx, "admin-1", "missing", "approve", ""); !errors.Is(err, domainerrors.ErrApplicationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConcurrentReviewsHaveOneWinner(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	submitted, err := service.Submit(ctx, "idem-1", validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	decisions := []string{"approve", "reject", "approve", "reject"}
	errs := make(chan error, len(decisions))
	var wg sync.WaitGroup
	for _, decision := range decisions {
		wg.Add(1)
		go func(decision string) {
			defer wg.Done()
			_, err := service.Review(ctx, "admin-1", submitted.Application.ApplicationID, decision, "queue sweep")
			errs <- err
		}(decision)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domainerrors.ErrAlreadyReviewed):
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning review, got %d", wins)
	}
}

func TestListAndCountByStatus(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		input := validInput()
		input.FullName = "Applicant " + key
		if _, err := service.Submit(ctx, "idem-"+key, input); err != nil {
			t.Fatalf("submit %s: %v", key, err)
		}
	}
	pending, err := service.List(ctx, "admin-1", "pending")
	if err != nil || len(pending) != 3 {
		t.Fatalf("expected 3 pending, got %d (%v)", len(pending), err)
	}
	if _, err := service.Review(ctx, "admin-1", pending[0].ApplicationID, "approve", ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	counts, err := service.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["pending"] != 2 || counts["approved"] != 1 || counts["rejected"] != 0 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if _, err := service.List(ctx, "brand-1", ""); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden list for brand, got %v", err)
	}
	if _, err := service.List(ctx, "admin-1", "archived"); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid status filter, got %v", err)
	}
}
