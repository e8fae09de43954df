package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/crm-retention/internal/domain"
	rules "github.com/ignite/crm-retention/internal/retention"
	"github.com/ignite/crm-retention/internal/service/records"
	"github.com/ignite/crm-retention/internal/service/retention"
)

// RetentionService is the part of retention.Service the API calls.
type RetentionService interface {
	Evaluate(ctx context.Context, contactID string, today time.Time) (*retention.Evaluation, error)
	Classify(ctx context.Context, req retention.ClassifyRequest) (rules.Result, error)
	Plan(ctx context.Context, req retention.PlanRequest) (*retention.Plan, error)
	Runs(ctx context.Context, limit int) ([]domain.RetentionRun, error)
}

// ProtectedList reports on and refreshes the protected-email list.
type ProtectedList interface {
	Count(ctx context.Context) (int, error)
	Reload(ctx context.Context) (int, error)
}

// OpportunityLister reads an account's opportunities.
type OpportunityLister interface {
	OpportunitiesForAccount(ctx context.Context, accountID string) ([]domain.Opportunity, error)
}

// RecordSearcher filters the cached CRM record lists.
type RecordSearcher interface {
	Search(ctx context.Context, kind domain.DetailsType, query string) (*records.Result, error)
}

// Handlers holds the dependencies of all API handlers.
type Handlers struct {
	retention     RetentionService
	protected     ProtectedList
	opportunities OpportunityLister
	records       RecordSearcher
	health        *HealthChecker
	now           func() time.Time
}

// NewHandlers creates the API handlers. health may be nil.
func NewHandlers(svc RetentionService, protected ProtectedList, opps OpportunityLister, recs RecordSearcher, health *HealthChecker) *Handlers {
	return &Handlers{
		retention:     svc,
		protected:     protected,
		opportunities: opps,
		records:       recs,
		health:        health,
		now:           time.Now,
	}
}

// dateLayout is the format of date query parameters.
const dateLayout = domain.DateLayout

// today reads the optional ?today=YYYY-MM-DD override, defaulting to the
// handler clock.
func (h *Handlers) today(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("today")
	if raw == "" {
		return h.now(), nil
	}
	return time.Parse(dateLayout, raw)
}
