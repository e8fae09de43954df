package retention

import (
	"context"

	"github.com/ignite/crm-retention/internal/domain"
	rules "github.com/ignite/crm-retention/internal/retention"
)

// Repository defines read access to the cached CRM records.
type Repository interface {
	// Contacts returns every cached contact.
	Contacts(ctx context.Context) ([]domain.Contact, error)

	// ContactByID returns ErrNotFound if the contact doesn't exist.
	ContactByID(ctx context.Context, id string) (*domain.Contact, error)

	// AccountByID returns ErrNotFound if the account isn't cached.
	AccountByID(ctx context.Context, id string) (*domain.Account, error)

	// OpportunitiesForAccount returns all opportunities linked to an account.
	OpportunitiesForAccount(ctx context.Context, accountID string) ([]domain.Opportunity, error)

	// NoteCount and EmailCount count items linked to a contact.
	NoteCount(ctx context.Context, contactID string) (int, error)
	EmailCount(ctx context.Context, contactID string) (int, error)
}

// RunStore records the summary of each retention pass.
type RunStore interface {
	SaveRun(ctx context.Context, run *domain.RetentionRun) error
	ListRuns(ctx context.Context, limit int) ([]domain.RetentionRun, error)
}

// ProtectedProvider supplies the protected-email set in effect.
type ProtectedProvider interface {
	Set(ctx context.Context) (rules.ProtectedSet, error)
}

// PlanArchiver keeps a copy of every computed plan.
type PlanArchiver interface {
	SavePlan(ctx context.Context, plan *Plan) error
}
