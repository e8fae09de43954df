package records

import (
	"context"

	"github.com/ignite/crm-retention/internal/domain"
)

// Repository lists the cached CRM records.
type Repository interface {
	Accounts(ctx context.Context) ([]domain.Account, error)
	Contacts(ctx context.Context) ([]domain.Contact, error)
	Leads(ctx context.Context) ([]domain.Lead, error)
	Campaigns(ctx context.Context) ([]domain.Campaign, error)
}
