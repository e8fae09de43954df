// Package filter implements the free-text search used by the record lists:
// a case-insensitive substring match over the columns a user sees.
package filter

import (
	"strings"

	"github.com/ignite/crm-retention/internal/domain"
)

// Description renders the filter for a status line, or "" when unset.
func Description(filter string) string {
	if filter == "" {
		return ""
	}
	return `containing "` + filter + `"`
}

// Account reports whether an account matches the filter.
func Account(a domain.Account, filter string) bool {
	return anyContains(filter,
		a.Name,
		a.BillingCity, a.ShippingCity,
		a.BillingStreet, a.ShippingStreet,
		a.Email,
		a.BillingCountry,
		a.PhoneOffice,
		a.PostalCode(),
	)
}

// Campaign reports whether a campaign matches the filter.
func Campaign(c domain.Campaign, filter string) bool {
	return anyContains(filter, c.Name, c.Status, c.Type, c.EndDate, c.AssignedUserName)
}

// Contact reports whether a contact matches the filter.
func Contact(c domain.Contact, filter string) bool {
	return anyContains(filter,
		c.FullName(),
		c.Organization,
		c.PreferredEmail,
		c.WorkPhone,
		c.MobilePhone,
		c.GivenName,
		c.Country,
	)
}

// Lead reports whether a lead matches the filter.
func Lead(l domain.Lead, filter string) bool {
	return anyContains(filter, l.FirstName, l.LastName, l.Status, l.AccountName, l.Email, l.AssignedUserName)
}

func anyContains(filter string, fields ...string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
