package domain

import (
	"strings"
	"time"
)

// Placeholder names written over a contact when it is anonymized.
const (
	AnonymizedGivenName  = "Anonymized"
	AnonymizedFamilyName = "GDPR"
)

// Contact is a person record cached from the remote CRM.
type Contact struct {
	ID             string    `json:"id" db:"id"`
	AccountID      string    `json:"account_id" db:"account_id"`
	GivenName      string    `json:"given_name" db:"given_name"`
	FamilyName     string    `json:"family_name" db:"family_name"`
	Note           string    `json:"note" db:"note"`
	PreferredEmail string    `json:"preferred_email" db:"preferred_email"`
	Organization   string    `json:"organization" db:"organization"`
	WorkPhone      string    `json:"work_phone" db:"work_phone"`
	MobilePhone    string    `json:"mobile_phone" db:"mobile_phone"`
	Country        string    `json:"country" db:"country"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// HasAccount reports whether the contact is linked to an account.
func (c Contact) HasAccount() bool { return c.AccountID != "" }

// FullName joins given and family name, skipping empty parts.
func (c Contact) FullName() string {
	return strings.TrimSpace(strings.Join([]string{c.GivenName, c.FamilyName}, " "))
}

// IsAnonymized reports whether the contact already carries the anonymization
// placeholder names.
func (c Contact) IsAnonymized() bool {
	return c.GivenName == AnonymizedGivenName && c.FamilyName == AnonymizedFamilyName
}
