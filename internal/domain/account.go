package domain

// AccountType is the CRM classification of an account.
type AccountType string

const (
	AccountPartner    AccountType = "Partner"
	AccountCompetitor AccountType = "Competitor"
	AccountOther      AccountType = "Other"
	AccountCustomer   AccountType = "Customer"
	AccountProspect   AccountType = "Prospect"
	AccountAnalyst    AccountType = "Analyst"
	AccountReseller   AccountType = "Reseller"
)

// IsBusinessRelation reports whether accounts of this type model a standing
// relationship (partners, competitors, providers) rather than a sales target.
func (t AccountType) IsBusinessRelation() bool {
	switch t {
	case AccountPartner, AccountCompetitor, AccountOther:
		return true
	}
	return false
}

// Account is a company record cached from the remote CRM.
type Account struct {
	ID                 string      `json:"id" db:"id"`
	Name               string      `json:"name" db:"name"`
	Type               AccountType `json:"account_type" db:"account_type"`
	Email              string      `json:"email" db:"email"`
	PhoneOffice        string      `json:"phone_office" db:"phone_office"`
	BillingStreet      string      `json:"billing_street" db:"billing_street"`
	BillingCity        string      `json:"billing_city" db:"billing_city"`
	BillingPostalCode  string      `json:"billing_postal_code" db:"billing_postal_code"`
	BillingCountry     string      `json:"billing_country" db:"billing_country"`
	ShippingStreet     string      `json:"shipping_street" db:"shipping_street"`
	ShippingCity       string      `json:"shipping_city" db:"shipping_city"`
	ShippingPostalCode string      `json:"shipping_postal_code" db:"shipping_postal_code"`
	OpportunityCount   int         `json:"opportunity_count" db:"opportunity_count"`
}

// PostalCode returns the billing postal code, falling back to shipping.
func (a Account) PostalCode() string {
	if a.BillingPostalCode != "" {
		return a.BillingPostalCode
	}
	return a.ShippingPostalCode
}
