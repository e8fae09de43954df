package domain

// Lead is an unqualified prospect record.
type Lead struct {
	ID               string `json:"id" db:"id"`
	FirstName        string `json:"first_name" db:"first_name"`
	LastName         string `json:"last_name" db:"last_name"`
	Status           string `json:"status" db:"status"`
	AccountName      string `json:"account_name" db:"account_name"`
	Email            string `json:"email" db:"email"`
	AssignedUserName string `json:"assigned_user_name" db:"assigned_user_name"`
}
