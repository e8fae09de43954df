package domain

// Campaign is a marketing campaign record.
type Campaign struct {
	ID               string `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	Status           string `json:"status" db:"status"`
	Type             string `json:"campaign_type" db:"campaign_type"`
	EndDate          string `json:"end_date" db:"end_date"`
	AssignedUserName string `json:"assigned_user_name" db:"assigned_user_name"`
}
