package retention

import "errors"

// Sentinel errors for the retention service layer.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidAction = errors.New("action must be anonymize or delete")
	ErrRunInProgress = errors.New("a retention pass is already running")
)
