// Package retention implements the GDPR cleanup pass over cached contacts.
//
// It gathers what the retention rule needs for each contact (account
// classification, recent opportunities, linked notes and emails, the
// protected-email list) and returns a plan of contacts to anonymize or
// delete. Executing the plan against the remote CRM is someone else's job.
//
// The service layer contains pure business logic and depends on the
// Repository interface defined in repository.go. It never imports
// net/http or database/sql directly.
package retention
