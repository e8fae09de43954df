// Package records searches the cached CRM record lists (accounts, contacts,
// leads and campaigns) with the same free-text filter the retention pass
// uses. It depends only on the Repository interface in repository.go.
package records
