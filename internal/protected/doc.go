// Package protected manages the allow-list of email addresses that the
// retention pass must never touch. The list is exported from the newsletter
// tool as a text file, one address per line, and can be read from local disk
// or S3. The parsed set is kept in a Store so that every server instance
// classifies against the same list.
package protected
