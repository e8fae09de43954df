// Package domain defines the CRM records the retention and opportunity
// rules operate on: contacts, accounts, opportunities, leads and campaigns
// as cached from the remote CRM, plus the retention decision and GDPR action
// enums.
//
// Records are plain values. Nothing here talks to the database or knows
// about HTTP; the cache tables in migrations/ and the JSON bodies of the API
// both map onto these structs through their tags.
//
// Keep it that way:
//   - no imports from other internal/ packages
//   - no context.Context or connection handles in struct fields
//   - small pure helpers (FullName, Valid) are fine
package domain
