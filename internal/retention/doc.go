// Package retention implements the GDPR contact-retention rule: given a
// contact and what it is linked to, decide whether it is kept, anonymized
// or deleted.
//
// Everything here is a pure function of its inputs. Callers supply "today"
// explicitly so that a decision can be recomputed and compared.
package retention
