package retention

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ProtectedSet is an immutable set of email addresses that must never be
// anonymized or deleted. The zero value is an empty set.
type ProtectedSet struct {
	emails map[string]struct{}
}

// NewProtectedSet builds a set from the given addresses.
func NewProtectedSet(emails ...string) ProtectedSet {
	s := ProtectedSet{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if n := NormalizeEmail(e); n != "" {
			s.emails[n] = struct{}{}
		}
	}
	return s
}

// ParseProtected reads one address per line. Blank lines are skipped.
func ParseProtected(r io.Reader) (ProtectedSet, error) {
	var emails []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		emails = append(emails, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return ProtectedSet{}, fmt.Errorf("read protected emails: %w", err)
	}
	return NewProtectedSet(emails...), nil
}

// Contains reports whether email is protected.
func (s ProtectedSet) Contains(email string) bool {
	if len(s.emails) == 0 {
		return false
	}
	_, ok := s.emails[NormalizeEmail(email)]
	return ok
}

// Len returns the number of protected addresses.
func (s ProtectedSet) Len() int { return len(s.emails) }

// Emails returns the protected addresses in no particular order.
func (s ProtectedSet) Emails() []string {
	out := make([]string, 0, len(s.emails))
	for e := range s.emails {
		out = append(out, e)
	}
	return out
}

// NormalizeEmail lowercases and trims an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
