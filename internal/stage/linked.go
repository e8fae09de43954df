package stage

import (
	"fmt"

	"github.com/ignite/crm-retention/internal/domain"
)

// NotesButtonText is the caption of the notes button for an opportunity with
// the given number of linked notes and emails.
func NotesButtonText(count int) string {
	switch {
	case count <= 0:
		return "Add Note"
	case count == 1:
		return "View 1 Note"
	}
	return fmt.Sprintf("View %d Notes", count)
}

// DocumentsButtonText is the caption of the documents button.
func DocumentsButtonText(count int) string {
	switch {
	case count <= 0:
		return "Attach Document"
	case count == 1:
		return "Manage 1 Document"
	}
	return fmt.Sprintf("Manage %d Documents", count)
}

// UniqueNextSteps collects the distinct non-empty next steps, in the order
// they first appear, for completion.
func UniqueNextSteps(opps []domain.Opportunity) []string {
	seen := make(map[string]struct{}, len(opps))
	var out []string
	for _, o := range opps {
		if o.NextStep == "" {
			continue
		}
		if _, ok := seen[o.NextStep]; ok {
			continue
		}
		seen[o.NextStep] = struct{}{}
		out = append(out, o.NextStep)
	}
	return out
}
