package stage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/crm-retention/internal/domain"
)

func TestButtonTexts(t *testing.T) {
	assert.Equal(t, "Add Note", NotesButtonText(0))
	assert.Equal(t, "View 1 Note", NotesButtonText(1))
	assert.Equal(t, "View 4 Notes", NotesButtonText(4))

	assert.Equal(t, "Attach Document", DocumentsButtonText(0))
	assert.Equal(t, "Manage 1 Document", DocumentsButtonText(1))
	assert.Equal(t, "Manage 2 Documents", DocumentsButtonText(2))
}

func TestUniqueNextSteps(t *testing.T) {
	opps := []domain.Opportunity{
		{NextStep: "send quote"},
		{NextStep: ""},
		{NextStep: "call back"},
		{NextStep: "send quote"},
	}
	assert.Equal(t, []string{"send quote", "call back"}, UniqueNextSteps(opps))
	assert.Nil(t, UniqueNextSteps(nil))
}
