package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/crm-retention/internal/config"
)

func TestOpen_RequiresDatabase(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{})
	assert.ErrorContains(t, err, "database url is required")
}
