package migration

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type step struct {
	name  string
	err   error
	calls *[]string
}

func (s step) UpMigration(*sql.DB) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

func TestApplyStopsOnFirstError(t *testing.T) {
	var calls []string
	err := Apply(nil,
		step{name: "schema", calls: &calls},
		step{name: "runs", err: errors.New("boom"), calls: &calls},
		step{name: "never", calls: &calls},
	)

	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []string{"schema", "runs"}, calls)
}
