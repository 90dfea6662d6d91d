package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	const defaults = "_busy_timeout=5000&_foreign_keys=1&_journal_mode=WAL"

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"scheme stripped", "sqlite://./dev.db", "./dev.db?" + defaults},
		{"plain path", "/tmp/x.db", "/tmp/x.db?" + defaults},
		{"extra params merged", "sqlite://./dev.db?mode=ro", "./dev.db?" + defaults + "&mode=ro"},
		{"user value kept", "sqlite://./dev.db?_busy_timeout=100", "./dev.db?_busy_timeout=100&_foreign_keys=1&_journal_mode=WAL"},
		{"alias counts as set", "./dev.db?_fk=0&_journal=DELETE", "./dev.db?_busy_timeout=5000&_fk=0&_journal=DELETE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := BuildDSN(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dsn)
		})
	}
}

func TestBuildDSNRejectsBadQuery(t *testing.T) {
	_, err := BuildDSN("./dev.db?_fk=%zz")
	assert.Error(t, err)
}
