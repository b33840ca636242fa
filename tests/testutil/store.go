package testutil

import (
	"testing"

	"github.com/sqlainsaad5/eventify-bell/internal/store"
)

// NewTestJournal creates an in-memory SQLiteJournal with all migrations
// applied. It automatically closes the journal when the test completes.
func NewTestJournal(t *testing.T) *store.SQLiteJournal {
	t.Helper()

	j, err := store.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("creating test journal: %v", err)
	}

	t.Cleanup(func() {
		if err := j.Close(); err != nil {
			t.Errorf("closing test journal: %v", err)
		}
	})

	return j
}
