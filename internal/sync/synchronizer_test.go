package sync

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlainsaad5/eventify-bell/internal/credential"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/store"
	"github.com/sqlainsaad5/eventify-bell/tests/testutil"
)

func newTestSynchronizer(t *testing.T, client *fakeClient, token string) (*Synchronizer, *store.NotificationStore, *store.SQLiteJournal) {
	t.Helper()
	st := store.NewNotificationStore()
	journal := testutil.NewTestJournal(t)
	s := NewSynchronizer(client, credential.NewStaticSession(token, model.RoleUser), st, journal, zerolog.Nop())
	return s, st, journal
}

func TestAcknowledge_CommitsAfterConfirmation(t *testing.T) {
	client := newFakeClient()
	s, st, journal := newTestSynchronizer(t, client, "tok")
	st.Replace([]model.Notification{note("1", false), note("2", false)})

	n, _ := st.Get("1")
	require.NoError(t, s.Acknowledge(context.Background(), n))

	got, _ := st.Get("1")
	assert.True(t, got.IsRead)
	assert.Equal(t, 1, st.UnreadCount())
	assert.Equal(t, []model.ID{"1"}, client.marked)

	entries, err := journal.ListReadState(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.OpMarkRead, entries[0].Op)
	assert.Equal(t, model.ID("1"), entries[0].NotificationID)
	assert.True(t, entries[0].Confirmed)
}

func TestAcknowledge_FailureLeavesStore(t *testing.T) {
	client := newFakeClient()
	client.setMarkErr(errors.New("503"))
	s, st, journal := newTestSynchronizer(t, client, "tok")
	st.Replace([]model.Notification{note("1", false)})

	n, _ := st.Get("1")
	err := s.Acknowledge(context.Background(), n)
	require.Error(t, err)

	got, _ := st.Get("1")
	assert.False(t, got.IsRead)
	assert.Equal(t, 1, st.UnreadCount())

	entries, err := journal.ListReadState(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Confirmed)
	assert.Contains(t, entries[0].Error, "503")
}

func TestAcknowledge_AlreadyReadSendsNothing(t *testing.T) {
	client := newFakeClient()
	s, st, _ := newTestSynchronizer(t, client, "tok")
	st.Replace([]model.Notification{note("1", true), note("2", false)})

	read, _ := st.Get("1")
	require.NoError(t, s.Acknowledge(context.Background(), read))

	// A stale snapshot of an entry the store already flipped.
	st.MarkRead("2")
	require.NoError(t, s.Acknowledge(context.Background(), note("2", false)))

	assert.EqualValues(t, 0, client.marks.Load())
}

func TestAcknowledge_NoCredential(t *testing.T) {
	client := newFakeClient()
	s, st, journal := newTestSynchronizer(t, client, "  ")
	st.Replace([]model.Notification{note("1", false)})

	err := s.Acknowledge(context.Background(), note("1", false))
	assert.ErrorIs(t, err, credential.ErrNoCredential)
	assert.EqualValues(t, 0, client.marks.Load())
	assert.Equal(t, 1, st.UnreadCount())

	entries, err := journal.ListReadState(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearAll(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		client := newFakeClient()
		s, st, journal := newTestSynchronizer(t, client, "tok")
		st.Replace([]model.Notification{note("1", false), note("2", true), note("3", false)})

		require.NoError(t, s.ClearAll(context.Background()))
		assert.Equal(t, 0, st.UnreadCount())
		assert.Equal(t, 3, st.Len())

		entries, err := journal.ListReadState(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, model.OpClearAll, entries[0].Op)
		assert.True(t, entries[0].Confirmed)
	})

	t.Run("rejected", func(t *testing.T) {
		client := newFakeClient()
		client.setClearErr(errors.New("boom"))
		s, st, _ := newTestSynchronizer(t, client, "tok")
		before := []model.Notification{note("1", false), note("2", true)}
		st.Replace(before)

		require.Error(t, s.ClearAll(context.Background()))
		assert.Equal(t, before, st.List())
	})

	t.Run("no credential", func(t *testing.T) {
		client := newFakeClient()
		s, _, _ := newTestSynchronizer(t, client, "")

		assert.ErrorIs(t, s.ClearAll(context.Background()), credential.ErrNoCredential)
		assert.EqualValues(t, 0, client.clears.Load())
	})
}

// An entry is read locally only if a mark-read for it (or a clear-all) was
// confirmed, and the journal agrees with the store.
func TestSynchronizer_ReadOnlyAfterConfirmation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []model.ID{"1", "2", "3", "4", "5", "6"}

	client := newFakeClient()
	s, st, journal := newTestSynchronizer(t, client, "tok")
	initial := make([]model.Notification, len(ids))
	for i, id := range ids {
		initial[i] = note(string(id), false)
	}
	st.Replace(initial)

	confirmed := make(map[model.ID]bool)
	cleared := false

	for i := 0; i < 200; i++ {
		fail := rng.Intn(2) == 0
		if fail {
			client.setMarkErr(errors.New("rejected"))
			client.setClearErr(errors.New("rejected"))
		} else {
			client.setMarkErr(nil)
			client.setClearErr(nil)
		}

		if rng.Intn(20) == 0 {
			err := s.ClearAll(context.Background())
			if !fail {
				require.NoError(t, err)
				cleared = true
			}
			continue
		}

		id := ids[rng.Intn(len(ids))]
		n, _ := st.Get(id)
		err := s.Acknowledge(context.Background(), n)
		if n.IsRead {
			require.NoError(t, err)
			continue
		}
		if !fail {
			require.NoError(t, err)
			confirmed[id] = true
		}
	}

	for _, id := range ids {
		got, ok := st.Get(id)
		require.True(t, ok)
		assert.Equal(t, cleared || confirmed[id], got.IsRead, "id %s", id)

		n, err := journal.ConfirmedReads(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, confirmed[id], n == 1, "id %s", id)
	}
}
