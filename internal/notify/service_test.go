package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	gosync "sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlainsaad5/eventify-bell/internal/credential"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/navigate"
	"github.com/sqlainsaad5/eventify-bell/internal/remote"
	"github.com/sqlainsaad5/eventify-bell/internal/routing"
	"github.com/sqlainsaad5/eventify-bell/tests/testutil"
)

const feed = `{"notifications":[
	{"id":1,"title":"New message","message":"hi","type":"chat","is_read":false,"created_at":"2024-05-01T10:00:00","extra_data":{"sender_id":42}},
	{"id":2,"title":"Services updated","type":"service_update","is_read":false,"extra_data":{"vendor_id":7}},
	{"id":3,"title":"Broken","type":"booking","is_read":false,"extra_data":{"type":"booking"}},
	{"id":4,"title":"Welcome","type":"generic","is_read":true}
]}`

// fakeAPI is the notification backend. Marking id 3 read always fails.
type fakeAPI struct {
	mu      gosync.Mutex
	reads   []string
	cleared int
}

func (a *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/payments/notifications", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feed))
	})
	r.Put("/api/payments/notifications/clear-all", func(w http.ResponseWriter, _ *http.Request) {
		a.mu.Lock()
		a.cleared++
		a.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	r.Put("/api/payments/notifications/{id}/read", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		a.mu.Lock()
		a.reads = append(a.reads, id)
		a.mu.Unlock()
		if id == "3" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func (a *fakeAPI) readIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.reads...)
}

func (a *fakeAPI) clearCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cleared
}

type recordingNavigator struct {
	got []routing.Destination
}

func (n *recordingNavigator) Navigate(d routing.Destination) (string, error) {
	n.got = append(n.got, d)
	return navigate.URL("http://app", d), nil
}

func newTestService(t *testing.T, role model.Role) (*Service, *fakeAPI, *recordingNavigator) {
	t.Helper()

	api := &fakeAPI{}
	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)

	client := remote.NewHTTPClient(srv.URL, zerolog.Nop())
	t.Cleanup(func() { _ = client.Close() })

	nav := &recordingNavigator{}
	svc := NewService(client, credential.NewStaticSession("tok", role), testutil.NewTestJournal(t), nav, zerolog.Nop())

	require.NoError(t, svc.Start(time.Hour))
	t.Cleanup(svc.Stop)

	select {
	case r := <-svc.Results():
		require.NoError(t, r.Error)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial poll")
	}
	return svc, api, nav
}

func TestService_InitialSync(t *testing.T) {
	svc, _, _ := newTestService(t, model.RoleVendor)

	list := svc.List()
	require.Len(t, list, 4)
	assert.Equal(t, model.ID("1"), list[0].ID)
	assert.Equal(t, 3, svc.UnreadCount())
}

func TestService_SelectAcknowledgesAndRoutes(t *testing.T) {
	svc, api, nav := newTestService(t, model.RoleVendor)

	sel, err := svc.Select(context.Background(), "1")
	require.NoError(t, err)
	require.NoError(t, sel.AckErr)
	assert.True(t, sel.Notification.IsRead)
	assert.True(t, sel.Routed)
	assert.Equal(t, "http://app/vendor/messages?organizerId=42", sel.URL)
	assert.Equal(t, 2, svc.UnreadCount())
	assert.Equal(t, []string{"1"}, api.readIDs())
	require.Len(t, nav.got, 1)

	// Selecting it again routes without another request.
	_, err = svc.Select(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, api.readIDs())
	assert.Len(t, nav.got, 2)
}

func TestService_SelectRoutesEvenWhenAckFails(t *testing.T) {
	svc, _, _ := newTestService(t, model.RoleVendor)

	sel, err := svc.Select(context.Background(), "3")
	require.NoError(t, err)
	require.Error(t, sel.AckErr)
	assert.False(t, sel.Notification.IsRead)
	assert.True(t, sel.Routed)
	assert.Equal(t, "http://app/vendor/bookings", sel.URL)
	assert.Equal(t, 3, svc.UnreadCount())
}

func TestService_SelectWithoutDestination(t *testing.T) {
	svc, _, nav := newTestService(t, model.RoleUser)

	sel, err := svc.Select(context.Background(), "2")
	require.NoError(t, err)
	assert.False(t, sel.Routed)
	assert.Empty(t, sel.URL)
	assert.Empty(t, nav.got)
	assert.True(t, sel.Notification.IsRead, "acknowledged even when nothing to open")
}

func TestService_SelectUnknown(t *testing.T) {
	svc, api, _ := newTestService(t, model.RoleUser)

	_, err := svc.Select(context.Background(), "99")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, api.readIDs())
}

func TestService_ClearAll(t *testing.T) {
	svc, api, _ := newTestService(t, model.RoleOrganizer)

	require.NoError(t, svc.ClearAll(context.Background()))
	assert.Equal(t, 0, svc.UnreadCount())
	assert.Len(t, svc.List(), 4)
	assert.Equal(t, 1, api.clearCount())
}
