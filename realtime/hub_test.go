package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"poolcare_server/config"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(&structs.RealtimeConfig{PingPeriod: time.Second, PongWait: 5 * time.Second}, nil, config.NewLogger(false))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := uuid.MustParse(r.URL.Query().Get("user"))
		role := tables.Role(r.URL.Query().Get("role"))
		_ = hub.Serve(w, r, userID, role)
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, userID uuid.UUID, role tables.Role) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user=" + userID.String() + "&role=" + string(role)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) ChangeEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev ChangeEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestHubFiltersByCustomer(t *testing.T) {
	hub, srv := newTestHub(t)

	alice, bob := uuid.New(), uuid.New()
	admin := dial(t, srv, uuid.New(), tables.RoleAdmin)
	customer := dial(t, srv, alice, tables.RoleCustomer)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	bobsVisit := ChangeEvent{Table: "schedules", Action: "insert", ID: uuid.New(), CustomerID: bob}
	alicesVisit := ChangeEvent{Table: "schedules", Action: "update", ID: uuid.New(), CustomerID: alice}
	hub.Broadcast(bobsVisit)
	hub.Broadcast(alicesVisit)

	// the admin sees both, in order
	assert.Equal(t, bobsVisit, readEvent(t, admin))
	assert.Equal(t, alicesVisit, readEvent(t, admin))

	// the customer only sees their own visit
	assert.Equal(t, alicesVisit, readEvent(t, customer))
}

func TestHubRemovesClosedSubscribers(t *testing.T) {
	hub, srv := newTestHub(t)

	conn := dial(t, srv, uuid.New(), tables.RoleCustomer)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestParseChangeEvent(t *testing.T) {
	id, customer := uuid.New(), uuid.New()
	ev, err := ParseChangeEvent(`{"table":"schedules","action":"delete","id":"` + id.String() + `","customer_id":"` + customer.String() + `"}`)
	require.NoError(t, err)
	assert.Equal(t, ChangeEvent{Table: "schedules", Action: "delete", ID: id, CustomerID: customer}, ev)

	_, err = ParseChangeEvent(`not json`)
	assert.Error(t, err)

	_, err = ParseChangeEvent(`{"action":"insert"}`)
	assert.Error(t, err)
}
