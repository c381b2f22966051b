package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"battlegogo/backend/internal/api/handler"
	"battlegogo/backend/internal/auth"
	"battlegogo/backend/internal/hub"
	"battlegogo/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBans map[string]bool

func (f fakeBans) IsUserBanned(principalID string) (bool, error) {
	if principalID == "broken" {
		return false, errors.New("redis down")
	}
	return f[principalID], nil
}

type fakePresence struct {
	mu     sync.Mutex
	online map[string]int

	// When set, Online reports on entered and waits for release.
	entered chan string
	release chan struct{}
}

func (p *fakePresence) Online(principalID string) {
	if p.entered != nil {
		p.entered <- principalID
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[principalID]++
}

func (p *fakePresence) Offline(principalID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online[principalID]--
}

func (p *fakePresence) count(principalID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[principalID]
}

type fixture struct {
	hub      *hub.Hub
	issuer   *auth.Issuer
	presence *fakePresence
	server   *httptest.Server
}

func newFixture(t *testing.T, bans fakeBans) *fixture {
	t.Helper()
	return newFixtureWithPresence(t, bans, &fakePresence{online: map[string]int{}})
}

func newFixtureWithPresence(t *testing.T, bans fakeBans, presence *fakePresence) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := hub.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.Done()
	})

	f := &fixture{
		hub:      h,
		issuer:   auth.NewIssuer("test-secret", time.Hour),
		presence: presence,
	}
	api := handler.NewHandler(h, f.issuer, bans, f.presence, 16, zap.NewNop())
	f.server = httptest.NewServer(api.Routes())
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) token(t *testing.T, principalID string) string {
	t.Helper()
	token, err := f.issuer.Issue(principalID)
	require.NoError(t, err)
	return token
}

func (f *fixture) dial(t *testing.T, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func readEvent(t *testing.T, conn *websocket.Conn) models.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env models.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestGetAnonID(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Get(f.server.URL + "/anonid")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token  string `json:"token"`
		AnonID string `json:"anon_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.AnonID)

	principalID, err := f.issuer.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.AnonID, principalID)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := http.Get(f.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["connections"])
}

func TestServeWebSocket_Rejections(t *testing.T) {
	f := newFixture(t, fakeBans{"banned-user": true})
	other := auth.NewIssuer("other-secret", time.Hour)
	forged, err := other.Issue("p1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "missing token", token: "", status: http.StatusUnauthorized},
		{name: "garbage token", token: "not-a-jwt", status: http.StatusUnauthorized},
		{name: "wrong signature", token: forged, status: http.StatusUnauthorized},
		{name: "banned principal", token: f.token(t, "banned-user"), status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, resp, err := f.dial(t, tt.token)
			require.Error(t, err)
			assert.Nil(t, conn)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestServeWebSocket_AuthorizationHeader(t *testing.T) {
	f := newFixture(t, nil)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	header := http.Header{"Authorization": []string{"Bearer " + f.token(t, "p1")}}

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, models.EventConnected, readEvent(t, conn).Type)
}

func TestServeWebSocket_BanLookupFailureAdmits(t *testing.T) {
	f := newFixture(t, fakeBans{})

	conn, _, err := f.dial(t, f.token(t, "broken"))
	require.NoError(t, err)
	assert.Equal(t, models.EventConnected, readEvent(t, conn).Type)
}

func TestServeWebSocket_BattleOverTheWire(t *testing.T) {
	f := newFixture(t, fakeBans{})

	alice, _, err := f.dial(t, f.token(t, "alice"))
	require.NoError(t, err)
	bob, _, err := f.dial(t, f.token(t, "bob"))
	require.NoError(t, err)

	var aliceHello, bobHello models.Connected
	require.NoError(t, json.Unmarshal(readEvent(t, alice).Payload, &aliceHello))
	require.NoError(t, json.Unmarshal(readEvent(t, bob).Payload, &bobHello))
	assert.Equal(t, "alice", aliceHello.PrincipalID)
	assert.Equal(t, "bob", bobHello.PrincipalID)

	require.NoError(t, alice.WriteJSON(models.Envelope{Type: models.EventStartRandomBattle}))
	require.NoError(t, bob.WriteJSON(models.Envelope{Type: models.EventStartRandomBattle}))

	foundA := readEvent(t, alice)
	foundB := readEvent(t, bob)
	require.Equal(t, models.EventBattleFound, foundA.Type)
	require.Equal(t, models.EventBattleFound, foundB.Type)

	var a, b models.BattleFound
	require.NoError(t, json.Unmarshal(foundA.Payload, &a))
	require.NoError(t, json.Unmarshal(foundB.Payload, &b))
	assert.Equal(t, a.RoomID, b.RoomID)
	assert.Equal(t, bobHello.ConnectionID, a.Partner.ConnectionID)
	assert.Equal(t, "alice", b.Partner.PrincipalID)

	require.NoError(t, alice.WriteJSON(models.Envelope{Type: models.EventReadyToStart}))
	require.NoError(t, bob.WriteJSON(models.Envelope{Type: models.EventReadyToStart}))
	assert.Equal(t, models.EventBattleStart, readEvent(t, alice).Type)
	assert.Equal(t, models.EventBattleStart, readEvent(t, bob).Type)

	offer := json.RawMessage(`{"sdp":"v=0"}`)
	require.NoError(t, alice.WriteJSON(models.Envelope{Type: models.EventWebRTCOffer, Payload: offer}))
	relayed := readEvent(t, bob)
	assert.Equal(t, models.EventWebRTCOffer, relayed.Type)
	assert.JSONEq(t, string(offer), string(relayed.Payload))

	assert.Equal(t, 1, f.presence.count("alice"))
	require.NoError(t, alice.Close())

	assert.Equal(t, models.EventPartnerDisconnected, readEvent(t, bob).Type)
	assert.Eventually(t, func() bool { return f.presence.count("alice") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServeWebSocket_PresenceRecordedBeforeMatchmaking(t *testing.T) {
	presence := &fakePresence{
		online:  map[string]int{},
		entered: make(chan string, 1),
		release: make(chan struct{}),
	}
	f := newFixtureWithPresence(t, fakeBans{}, presence)

	conn, _, err := f.dial(t, f.token(t, "alice"))
	require.NoError(t, err)
	require.Equal(t, "alice", <-presence.entered)

	// Storage is still busy, so the hub must not know the connection yet.
	stats, err := f.hub.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Connections)

	close(presence.release)
	assert.Equal(t, models.EventConnected, readEvent(t, conn).Type)
	stats, err = f.hub.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Connections)
}
