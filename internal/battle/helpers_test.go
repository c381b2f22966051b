package battle_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"testing"

	"battlegogo/backend/internal/battle"
	"battlegogo/backend/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTransport keeps multicast groups in memory and lets tests kill
// connections or make joins fail.
type fakeTransport struct {
	dead    map[string]bool
	joinErr error
	groups  map[string]map[string]bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		dead:   make(map[string]bool),
		groups: make(map[string]map[string]bool),
	}
}

func (f *fakeTransport) Alive(connID string) bool { return !f.dead[connID] }

func (f *fakeTransport) JoinRoom(roomID string, connIDs ...string) error {
	if f.joinErr != nil {
		return f.joinErr
	}
	g := make(map[string]bool, len(connIDs))
	for _, id := range connIDs {
		g[id] = true
	}
	f.groups[roomID] = g
	return nil
}

func (f *fakeTransport) LeaveRoom(roomID string, connIDs ...string) {
	g, ok := f.groups[roomID]
	if !ok {
		return
	}
	for _, id := range connIDs {
		delete(g, id)
	}
	if len(g) == 0 {
		delete(f.groups, roomID)
	}
}

// recipients expands outbound events to (connection, event type) deliveries
// using the fake groups, the way the hub does.
func (f *fakeTransport) recipients(out []battle.Outbound) map[string][]models.Envelope {
	got := make(map[string][]models.Envelope)
	for _, o := range out {
		if o.To != "" {
			got[o.To] = append(got[o.To], o.Event)
			continue
		}
		ids := make([]string, 0, len(f.groups[o.Room]))
		for id := range f.groups[o.Room] {
			if id != o.Except {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			got[id] = append(got[id], o.Event)
		}
	}
	return got
}

type seqIDs struct{ n int }

func (s *seqIDs) NewRoomID() string {
	s.n++
	return fmt.Sprintf("room-%d", s.n)
}

func newTestEngine(t *testing.T) (*battle.Engine, *fakeTransport) {
	t.Helper()
	tr := newFakeTransport()
	e := battle.NewEngine(tr, zap.NewNop(), battle.WithIDGenerator(&seqIDs{}))
	t.Cleanup(func() {
		require.NoError(t, e.CheckInvariants())
	})
	return e, tr
}

func connect(e *battle.Engine, ids ...string) {
	for _, id := range ids {
		e.OnConnect(id, "principal-"+id)
	}
}

func types(envs []models.Envelope) []string {
	out := make([]string, 0, len(envs))
	for _, env := range envs {
		out = append(out, env.Type)
	}
	return out
}

func decodeBattleFound(t *testing.T, env models.Envelope) models.BattleFound {
	t.Helper()
	require.Equal(t, models.EventBattleFound, env.Type)
	var bf models.BattleFound
	require.NoError(t, json.Unmarshal(env.Payload, &bf))
	return bf
}

var errJoin = errors.New("group join refused")
