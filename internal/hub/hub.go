// Package hub is the transport/session layer around battle.Engine. A single
// goroutine (Run) owns the engine, the registered clients and the room
// multicast groups, so every event is processed as one atomic step.
package hub

import (
	"context"
	"errors"
	"fmt"

	"battlegogo/backend/internal/battle"
	"battlegogo/backend/internal/config"
	"battlegogo/backend/internal/models"

	"go.uber.org/zap"
)

var ErrHubStopped = errors.New("hub stopped")

type Hub struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan Inbound

	kickCh  chan string
	statsCh chan chan battle.Stats
	done    chan struct{}

	// Owned by the Run goroutine.
	clients map[string]Client
	groups  map[string]map[string]struct{}
	engine  *battle.Engine
	checks  bool

	log *zap.Logger
}

func NewHub(log *zap.Logger, opts ...battle.Option) *Hub {
	h := &Hub{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan Inbound, config.IncomingBuffer),
		kickCh:       make(chan string),
		statsCh:      make(chan chan battle.Stats),
		done:         make(chan struct{}),
		clients:      make(map[string]Client),
		groups:       make(map[string]map[string]struct{}),
		log:          log,
	}
	h.engine = battle.NewEngine(h, log.Named("battle"), opts...)
	return h
}

// EnableInvariantChecks makes Run verify the engine state after every event.
// It must be called before Run.
func (h *Hub) EnableInvariantChecks() { h.checks = true }

// Run processes hub events until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.RegisterCh:
			h.register(c)

		case c := <-h.UnregisterCh:
			h.unregister(c)

		case in := <-h.IncomingCh:
			if _, ok := h.clients[in.ConnectionID]; !ok {
				h.log.Debug("event from closed connection dropped",
					zap.String("conn_id", in.ConnectionID), zap.String("type", in.Envelope.Type))
				continue
			}
			h.dispatch(h.engine.Handle(in.ConnectionID, in.Envelope))

		case principalID := <-h.kickCh:
			h.kick(principalID)

		case reply := <-h.statsCh:
			reply <- h.engine.Stats()
			continue
		}

		if h.checks {
			if err := h.engine.CheckInvariants(); err != nil {
				h.log.Error("engine state inconsistent", zap.Error(err))
			}
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Register hands c to the hub. It reports false if the hub has stopped.
func (h *Hub) Register(c Client) bool {
	select {
	case h.RegisterCh <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c Client) {
	select {
	case h.UnregisterCh <- c:
	case <-h.done:
	}
}

// Submit queues an inbound event. It reports false if the hub has stopped.
func (h *Hub) Submit(in Inbound) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.IncomingCh <- in:
		return true
	case <-h.done:
		return false
	}
}

// Kick disconnects every connection of the principal.
func (h *Hub) Kick(principalID string) {
	select {
	case h.kickCh <- principalID:
	case <-h.done:
	}
}

// Stats asks the Run goroutine for the engine counters.
func (h *Hub) Stats(ctx context.Context) (battle.Stats, error) {
	reply := make(chan battle.Stats, 1)
	select {
	case h.statsCh <- reply:
	case <-h.done:
		return battle.Stats{}, ErrHubStopped
	case <-ctx.Done():
		return battle.Stats{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return battle.Stats{}, ctx.Err()
	}
}

func (h *Hub) register(c Client) {
	id := c.GetConnectionID()
	if _, exists := h.clients[id]; exists {
		h.log.Error("connection ID collision, refusing client", zap.String("conn_id", id))
		c.Close()
		return
	}
	h.clients[id] = c
	h.log.Debug("client registered", zap.String("conn_id", id), zap.Int("clients", len(h.clients)))
	h.dispatch(h.engine.OnConnect(id, c.GetPrincipalID()))
}

func (h *Hub) unregister(c Client) {
	id := c.GetConnectionID()
	if current, ok := h.clients[id]; !ok || current != c {
		// Already evicted or kicked.
		return
	}
	h.dispatch(h.drop(id))
}

func (h *Hub) kick(principalID string) {
	var ids []string
	for id, c := range h.clients {
		if c.GetPrincipalID() == principalID {
			h.log.Info("kicking connection", zap.String("conn_id", id), zap.String("principal_id", principalID))
			ids = append(ids, id)
		}
	}
	h.dispatch(h.drop(ids...))
}

// drop forgets every listed client before running any engine disconnect, so
// a partner requeued by one teardown cannot be paired with another of them.
// The returned events still have to be dispatched.
func (h *Hub) drop(connIDs ...string) []battle.Outbound {
	gone := make([]string, 0, len(connIDs))
	for _, id := range connIDs {
		if h.forget(id) {
			gone = append(gone, id)
		}
	}
	return h.disconnect(gone...)
}

// forget removes a client from the hub and its multicast groups and closes
// it. The engine still knows the connection until disconnect runs.
func (h *Hub) forget(connID string) bool {
	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	delete(h.clients, connID)
	c.Close()
	for roomID := range h.groups {
		h.LeaveRoom(roomID, connID)
	}
	return true
}

func (h *Hub) disconnect(connIDs ...string) []battle.Outbound {
	var out []battle.Outbound
	for _, id := range connIDs {
		out = append(out, h.engine.OnDisconnect(id)...)
	}
	return out
}

// dispatch delivers events without blocking. A client whose buffer is full is
// forgotten at once, so later events of the same batch skip it, and its
// disconnect is dispatched once the batch is done.
func (h *Hub) dispatch(out []battle.Outbound) {
	for len(out) > 0 {
		var evicted []string
		for _, o := range out {
			for _, id := range h.targets(o) {
				if h.send(id, o.Event) {
					continue
				}
				h.log.Warn("client too slow, evicting", zap.String("conn_id", id))
				h.forget(id)
				evicted = append(evicted, id)
			}
		}
		out = h.disconnect(evicted...)
	}
}

func (h *Hub) targets(o battle.Outbound) []string {
	if o.To != "" {
		return []string{o.To}
	}
	ids := make([]string, 0, len(h.groups[o.Room]))
	for id := range h.groups[o.Room] {
		if id != o.Except {
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *Hub) send(connID string, env models.Envelope) bool {
	c, ok := h.clients[connID]
	if !ok {
		return true
	}
	select {
	case c.GetSendChannel() <- env:
		return true
	default:
		return false
	}
}

func (h *Hub) shutdown() {
	h.log.Info("hub stopping", zap.Int("clients", len(h.clients)))
	for id, c := range h.clients {
		delete(h.clients, id)
		c.Close()
	}
}

// Alive, JoinRoom and LeaveRoom implement battle.Transport. They are only
// called from the Run goroutine.

func (h *Hub) Alive(connID string) bool {
	_, ok := h.clients[connID]
	return ok
}

func (h *Hub) JoinRoom(roomID string, connIDs ...string) error {
	for _, id := range connIDs {
		if !h.Alive(id) {
			return fmt.Errorf("join room %s: connection %s is not registered", roomID, id)
		}
	}
	group, ok := h.groups[roomID]
	if !ok {
		group = make(map[string]struct{}, len(connIDs))
		h.groups[roomID] = group
	}
	for _, id := range connIDs {
		group[id] = struct{}{}
	}
	return nil
}

func (h *Hub) LeaveRoom(roomID string, connIDs ...string) {
	group, ok := h.groups[roomID]
	if !ok {
		return
	}
	for _, id := range connIDs {
		delete(group, id)
	}
	if len(group) == 0 {
		delete(h.groups, roomID)
	}
}
