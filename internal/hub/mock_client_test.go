package hub_test

import (
	"sync"
	"testing"
	"time"

	"battlegogo/backend/internal/models"

	"github.com/stretchr/testify/require"
)

// MockClient is a test double for hub.Client backed by a buffered channel.
type MockClient struct {
	connID      string
	principalID string
	send        chan models.Envelope

	mu     sync.Mutex
	closed bool
}

func newMockClient(connID string) *MockClient {
	return newMockClientWithBuffer(connID, "principal-"+connID, 16)
}

func newMockClientWithBuffer(connID, principalID string, buffer int) *MockClient {
	return &MockClient{
		connID:      connID,
		principalID: principalID,
		send:        make(chan models.Envelope, buffer),
	}
}

func (c *MockClient) GetConnectionID() string                { return c.connID }
func (c *MockClient) GetPrincipalID() string                 { return c.principalID }
func (c *MockClient) GetSendChannel() chan<- models.Envelope { return c.send }
func (c *MockClient) Run()                                   {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// next returns the next delivered event or fails after a second.
func (c *MockClient) next(t *testing.T) models.Envelope {
	t.Helper()
	select {
	case env, ok := <-c.send:
		require.True(t, ok, "client %s was closed", c.connID)
		return env
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.connID)
		return models.Envelope{}
	}
}

// expect skips nothing: the next event must have the given type.
func (c *MockClient) expect(t *testing.T, eventType string) models.Envelope {
	t.Helper()
	env := c.next(t)
	require.Equal(t, eventType, env.Type, "client %s", c.connID)
	return env
}

// quiet asserts nothing arrives for a short while.
func (c *MockClient) quiet(t *testing.T) {
	t.Helper()
	select {
	case env, ok := <-c.send:
		if ok {
			t.Fatalf("client %s got unexpected %s", c.connID, env.Type)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

// drain discards everything buffered so far.
func (c *MockClient) drain() {
	for {
		select {
		case _, ok := <-c.send:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
