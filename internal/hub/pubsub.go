package hub

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StartKickListener feeds principal IDs published on the kick channel into
// Kick until ctx ends or msgs closes. msgs is normally (*redis.PubSub).Channel().
func (h *Hub) StartKickListener(ctx context.Context, msgs <-chan *redis.Message) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					h.log.Warn("kick subscription closed")
					return
				}
				if msg.Payload == "" {
					continue
				}
				h.log.Info("kick received", zap.String("channel", msg.Channel), zap.String("principal_id", msg.Payload))
				h.Kick(msg.Payload)
			}
		}
	}()
}
