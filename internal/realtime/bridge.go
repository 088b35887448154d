package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"alertautec-backend/internal/database/models"
	"alertautec-backend/internal/logger"
	"alertautec-backend/internal/service"
)

const eventsChannel = "alertautec:events"

// busEvent is the envelope exchanged between instances over redis
type busEvent struct {
	Origin  string              `json:"origin"`
	Roles   []models.Role       `json:"roles,omitempty"`
	UserID  string              `json:"userId,omitempty"`
	Message service.PushMessage `json:"message"`
}

// Bridge relays push messages between service instances over redis
// pub/sub so that each instance can reach clients connected elsewhere.
type Bridge struct {
	id     string
	rdb    *redis.Client
	hub    *Hub
	logger *logger.Logger
	cancel context.CancelFunc
}

// NewBridge connects a bridge to redis and starts relaying events into
// the hub
func NewBridge(addr, password string, hub *Hub, log *logger.Logger) (*Bridge, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := rdb.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, err
	}

	b := &Bridge{
		id:     uuid.New().String(),
		rdb:    rdb,
		hub:    hub,
		logger: log,
		cancel: cancel,
	}
	hub.SetBridge(b)

	go b.listen(ctx)
	return b, nil
}

// Close stops the relay and releases the redis connection
func (b *Bridge) Close() error {
	b.cancel()
	return b.rdb.Close()
}

func (b *Bridge) listen(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, eventsChannel)
	defer sub.Close()

	for msg := range sub.Channel() {
		var event busEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			b.logger.WithError(err).Warn("Dropping malformed bus event")
			continue
		}
		// Events published by this instance were already delivered locally
		if event.Origin == b.id {
			continue
		}

		if event.UserID != "" {
			b.hub.deliverToUser(event.UserID, event.Message)
		} else if len(event.Roles) > 0 {
			b.hub.deliverToRoles(event.Roles, event.Message)
		}
	}
}

func (b *Bridge) publishToRoles(roles []models.Role, msg service.PushMessage) {
	b.publish(busEvent{Origin: b.id, Roles: roles, Message: msg})
}

func (b *Bridge) publishToUser(userID string, msg service.PushMessage) {
	b.publish(busEvent{Origin: b.id, UserID: userID, Message: msg})
}

func (b *Bridge) publish(event busEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.WithError(err).Error("Failed to marshal bus event")
		return
	}
	if err := b.rdb.Publish(context.Background(), eventsChannel, data).Err(); err != nil {
		b.logger.WithError(err).Warn("Failed to publish bus event")
	}
}
