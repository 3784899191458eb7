// Package notify forwards case and objective status changes to Redis pub/sub
// so other processes can follow a running session.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nathoo/casefile/types"
)

// Message is the JSON payload published for each status change.
type Message struct {
	Session   string `json:"session"`
	Type      string `json:"type"`
	Case      string `json:"case"`
	Objective string `json:"objective,omitempty"`
	Old       string `json:"old"`
	New       string `json:"new"`
	Pass      int    `json:"pass"`
}

// NewMessage converts an engine event to its wire form.
func NewMessage(session uuid.UUID, ev types.Event) Message {
	m := Message{
		Session: session.String(),
		Type:    string(ev.Type),
		Case:    ev.CaseID,
		Pass:    ev.Pass,
	}
	if ev.Type == types.EventObjectiveStatusChanged {
		m.Objective = ev.ObjectiveID
		m.Old = ev.OldObjective.String()
		m.New = ev.NewObjective.String()
	} else {
		m.Old = ev.OldCase.String()
		m.New = ev.NewCase.String()
	}
	return m
}

// RedisPublisher is an events.Observer that publishes every notification to
// a Redis channel. Publish failures are logged and dropped.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	session uuid.UUID
	timeout time.Duration
	logger  *slog.Logger
}

// NewRedisPublisher wraps an existing client.
func NewRedisPublisher(client *redis.Client, channel string, session uuid.UUID, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		session: session,
		timeout: 2 * time.Second,
		logger:  logger.With("channel", channel),
	}
}

// Dial parses a redis:// URL, checks the server answers, and returns a
// publisher that owns the client.
func Dial(ctx context.Context, redisURL, channel string, session uuid.UUID, logger *slog.Logger) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisPublisher(client, channel, session, logger), nil
}

func (p *RedisPublisher) OnCaseStatusChanged(ev types.Event) {
	p.publish(ev)
}

func (p *RedisPublisher) OnObjectiveStatusChanged(ev types.Event) {
	p.publish(ev)
}

func (p *RedisPublisher) publish(ev types.Event) {
	payload, err := json.Marshal(NewMessage(p.session, ev))
	if err != nil {
		p.logger.Error("encoding status event", "case", ev.CaseID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Error("redis publish failed", "case", ev.CaseID, "type", ev.Type, "error", err)
		return
	}
	p.logger.Debug("published status event", "case", ev.CaseID, "type", ev.Type)
}

// Close releases the Redis client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
