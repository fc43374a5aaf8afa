package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sepsiswatch/sepsiswatch/internal/domain/alert"
)

// AlertMessage is the structured payload published on the alert channels.
type AlertMessage struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	AlertType string    `json:"alert_type"`
	Severity  int       `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

// Broadcaster publishes alerts to redis pub/sub. The connection is
// established lazily on first use and re-attempted on the next publish
// after a failure.
type Broadcaster struct {
	redisURL string
	logger   zerolog.Logger

	mu     sync.Mutex
	client *redis.Client
}

func NewBroadcaster(redisURL string, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{redisURL: redisURL, logger: logger}
}

func (b *Broadcaster) connect(ctx context.Context) (*redis.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client != nil {
		return b.client, nil
	}
	opts, err := redis.ParseURL(b.redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	b.client = client
	b.logger.Info().Msg("connected to redis for alert broadcast")
	return client, nil
}

// drop forgets a client that produced an error so the next publish
// reconnects from scratch.
func (b *Broadcaster) drop(client *redis.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == client {
		b.client.Close()
		b.client = nil
	}
}

// Publish sends the alert to its severity channel, its patient channel,
// and the global channel. It reports success only if all three publishes
// succeed; any failure is logged and surfaces as false, never an error
// to the caller's pipeline.
func (b *Broadcaster) Publish(ctx context.Context, a *alert.Alert) bool {
	client, err := b.connect(ctx)
	if err != nil {
		b.logger.Error().Err(err).Str("alert_id", a.ID.String()).Msg("cannot publish alert")
		return false
	}

	payload, err := json.Marshal(AlertMessage{
		ID:        a.ID.String(),
		PatientID: a.PatientID.String(),
		AlertType: a.AlertType,
		Severity:  a.Severity,
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
		Status:    a.Status,
	})
	if err != nil {
		b.logger.Error().Err(err).Str("alert_id", a.ID.String()).Msg("cannot encode alert")
		return false
	}

	channels := []string{
		fmt.Sprintf("alerts:severity:%d", a.Severity),
		fmt.Sprintf("alerts:patient:%s", a.PatientID),
		"alerts:all",
	}
	for _, channel := range channels {
		if err := client.Publish(ctx, channel, payload).Err(); err != nil {
			b.logger.Error().Err(err).Str("channel", channel).Str("alert_id", a.ID.String()).
				Msg("failed to publish alert")
			b.drop(client)
			return false
		}
	}

	b.logger.Info().Str("alert_id", a.ID.String()).Msg("published alert")
	return true
}

// Ping verifies the redis connection, establishing it first if needed.
// A failed ping drops the cached client so the next use reconnects.
func (b *Broadcaster) Ping(ctx context.Context) error {
	client, err := b.connect(ctx)
	if err != nil {
		return err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		b.drop(client)
		return err
	}
	return nil
}

// Close releases the redis connection if one was established.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}
