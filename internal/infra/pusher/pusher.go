package pusher

import (
	"context"
	"fmt"

	pusherhttp "github.com/pusher/pusher-http-go/v5"
)

// Channel and event names shared with the web client.
const (
	EventNewMessage  = "new-message"
	EventMessageRead = "message-read"
	EventTypingStart = "typing-start"
	EventTypingStop  = "typing-stop"
	EventNewMatch    = "new-match"
)

func MatchChannel(matchID int64) string {
	return fmt.Sprintf("private-match-%d", matchID)
}

func UserChannel(userID int64) string {
	return fmt.Sprintf("private-user-%d", userID)
}

func PresenceChannel() string {
	return "presence-online"
}

type Config struct {
	AppID   string
	Key     string
	Secret  string
	Cluster string
}

// Relay fans events out to connected clients. Services depend on this
// interface so tests can capture triggers without a live app.
type Relay interface {
	Trigger(ctx context.Context, channel, event string, data any) error
	AuthorizePrivateChannel(params []byte) ([]byte, error)
}

// NopRelay drops every event. Used when pusher credentials are absent so
// the rest of the app keeps working without realtime delivery.
type NopRelay struct{}

func (NopRelay) Trigger(context.Context, string, string, any) error { return nil }

func (NopRelay) AuthorizePrivateChannel([]byte) ([]byte, error) {
	return nil, fmt.Errorf("realtime relay is not configured")
}

type Client struct {
	inner pusherhttp.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.Key == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("pusher credentials are required")
	}

	return &Client{inner: pusherhttp.Client{
		AppID:   cfg.AppID,
		Key:     cfg.Key,
		Secret:  cfg.Secret,
		Cluster: cfg.Cluster,
	}}, nil
}

func (c *Client) Trigger(ctx context.Context, channel, event string, data any) error {
	if err := c.inner.Trigger(channel, event, data); err != nil {
		return fmt.Errorf("trigger %s on %s: %w", event, channel, err)
	}
	return nil
}

func (c *Client) AuthorizePrivateChannel(params []byte) ([]byte, error) {
	resp, err := c.inner.AuthorizePrivateChannel(params)
	if err != nil {
		return nil, fmt.Errorf("authorize private channel: %w", err)
	}
	return resp, nil
}
