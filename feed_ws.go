package mapview

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// FeedClient streams feed frames from a websocket endpoint into a Map.
type FeedClient struct {
	url    string
	m      *Map
	dialer *websocket.Dialer
}

// NewFeedClient creates a client for the given ws:// or wss:// URL.
func NewFeedClient(url string, m *Map) *FeedClient {
	return &FeedClient{url: url, m: m, dialer: websocket.DefaultDialer}
}

// Run dials the endpoint and pumps messages into the map until the
// context is canceled or the connection fails. Frames the map rejects
// are logged and skipped; only transport failures end the loop.
func (c *FeedClient) Run(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("mapview: dial feed %s: %w", c.url, err)
	}
	defer conn.Close()
	Logger().Info("feed connected", "url", c.url)

	// ReadMessage has no context form; closing the connection is the
	// documented way to unblock it on cancel.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("mapview: feed read: %w", err)
		}
		if err := c.m.HandleMessage(raw); err != nil {
			Logger().Warn("feed frame dropped", "err", err)
		}
	}
}
