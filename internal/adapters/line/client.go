// internal/adapters/line/client.go
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"baanmae/internal/adapters/observability"
)

const defaultBase = "https://api.line.me"

var (
	ErrUnauthorized = errors.New("line: unauthorized")
	ErrForbidden    = errors.New("line: forbidden")
)

// Client pushes text messages through the LINE Messaging API. Delivery
// is best-effort: there is no retry here, callers decide what a
// failure means (for lead notifications, nothing).
type Client struct {
	base  string
	hc    *http.Client
	token string
	to    string
	rl    *rate.Limiter
}

func New(base, channelToken, recipientID string, rps int) (*Client, error) {
	if channelToken == "" {
		return nil, fmt.Errorf("channel token is required")
	}
	if recipientID == "" {
		return nil, fmt.Errorf("recipient id is required")
	}
	if base == "" {
		base = defaultBase
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:  strings.TrimSuffix(base, "/"),
		hc:    &http.Client{Timeout: 10 * time.Second},
		token: channelToken,
		to:    recipientID,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// Disabled stands in when no channel token is configured; every push
// is dropped.
type Disabled struct{}

func (Disabled) Push(context.Context, string) error { return nil }

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Push sends one text message to the configured recipient.
func (c *Client) Push(ctx context.Context, text string) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(pushRequest{
		To:       c.to,
		Messages: []textMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v2/bot/message/push", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "baanmae/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("line", "push", 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("line", "push", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		io.Copy(io.Discard, resp.Body)
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		// small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("line push status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
