package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Alert is a threshold-breach notification pushed to the configured channels.
type Alert struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// WebhookConfig lists the delivery channels. A channel with an empty URL is
// disabled.
type WebhookConfig struct {
	SlackURL      string
	SlackChannel  string
	SlackUsername string
	DiscordURL    string
	TeamsURL      string
	CustomURLs    []string
}

// Notifier delivers alerts to webhook and email channels concurrently.
// Delivery is best-effort: failures are logged and never surfaced.
type Notifier struct {
	cfg    WebhookConfig
	email  *EmailNotifier
	client *http.Client
}

func NewNotifier(cfg WebhookConfig, email *EmailNotifier) *Notifier {
	return &Notifier{
		cfg:    cfg,
		email:  email,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Send fans the alert out to every enabled channel. It blocks until all
// deliveries finish or fail, but never returns an error.
func (n *Notifier) Send(ctx context.Context, a Alert) {
	// No WithContext here: one channel failing must not cancel the others.
	var g errgroup.Group

	if n.cfg.SlackURL != "" {
		g.Go(func() error {
			return n.post(ctx, n.cfg.SlackURL, map[string]any{
				"text":     a.Title + "\n" + a.Message,
				"channel":  n.cfg.SlackChannel,
				"username": n.cfg.SlackUsername,
			})
		})
	}
	if n.cfg.DiscordURL != "" {
		g.Go(func() error {
			return n.post(ctx, n.cfg.DiscordURL, map[string]any{
				"content": a.Title + "\n" + a.Message,
			})
		})
	}
	if n.cfg.TeamsURL != "" {
		g.Go(func() error {
			return n.post(ctx, n.cfg.TeamsURL, map[string]any{
				"title": a.Title,
				"text":  a.Message,
			})
		})
	}
	for _, u := range n.cfg.CustomURLs {
		g.Go(func() error {
			return n.post(ctx, u, a)
		})
	}
	if n.email != nil {
		g.Go(func() error {
			return n.email.Send(a.Title, a.Message)
		})
	}

	if err := g.Wait(); err != nil {
		log.Printf("alert delivery failed: %v", err)
	}
}

func (n *Notifier) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
