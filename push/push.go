// Copyright (c) 2025 Jockie-stack.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package push

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/Jockie-stack/CVL-app/cliparse"
)

// Wire payload limits
const (
	MaxTitleLen = 60
	MaxBodyLen  = 180
	MaxURLLen   = 300
	MaxTagLen   = 60
)

// TTL hint passed to the push relay, in seconds. Not a local wait bound.
const relayTTL = 3600

var (
	ErrEmptyTitle   = errors.New("notification title is required")
	ErrFieldTooLong = errors.New("notification field exceeds its limit")
)

// Payload is the wire contract delivered to every subscription.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Tag   string `json:"tag"`
	TS    string `json:"ts"`
}

// Validate enforces the payload field limits.
func (p Payload) Validate() error {
	if p.Title == "" {
		return ErrEmptyTitle
	}
	if len([]rune(p.Title)) > MaxTitleLen ||
		len([]rune(p.Body)) > MaxBodyLen ||
		len([]rune(p.URL)) > MaxURLLen ||
		len([]rune(p.Tag)) > MaxTagLen {
		return ErrFieldTooLong
	}
	return nil
}

// Result aggregates a fan-out: delivery failures are counted, never raised.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Dispatcher fans notifications out to every stored push subscription.
// It is the optional push capability, resolved once at startup: New
// returns nil when VAPID credentials are incomplete, and callers translate
// a nil dispatcher into a 501 instead of a fake success.
type Dispatcher struct {
	db      *sql.DB
	subject string
	public  string
	private string
}

// Stubbed in tests; delivery otherwise goes through webpush-go.
var sendNotification = webpush.SendNotification

// New resolves the push capability from configuration.
// Returns nil when the credential set is incomplete.
func New(db *sql.DB, cfg cliparse.Config) *Dispatcher {
	if !cfg.PushConfigured() {
		return nil
	}
	return &Dispatcher{
		db:      db,
		subject: cfg.VAPIDSubject,
		public:  cfg.VAPIDPublicKey,
		private: cfg.VAPIDPrivateKey,
	}
}

// PublicKey returns the VAPID public key clients subscribe with.
func (d *Dispatcher) PublicKey() string {
	return d.public
}

// Dispatch delivers the payload to the subscription set gathered at call
// time. Deliveries run concurrently and independently: one endpoint's
// failure never aborts the others. Endpoints answering 404/410 are pruned
// (best-effort; a failed delete is swallowed). The returned error covers
// only the initial subscription query.
func (d *Dispatcher) Dispatch(p Payload) (Result, error) {
	if p.TS == "" {
		p.TS = time.Now().UTC().Format(time.RFC3339)
	}

	message, err := json.Marshal(p)
	if err != nil {
		return Result{}, err
	}

	rows, err := d.db.Query(`SELECT endpoint, payload FROM push_subscription`)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	type target struct {
		endpoint string
		payload  string
	}
	var targets []target
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.endpoint, &t.payload); err != nil {
			return Result{}, err
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return Result{}, err
	}

	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)

	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()

			ok := d.deliver(message, t.endpoint, t.payload)

			mu.Lock()
			if ok {
				result.Sent++
			} else {
				result.Failed++
			}
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	slog.Info("push dispatch complete", "sent", result.Sent, "failed", result.Failed, "tag", p.Tag)
	return result, nil
}

// deliver sends one notification and reports success. Gone endpoints are
// removed from storage.
func (d *Dispatcher) deliver(message []byte, endpoint, stored string) bool {
	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(stored), &sub); err != nil {
		slog.Warn("push subscription payload unreadable", "error", err)
		return false
	}

	resp, err := sendNotification(message, &sub, &webpush.Options{
		Subscriber:      d.subject,
		VAPIDPublicKey:  d.public,
		VAPIDPrivateKey: d.private,
		TTL:             relayTTL,
	})
	if err != nil {
		slog.Warn("push delivery failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		// Endpoint is permanently gone: prune, swallow delete failures
		if _, err := d.db.Exec(`DELETE FROM push_subscription WHERE endpoint = $1`, endpoint); err != nil {
			slog.Warn("failed to prune dead subscription", "error", err)
		}
		slog.Info("pruned dead push subscription", "status", resp.StatusCode)
		return false
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true
	default:
		slog.Warn("unexpected push relay status", "status", resp.StatusCode)
		return false
	}
}
