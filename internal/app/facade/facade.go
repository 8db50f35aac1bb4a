// Package facade simulates the network boundary between the editor UI
// and a future real backend: every store operation is delayed by a
// fixed per-operation amount and logged as the HTTP call it stands in
// for. Errors propagate unchanged; there are no retries and no
// timeouts beyond the caller's context.
package facade

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cardpress/internal/app/ai"
	"cardpress/internal/app/model"
	"cardpress/internal/app/service"
	infraprometheus "cardpress/internal/infra/prometheus"
)

// Per-operation latency profile of the simulated network.
const (
	delayList         = 600 * time.Millisecond
	delayCreate       = 400 * time.Millisecond
	delayUpdate       = 400 * time.Millisecond
	delayDelete       = 400 * time.Millisecond
	delayReorder      = 200 * time.Millisecond
	delayShare        = 300 * time.Millisecond
	delayResolve      = 500 * time.Millisecond
	delayUploadTarget = 300 * time.Millisecond
	delayUpload       = 500 * time.Millisecond
)

// Options configures the simulated boundary shared by all decorators.
type Options struct {
	Logger *zap.Logger
	// Delay switches the artificial latency on. Logging and metrics
	// stay active either way.
	Delay bool
}

// call logs the simulated request, bumps the op counter, then sleeps
// for the operation's fixed delay (context-aware).
func (o Options) call(ctx context.Context, op, method, path string, d time.Duration) error {
	if o.Logger != nil {
		o.Logger.Info(fmt.Sprintf("FETCH: %s %s", method, path),
			zap.String("op", op),
			zap.Duration("simulated_latency", d),
		)
	}
	infraprometheus.SimulatedCalls.WithLabelValues(op).Inc()

	if !o.Delay || d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Cards decorates a CardService with the simulated boundary.
type Cards struct {
	next service.CardService
	opts Options
}

// NewCards wraps next.
func NewCards(next service.CardService, opts Options) *Cards {
	return &Cards{next: next, opts: opts}
}

func (f *Cards) ListCards(ctx context.Context) ([]model.Card, error) {
	if err := f.opts.call(ctx, "list_cards", "GET", "/api/cards", delayList); err != nil {
		return nil, err
	}
	return f.next.ListCards(ctx)
}

func (f *Cards) CreateCard(ctx context.Context, card model.Card) (*model.Card, error) {
	if err := f.opts.call(ctx, "create_card", "POST", "/api/cards", delayCreate); err != nil {
		return nil, err
	}
	return f.next.CreateCard(ctx, card)
}

func (f *Cards) UpdateCard(ctx context.Context, id string, card model.Card) (*model.Card, error) {
	if err := f.opts.call(ctx, "update_card", "PUT", "/api/cards/"+id, delayUpdate); err != nil {
		return nil, err
	}
	return f.next.UpdateCard(ctx, id, card)
}

func (f *Cards) DeleteCard(ctx context.Context, id string) error {
	if err := f.opts.call(ctx, "delete_card", "DELETE", "/api/cards/"+id, delayDelete); err != nil {
		return err
	}
	return f.next.DeleteCard(ctx, id)
}

func (f *Cards) ReorderCards(ctx context.Context, orderedIDs []string) error {
	if err := f.opts.call(ctx, "reorder_cards", "POST", "/api/cards/order", delayReorder); err != nil {
		return err
	}
	return f.next.ReorderCards(ctx, orderedIDs)
}

// Share decorates a ShareService with the simulated boundary.
type Share struct {
	next service.ShareService
	opts Options
}

// NewShare wraps next.
func NewShare(next service.ShareService, opts Options) *Share {
	return &Share{next: next, opts: opts}
}

func (f *Share) Share(ctx context.Context, cardID string) (string, error) {
	if err := f.opts.call(ctx, "share_card", "POST", "/api/cards/"+cardID+"/share", delayShare); err != nil {
		return "", err
	}
	return f.next.Share(ctx, cardID)
}

func (f *Share) Resolve(ctx context.Context, slug string) (*model.Card, error) {
	if err := f.opts.call(ctx, "resolve_slug", "GET", "/api/c/"+slug, delayResolve); err != nil {
		return nil, err
	}
	return f.next.Resolve(ctx, slug)
}

// Uploads decorates an UploadService with the simulated boundary.
type Uploads struct {
	next service.UploadService
	opts Options
}

// NewUploads wraps next.
func NewUploads(next service.UploadService, opts Options) *Uploads {
	return &Uploads{next: next, opts: opts}
}

func (f *Uploads) RequestUploadTarget(ctx context.Context, filename string) (*service.UploadTarget, error) {
	if err := f.opts.call(ctx, "request_upload_target", "GET", "/api/upload-url", delayUploadTarget); err != nil {
		return nil, err
	}
	return f.next.RequestUploadTarget(ctx, filename)
}

func (f *Uploads) Upload(ctx context.Context, key, token string, data []byte) error {
	if err := f.opts.call(ctx, "upload", "PUT", "/upload/"+key, delayUpload); err != nil {
		return err
	}
	return f.next.Upload(ctx, key, token, data)
}

// Suggestions decorates a Suggester. The upstream call carries its own
// latency, so no artificial delay is added here; the call is still
// logged and counted.
type Suggestions struct {
	next ai.Suggester
	opts Options
}

// NewSuggestions wraps next.
func NewSuggestions(next ai.Suggester, opts Options) *Suggestions {
	return &Suggestions{next: next, opts: opts}
}

func (f *Suggestions) Suggest(ctx context.Context, field string, card model.Card) ([]string, error) {
	if err := f.opts.call(ctx, "suggest", "POST", "/api/suggestions/"+field, 0); err != nil {
		return nil, err
	}
	return f.next.Suggest(ctx, field, card)
}

var (
	_ service.CardService   = (*Cards)(nil)
	_ service.ShareService  = (*Share)(nil)
	_ service.UploadService = (*Uploads)(nil)
	_ ai.Suggester          = (*Suggestions)(nil)
)
