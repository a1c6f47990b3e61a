package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rent_radar/internal/digest"
	"rent_radar/internal/domain/entity"
	"rent_radar/pkg/logx"
)

type Pipeline interface {
	RunAll(ctx context.Context, names ...string) ([]entity.DigestSection, error)
}

type Notifier interface {
	Notify(ctx context.Context, d digest.Digest) error
}

// LastRun описывает последний прогон планировщика.
type LastRun struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Subject    string
	Sections   int
	Considered int
	Err        error
}

type DigestScheduler struct {
	pipeline  Pipeline
	notifiers []Notifier

	hour, minute int
	loc          *time.Location
	now          func() time.Time

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
	runMu      sync.Mutex
	profiles   []string
	lastRun    *LastRun
}

// NewDigestScheduler fires once a day at "HH:MM" in loc.
func NewDigestScheduler(pipeline Pipeline, at string, loc *time.Location, notifiers ...Notifier) (*DigestScheduler, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("parse digest time %q: %w", at, err)
	}

	if loc == nil {
		loc = time.Local
	}

	return &DigestScheduler{
		pipeline:  pipeline,
		notifiers: notifiers,
		hour:      t.Hour(),
		minute:    t.Minute(),
		loc:       loc,
		now:       time.Now,
	}, nil
}

func (w *DigestScheduler) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("scheduler is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("scheduler stopped with error", logx.FieldError, err)
		}
	}()

	return nil
}

func (w *DigestScheduler) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *DigestScheduler) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *DigestScheduler) Run(ctx context.Context) error {
	logger(ctx).Info("digest scheduler started", "next_run", w.NextRun(w.now()))

	for {
		wait := w.NextRun(w.now()).Sub(w.now())

		select {
		case <-ctx.Done():
			logger(ctx).Info("digest scheduler stopped")
			return ctx.Err()
		case <-time.After(wait):
			if _, err := w.RunOnce(ctx); err != nil {
				logger(ctx).Error("digest run failed", logx.FieldError, err)
			}
		}
	}
}

// NextRun returns the first slot strictly after now.
func (w *DigestScheduler) NextRun(now time.Time) time.Time {
	now = now.In(w.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), w.hour, w.minute, 0, 0, w.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce runs the pipeline, renders the digest and hands it to every
// notifier. Nothing is sent when the pipeline fails. Runs never overlap.
func (w *DigestScheduler) RunOnce(ctx context.Context) (digest.Digest, error) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	run := LastRun{StartedAt: w.now()}
	defer func() {
		run.FinishedAt = w.now()
		w.mu.Lock()
		w.lastRun = &run
		w.mu.Unlock()
	}()

	sections, err := w.pipeline.RunAll(ctx, w.GetProfiles()...)
	if err != nil {
		run.Err = err
		return digest.Digest{}, fmt.Errorf("pipeline: %w", err)
	}

	d, err := digest.Build(run.StartedAt.In(w.loc), sections)
	if err != nil {
		run.Err = err
		return digest.Digest{}, err
	}

	run.Subject = d.Subject
	run.Sections = len(sections)
	for _, s := range sections {
		run.Considered += len(s.Batch.Considered)
	}

	var failed int
	for _, n := range w.notifiers {
		if err := n.Notify(ctx, d); err != nil {
			logger(ctx).Error("notifier failed", logx.FieldError, err)
			failed++
		}
	}

	if failed > 0 && failed == len(w.notifiers) {
		run.Err = errors.New("digest was not delivered")
		return d, run.Err
	}

	logger(ctx).Info("digest sent", "subject", d.Subject, "considered", run.Considered)

	return d, nil
}

// LastRun returns nil before the first run.
func (w *DigestScheduler) LastRun() *LastRun {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastRun == nil {
		return nil
	}

	run := *w.lastRun
	return &run
}
