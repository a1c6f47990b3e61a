package handler

import (
	"context"
	"time"

	"rent_radar/internal/digest"
	"rent_radar/internal/domain/entity"
	"rent_radar/internal/worker"
)

type Housing interface {
	Profiles() []entity.Profile
	Profile(name string) (entity.Profile, error)
	Run(ctx context.Context, profileName string) (entity.ScoredBatch, error)
	Latest(ctx context.Context, profileName string) (entity.ScoredBatch, error)
}

type Scheduler interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
	NextRun(now time.Time) time.Time
	RunOnce(ctx context.Context) (digest.Digest, error)
	LastRun() *worker.LastRun

	AddProfile(name string)
	RemoveProfile(name string)
	GetProfiles() []string
	ClearProfiles()
	HasProfile(name string) bool
}

type Handler struct {
	// baseCtx переживает отдельный апдейт, на нём крутится расписание
	baseCtx   context.Context //nolint:containedctx
	svc       Housing
	scheduler Scheduler
}

func New(baseCtx context.Context, svc Housing, scheduler Scheduler) *Handler {
	return &Handler{
		baseCtx:   baseCtx,
		svc:       svc,
		scheduler: scheduler,
	}
}
