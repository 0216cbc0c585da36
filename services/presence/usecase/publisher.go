package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/logger"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/presence"
)

// Publisher samples the device position on an interval and pushes each
// sample through the coordination session. Sampling failures are logged and
// the timer keeps running; only a missing location permission stops the
// publisher from starting at all.
type Publisher struct {
	cfg       models.LocationConfig
	geo       presence.GeoProvider
	sender    presence.Sender
	repo      presence.PresenceRepo
	subjectID string

	mu       sync.Mutex
	starting bool
	cancel   context.CancelFunc
}

// NewPublisher creates a location publisher for the subject. repo may be nil
// when no local position cache is wanted.
func NewPublisher(cfg models.LocationConfig, subjectID string, geo presence.GeoProvider, sender presence.Sender, repo presence.PresenceRepo) *Publisher {
	return &Publisher{
		cfg:       cfg,
		geo:       geo,
		sender:    sender,
		repo:      repo,
		subjectID: subjectID,
	}
}

// Start confirms the location permission and begins sampling. The first
// sample is taken immediately so the subject is visible without waiting a
// full interval. A denied permission fails Start outright; there is no
// retry loop to nag the user with.
func (p *Publisher) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = p.cfg.PublishInterval
	}

	// The start slot is claimed before the permission check; at most one
	// caller may be between claiming it and recording the cancel func.
	p.mu.Lock()
	if p.starting || p.cancel != nil {
		p.mu.Unlock()
		return nil
	}
	p.starting = true
	p.mu.Unlock()

	if err := p.geo.CheckPermission(ctx); err != nil {
		p.mu.Lock()
		p.starting = false
		p.mu.Unlock()
		return fmt.Errorf("location permission check failed: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.starting = false
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(runCtx, interval)

	logger.Info("Location publisher started",
		logger.String("subject_id", p.subjectID),
		logger.Duration("interval", interval))
	return nil
}

// Stop cancels the sampling loop. An in-flight sample may still complete but
// its result is discarded.
func (p *Publisher) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		logger.Info("Location publisher stopped",
			logger.String("subject_id", p.subjectID))
	}
}

func (p *Publisher) run(ctx context.Context, interval time.Duration) {
	p.sample(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.sample(ctx)
		}
	}
}

// sample acquires one position fix and publishes it. Failures are non-fatal:
// the next tick tries again with fresher state.
func (p *Publisher) sample(ctx context.Context) {
	pos, err := p.geo.CurrentPosition(ctx)
	if err != nil {
		logger.Warn("Failed to acquire position",
			logger.String("subject_id", p.subjectID),
			logger.Err(err))
		return
	}

	// Stop was requested while the fix was in flight; discard the result.
	if ctx.Err() != nil {
		return
	}

	pos.SubjectID = p.subjectID
	if pos.CapturedAt.IsZero() {
		pos.CapturedAt = models.Now()
	}

	env, err := models.NewEnvelope(constants.TypeLocationUpdate, pos)
	if err != nil {
		logger.Warn("Failed to encode location update",
			logger.String("subject_id", p.subjectID),
			logger.Err(err))
		return
	}
	if err := p.sender.Send(env); err != nil {
		logger.Warn("Failed to send location update",
			logger.String("subject_id", p.subjectID),
			logger.Err(err))
	}

	if p.repo != nil {
		if err := p.repo.UpsertPosition(ctx, *pos); err != nil {
			logger.Warn("Failed to cache position",
				logger.String("subject_id", p.subjectID),
				logger.Err(err))
		}
	}
}
