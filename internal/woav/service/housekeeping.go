package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/woavlite/woav/internal/woav/store"
)

// HousekeepingService periodically purges the replay ledger and expired
// signing keys, and rotates keys when a rotation interval is set.
type HousekeepingService struct {
	Store    store.Store
	Keys     *KeyRotationService
	Logger   *slog.Logger
	Interval time.Duration

	// RotationInterval rotates signing keys this often. Zero disables it.
	RotationInterval time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time

	lastRotation time.Time
	stopCh       chan struct{}
	doneCh       chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval means one hour.
func NewHousekeepingService(s store.Store, keys *KeyRotationService, logger *slog.Logger, interval, rotation time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:            s,
		Keys:             keys,
		Logger:           logger,
		Interval:         interval,
		RotationInterval: rotation,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

func (s *HousekeepingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start runs housekeeping in the background, once immediately and then every
// Interval, until Stop.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("key_rotation_interval", s.RotationInterval),
	)
}

// Stop waits for an in-progress pass to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs a single pass. Each step is independent; a failure is
// logged and the rest still run.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	now := s.now()
	ok := 0
	if s.lastRotation.IsZero() {
		s.lastRotation = now
	}

	if s.Store != nil {
		n, err := s.Store.Assertions().DeleteExpiredAssertions(ctx, now)
		if err != nil {
			s.Logger.Error("failed to delete expired assertions", slog.Any("error", err))
		} else {
			s.Logger.Debug("deleted expired assertions", slog.Int64("count", n))
			ok++
		}
	}

	if s.Keys != nil {
		n, err := s.Keys.ForgetExpired(ctx)
		if err != nil {
			s.Logger.Error("failed to drop expired signing keys", slog.Any("error", err))
		} else {
			s.Logger.Debug("dropped expired signing keys", slog.Int("count", n))
			ok++
		}

		if s.RotationInterval > 0 && now.Sub(s.lastRotation) >= s.RotationInterval {
			if _, err := s.Keys.RotateKey(ctx, RotateKeyRequest{RetireExisting: true}); err != nil {
				s.Logger.Error("scheduled key rotation failed", slog.Any("error", err))
			} else {
				s.lastRotation = now
				ok++
			}
		}
	}

	s.Logger.Info("housekeeping pass completed", slog.Int("successful_steps", ok))
}
