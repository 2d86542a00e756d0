package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/verta/pkg/models"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollBudget   = 300 * time.Second
)

// ActivationState is the poller's view of a remote file.
type ActivationState string

const (
	StateSubmitted ActivationState = "SUBMITTED"
	StateChecking  ActivationState = "CHECKING"
	StateActive    ActivationState = "ACTIVE"
	StateFailed    ActivationState = "FAILED"
	StateTimedOut  ActivationState = "TIMED_OUT"
)

// Poller waits for an uploaded file to become usable on the remote service.
// A Poller holds no per-request state and may be shared; each AwaitActive call
// runs its own state machine.
type Poller struct {
	media    models.MediaService
	clock    Clock
	interval time.Duration
	budget   time.Duration
	logger   *slog.Logger
}

// NewPoller creates a Poller. Non-positive interval or budget fall back to the defaults.
func NewPoller(media models.MediaService, clock Clock, interval, budget time.Duration, logger *slog.Logger) *Poller {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if budget <= 0 {
		budget = DefaultPollBudget
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{media: media, clock: clock, interval: interval, budget: budget, logger: logger}
}

// AwaitActive checks the remote status every interval until it is ACTIVE or FAILED,
// or until the next check would fall outside the budget (TIMED_OUT).
// Lookup errors never end the wait. A non-nil error means ctx was cancelled.
func (p *Poller) AwaitActive(ctx context.Context, handle models.RemoteFileHandle) (ActivationState, error) {
	start := p.clock.Now()
	state := StateSubmitted

	for check := 1; ; check++ {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		state = StateChecking

		status, err := p.media.Status(ctx, handle)
		switch {
		case err != nil:
			level := slog.LevelWarn
			if errors.Is(err, models.ErrFileNotFound) {
				level = slog.LevelDebug
			}
			p.logger.Log(ctx, level, "remote status lookup failed, will retry",
				"file", handle.Name, "check", check, "error", err)
		case status == models.RemoteStatusActive:
			p.logger.Debug("remote file active", "file", handle.Name, "check", check)
			return StateActive, nil
		case status == models.RemoteStatusFailed:
			p.logger.Warn("remote file processing failed", "file", handle.Name, "check", check)
			return StateFailed, nil
		default:
			p.logger.Debug("remote file still processing", "file", handle.Name, "check", check, "status", status)
		}

		if p.clock.Now().Sub(start)+p.interval >= p.budget {
			p.logger.Warn("remote file activation timed out",
				"file", handle.Name, "checks", check, "budget", p.budget)
			return StateTimedOut, nil
		}
		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			return state, err
		}
	}
}
