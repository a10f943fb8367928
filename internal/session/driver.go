package session

import (
	"context"
	"time"
)

// Driver supplies the timer and snake cadence for sessions that have no UI
// loop of their own (web and MCP sessions). Tickers run only while the
// session is active and are recreated whenever its epoch changes, so ticks
// scheduled before a pause or restart never reach the session.
type Driver struct {
	sess       *Session
	timerEvery time.Duration
	snakeEvery time.Duration
	wake       chan struct{}
}

// NewDriver creates a driver. Zero intervals default to 1s and 2s.
func NewDriver(sess *Session, timerEvery, snakeEvery time.Duration) *Driver {
	if timerEvery <= 0 {
		timerEvery = time.Second
	}
	if snakeEvery <= 0 {
		snakeEvery = 2 * time.Second
	}
	return &Driver{
		sess:       sess,
		timerEvery: timerEvery,
		snakeEvery: snakeEvery,
		wake:       make(chan struct{}, 1),
	}
}

// Run drives the session until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	cancel := d.sess.Observe(func(Snapshot) {
		select {
		case d.wake <- struct{}{}:
		default:
		}
	})
	defer cancel()

	var (
		timer, snake   *time.Ticker
		timerC, snakeC <-chan time.Time
		epoch          uint64
		running        bool
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
		if snake != nil {
			snake.Stop()
			snake, snakeC = nil, nil
		}
		running = false
	}
	defer stop()

	reconcile := func() {
		snap := d.sess.Snapshot()
		if !snap.Ticking() {
			stop()
			return
		}
		if running && snap.Epoch == epoch {
			return
		}
		stop()
		timer = time.NewTicker(d.timerEvery)
		timerC = timer.C
		if snap.Def != nil && snap.Def.RoamingSnakes {
			snake = time.NewTicker(d.snakeEvery)
			snakeC = snake.C
		}
		epoch = snap.Epoch
		running = true
	}

	reconcile()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.wake:
			reconcile()
		case <-timerC:
			if d.current(epoch) {
				d.sess.Tick()
			}
		case <-snakeC:
			if d.current(epoch) {
				d.sess.SnakeTick()
			}
		}
	}
}

// current reports whether a tick from the tickers of epoch may still reach
// the session. select may deliver such a tick before the pending wake that
// retires its ticker.
func (d *Driver) current(epoch uint64) bool {
	if d.sess.Snapshot().Epoch == epoch {
		return true
	}
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return false
}
