package network_notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/sirupsen/logrus"
)

const (
	acmPrefix = "wlan_notification_acm_"

	QueueSize = 8
)

type State int

const (
	StateIdle State = iota
	StateRegistered
	StateReceived
	StateTimedOut
	StateCancelled
	StateUnregistered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRegistered:
		return "registered"
	case StateReceived:
		return "received"
	case StateTimedOut:
		return "timed_out"
	case StateCancelled:
		return "cancelled"
	case StateUnregistered:
		return "unregistered"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Normalize returns the fully qualified acm notification name.
func Normalize(event string) string {
	if strings.HasPrefix(event, acmPrefix) {
		return event
	}
	return acmPrefix + event
}

type Option func(*Waiter)

// WithDropHook is called for every delivery that did not fit the queue.
func WithDropHook(f func()) Option {
	return func(w *Waiter) {
		w.onDrop = f
	}
}

/* Waiter blocks a caller until one named notification is
 * delivered by the platform, a timeout passes, or the wait
 * is cancelled.
 *
 * Usage:
 *  w := NewWaiter(platform, "scan_complete", logger)
 *  if err := w.Start(); err != nil { ... }
 *  session.Scan(iface)
 *  ok := w.Wait(10 * time.Second)
 */
type Waiter struct {
	source winwifi.Notifier
	target string
	logger logrus.FieldLogger
	onDrop func()

	queue chan winwifi.NotificationToken

	mu      sync.Mutex
	state   State
	outcome State
	handle  winwifi.NotificationHandle
	active  bool
	cancel  chan struct{}
	done    chan struct{}
}

func NewWaiter(source winwifi.Notifier, event string, logger logrus.FieldLogger, opts ...Option) *Waiter {
	w := &Waiter{
		source:  source,
		target:  Normalize(event),
		logger:  logger.WithField("notification", Normalize(event)),
		queue:   make(chan winwifi.NotificationToken, QueueSize),
		state:   StateIdle,
		outcome: StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Waiter) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Outcome is the terminal state of the last wait: received, timed out or
// cancelled. It is idle until a wait has finished.
func (w *Waiter) Outcome() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outcome
}

// Start registers the callback and starts the worker. It must be called
// before the action that triggers the notification.
func (w *Waiter) Start() error {
	w.mu.Lock()
	if w.active {
		cancel, done := w.cancel, w.done
		w.mu.Unlock()
		w.logger.Warn("Notification object already exists, unregistering it")
		w.stop(cancel, StateCancelled)
		<-done
		w.mu.Lock()
	}
	defer w.mu.Unlock()

	// Leftovers from a previous registration must not satisfy this one.
	w.drain()

	h, err := w.source.RegisterNotification(w.deliver)
	if err != nil {
		return fmt.Errorf("registering for %s: %w", w.target, err)
	}

	w.handle = h
	w.active = true
	w.state = StateRegistered
	w.outcome = StateIdle
	w.cancel = make(chan struct{})
	w.done = make(chan struct{})

	go w.run(w.cancel, w.done)
	return nil
}

// Wait joins the worker. A timeout of zero waits forever. When the timeout
// passes the wait is cancelled and the worker is still joined, so the
// platform registration is gone by the time Wait returns.
func (w *Waiter) Wait(timeout time.Duration) bool {
	w.mu.Lock()
	if !w.active && w.done == nil {
		w.mu.Unlock()
		return false
	}
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		select {
		case <-done:
		case <-timer.C:
			w.stop(cancel, StateTimedOut)
		}
		timer.Stop()
	}
	<-done

	return w.Outcome() == StateReceived
}

// WaitFor registers and waits in one go. The context cancels the wait.
func (w *Waiter) WaitFor(ctx context.Context, timeout time.Duration) bool {
	if err := w.Start(); err != nil {
		w.logger.WithError(err).Error("Could not register for notification")
		return false
	}

	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.stop(cancel, StateCancelled)
		case <-done:
		}
	}()

	return w.Wait(timeout)
}

// Cancel asks the worker to give up. Safe to call at any time.
func (w *Waiter) Cancel() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel != nil {
		w.stop(cancel, StateCancelled)
	}
}

// stop records why the wait ends unless the worker already decided.
func (w *Waiter) stop(cancel chan struct{}, reason State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if cancel != w.cancel || !w.active {
		return
	}
	select {
	case <-cancel:
		return
	default:
	}
	if w.outcome == StateIdle {
		w.outcome = reason
	}
	close(cancel)
}

// deliver runs on the platform's notification thread and never blocks it.
func (w *Waiter) deliver(tok winwifi.NotificationToken) {
	select {
	case w.queue <- tok:
	default:
		w.logger.WithField("dropped", tok.String()).Debug("notification queue full")
		if w.onDrop != nil {
			w.onDrop()
		}
	}
}

func (w *Waiter) run(cancel, done chan struct{}) {
	defer close(done)
	defer w.unregister()
	defer func() {
		if r := recover(); r != nil {
			w.logger.WithField("panic", r).Error("notification worker failed")
			w.finish(StateCancelled)
		}
	}()

	for {
		select {
		case <-cancel:
			return
		case tok := <-w.queue:
			if Normalize(tok.String()) == w.target {
				w.logger.WithField("interface", tok.InterfaceID).Debug("notification received")
				w.finish(StateReceived)
				return
			}
			w.logger.WithField("got", tok.String()).Debug("ignoring notification")
		}
	}
}

func (w *Waiter) finish(outcome State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.outcome == StateIdle {
		w.outcome = outcome
	}
	w.state = w.outcome
}

func (w *Waiter) unregister() {
	w.mu.Lock()
	h := w.handle
	if w.outcome != StateIdle {
		w.state = w.outcome
	}
	w.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			w.logger.WithField("panic", r).Error("platform failed while unregistering notification callback")
		}
		w.mu.Lock()
		w.active = false
		w.handle = 0
		w.state = StateUnregistered
		w.mu.Unlock()
	}()

	if err := w.source.UnregisterNotification(h); err != nil {
		w.logger.WithError(err).Error("Could not unregister notification callback")
	}
}

func (w *Waiter) drain() {
	for {
		select {
		case <-w.queue:
		default:
			return
		}
	}
}
