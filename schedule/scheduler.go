package schedule

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/qri-io/jsondiff"
)

// State is a step in a Scheduler's lifecycle
type State int

const (
	// StateIdle means no pass is pending or running
	StateIdle State = iota
	// StatePending means the debounce timer is running
	StatePending
	// StateDeferred means the pass starts on the next tick
	StateDeferred
	// StateRunning means parse and diff are executing
	StateRunning
	// StateDone means the last pass produced a result
	StateDone
	// StateError means the last pass failed
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateDeferred:
		return "deferred"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Telemetry describes the most recent pass
type Telemetry struct {
	// InputSize is the byte length of the larger input
	InputSize int `json:"inputSize"`
	// ProcessingTimeMs covers parse through diff. zero after a failure
	ProcessingTimeMs float64 `json:"processingTimeMs"`
	IsProcessing     bool    `json:"isProcessing"`
}

// Update is delivered to listeners after every state transition
type Update struct {
	State     State
	Telemetry Telemetry
	Hints     Hints
	// Result is set when State is StateDone
	Result *jsondiff.Result
	// Err is set when State is StateError
	Err error
}

// Runner performs a single parse and diff pass. *jsondiff.Differ is a Runner
type Runner interface {
	Compare(ctx context.Context, base, comparison []byte) (*jsondiff.Result, error)
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, base, comparison []byte) (*jsondiff.Result, error)

// Compare calls f
func (f RunnerFunc) Compare(ctx context.Context, base, comparison []byte) (*jsondiff.Result, error) {
	return f(ctx, base, comparison)
}

// Config configures a Scheduler
type Config struct {
	Clock     Clock
	Policy    Policy
	Logger    *slog.Logger
	Listeners []func(Update)
}

// Option adjusts a Config, zero or more Options can be passed to New
type Option func(cfg *Config)

// OptionClock swaps the clock timers are created on
func OptionClock(c Clock) Option {
	return func(cfg *Config) {
		cfg.Clock = c
	}
}

// OptionPolicy sets size thresholds and delays
func OptionPolicy(p Policy) Option {
	return func(cfg *Config) {
		cfg.Policy = p
	}
}

// OptionLogger sets the logger state transitions are written to
func OptionLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// OptionListener adds a function called with every Update. listeners run on
// the goroutine that caused the transition and must not block for long
func OptionListener(f func(Update)) Option {
	return func(cfg *Config) {
		cfg.Listeners = append(cfg.Listeners, f)
	}
}

// Scheduler decides when to diff one pair of inputs as they are edited.
// Edits are debounced by a delay that grows with input size, and each pass
// is pushed back one tick after the processing state is announced so a
// consumer can show it before the work starts. A pass in progress is never
// interrupted; an edit that arrives meanwhile is picked up when it returns
type Scheduler struct {
	runner    Runner
	clock     Clock
	policy    Policy
	log       *slog.Logger
	listeners []func(Update)

	debounce *Debouncer
	tick     *Deferred

	mu               sync.Mutex
	state            State
	tel              Telemetry
	hints            Hints
	base, comparison []byte
	queued           bool
	stopped          bool
	result           *jsondiff.Result
	err              error

	// updates waiting for delivery, in transition order
	outbox    []Update
	deliverMu sync.Mutex
}

// New creates a Scheduler in StateIdle
func New(runner Runner, opts ...Option) (*Scheduler, error) {
	cfg := &Config{
		Clock:  RealClock{},
		Policy: DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if runner == nil {
		return nil, fmt.Errorf("scheduler requires a runner")
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, err
	}

	return &Scheduler{
		runner:    runner,
		clock:     cfg.Clock,
		policy:    cfg.Policy,
		log:       cfg.Logger,
		listeners: cfg.Listeners,
		debounce:  NewDebouncer(cfg.Clock),
		tick:      NewDeferred(cfg.Clock),
	}, nil
}

// Policy returns the policy the scheduler was built with
func (s *Scheduler) Policy() Policy {
	return s.policy
}

// Edit records new contents for both inputs and (re)starts the debounce
// timer. The slices are copied
func (s *Scheduler) Edit(base, comparison []byte) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	s.base = bytes.Clone(base)
	s.comparison = bytes.Clone(comparison)
	n := len(base)
	if len(comparison) > n {
		n = len(comparison)
	}
	s.tel.InputSize = n
	s.hints = s.policy.Hints(n)

	if s.state == StateRunning {
		s.queued = true
		s.mu.Unlock()
		s.log.Debug("edit queued behind running pass", "inputSize", n)
		return
	}

	s.tick.Cancel()
	s.tel.IsProcessing = false
	s.pendLocked()
	s.mu.Unlock()
	s.deliver()
}

// Stop cancels any pending pass and settles the scheduler in StateIdle
// without notifying listeners. A running pass finishes but its outcome is
// dropped. Edits after Stop are ignored
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.queued = false
	s.debounce.Cancel()
	s.tick.Cancel()
	s.log.Debug("scheduler stopped", "state", s.state)
	if s.state != StateRunning {
		s.settleLocked()
	}
}

// settleLocked returns a stopped scheduler to StateIdle quietly
func (s *Scheduler) settleLocked() {
	s.state = StateIdle
	s.tel.IsProcessing = false
}

// State returns the current state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Telemetry returns a snapshot of the processing telemetry
func (s *Scheduler) Telemetry() Telemetry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tel
}

// Last returns the outcome of the most recent completed pass
func (s *Scheduler) Last() (*jsondiff.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

// pendLocked moves to StatePending and starts the debounce timer
func (s *Scheduler) pendLocked() {
	s.setStateLocked(StatePending)
	s.debounce.Trigger(s.policy.Delay(s.tel.InputSize), s.fire)
}

// fire runs when the debounce timer expires
func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.stopped || s.state != StatePending {
		s.mu.Unlock()
		return
	}
	s.tel.IsProcessing = true
	s.setStateLocked(StateDeferred)
	s.tick.Schedule(s.run)
	s.mu.Unlock()
	s.deliver()
}

// run executes one pass. It is scheduled one tick after fire
func (s *Scheduler) run() {
	s.mu.Lock()
	if s.stopped || s.state != StateDeferred {
		s.mu.Unlock()
		return
	}
	s.setStateLocked(StateRunning)
	base, comparison := s.base, s.comparison
	s.mu.Unlock()
	s.deliver()

	start := s.clock.Now()
	res, err := s.compare(base, comparison)
	elapsed := s.clock.Now().Sub(start)

	s.mu.Lock()
	if s.stopped {
		s.settleLocked()
		s.mu.Unlock()
		return
	}
	s.tel.IsProcessing = false
	s.result, s.err = res, err
	if err != nil {
		s.tel.ProcessingTimeMs = 0
		s.setStateLocked(StateError)
		s.log.Debug("pass failed", "inputSize", s.tel.InputSize, "err", err)
	} else {
		s.tel.ProcessingTimeMs = float64(elapsed) / float64(time.Millisecond)
		s.setStateLocked(StateDone)
		s.log.Debug("pass complete", "inputSize", s.tel.InputSize, "changes", len(res.Changes), "ms", s.tel.ProcessingTimeMs)
	}

	if s.queued {
		s.queued = false
		s.pendLocked()
	} else {
		s.state = StateIdle
	}
	s.mu.Unlock()
	s.deliver()
}

// compare calls the runner, converting a panic into an error
func (s *Scheduler) compare(base, comparison []byte) (res *jsondiff.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", jsondiff.ErrTraversal, r)
		}
	}()
	return s.runner.Compare(context.Background(), base, comparison)
}

// setStateLocked transitions and queues an update for listeners
func (s *Scheduler) setStateLocked(next State) {
	s.log.Debug("state transition", "from", s.state, "to", next, "inputSize", s.tel.InputSize)
	s.state = next

	u := Update{State: next, Telemetry: s.tel, Hints: s.hints}
	switch next {
	case StateDone:
		u.Result = s.result
	case StateError:
		u.Err = s.err
	}
	if len(s.listeners) > 0 {
		s.outbox = append(s.outbox, u)
	}
}

// deliver hands queued updates to listeners in order. Only one goroutine
// delivers at a time; a listener that calls back into the scheduler has its
// updates delivered once it returns
func (s *Scheduler) deliver() {
	for {
		if !s.deliverMu.TryLock() {
			return
		}
		for {
			s.mu.Lock()
			if len(s.outbox) == 0 {
				s.mu.Unlock()
				break
			}
			u := s.outbox[0]
			s.outbox = s.outbox[1:]
			s.mu.Unlock()

			for _, l := range s.listeners {
				l(u)
			}
		}
		s.deliverMu.Unlock()

		s.mu.Lock()
		empty := len(s.outbox) == 0
		s.mu.Unlock()
		if empty {
			return
		}
	}
}
