package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"coursehub/api"
	"coursehub/helper"
	"coursehub/state"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrBusy is returned when the same action is already in flight.
var ErrBusy = errors.New("action already in progress")

// ValidationError is a local failure raised before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// validationError converts struct-tag failures into a ValidationError.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Message: helper.FormatValidationErrors(err)}
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is the blocking message shown after a user action.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Tab names a sub-view inside a dashboard.
type Tab string

const TabDashboard Tab = "dashboard"

// fetch is one independent load that writes a single state slice.
type fetch struct {
	name string
	run  func(ctx context.Context) error
}

// base carries what every role dashboard shares. mu guards the embedding
// dashboard's state as well as the fields here.
type base struct {
	log *zap.Logger

	mu     sync.RWMutex
	tab    Tab
	tabs   []Tab
	notice *Notice

	busyMu  sync.Mutex
	running map[string]bool
}

func (b *base) init(log *zap.Logger, name string, user state.Session, tabs ...Tab) {
	if log == nil {
		log = zap.NewNop()
	}
	b.log = log.With(zap.String("dashboard", name), zap.String("user_id", user.UserID))
	b.tab = TabDashboard
	b.tabs = append([]Tab{TabDashboard}, tabs...)
	b.running = map[string]bool{}
}

// mount runs fetches concurrently. Each failure is logged and leaves its
// slice untouched; none is fatal.
func (b *base) mount(ctx context.Context, fetches ...fetch) {
	var g errgroup.Group
	for _, f := range fetches {
		f := f
		g.Go(func() error {
			if err := f.run(ctx); err != nil {
				b.log.Warn("fallback: data not loaded", zap.String("slice", f.name), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (b *base) begin(action string) error {
	b.busyMu.Lock()
	defer b.busyMu.Unlock()
	if b.running[action] {
		return ErrBusy
	}
	b.running[action] = true
	return nil
}

func (b *base) end(action string) {
	b.busyMu.Lock()
	delete(b.running, action)
	b.busyMu.Unlock()
}

// Busy reports whether action is in flight, so its control can be disabled.
func (b *base) Busy(action string) bool {
	b.busyMu.Lock()
	defer b.busyMu.Unlock()
	return b.running[action]
}

func (b *base) busySnapshot() map[string]bool {
	b.busyMu.Lock()
	defer b.busyMu.Unlock()
	out := make(map[string]bool, len(b.running))
	for k, v := range b.running {
		out[k] = v
	}
	return out
}

type mutation struct {
	action   string
	fallback string
	success  string
	call     func(ctx context.Context) error
	// after runs under the lock once the call succeeded, before refetch
	after   func()
	refetch []fetch
}

// mutate runs one user-initiated change: call the API once, then on success
// notify, reset and re-fetch every affected collection exactly once.
func (b *base) mutate(ctx context.Context, m mutation) error {
	if err := b.begin(m.action); err != nil {
		return err
	}
	defer b.end(m.action)

	if err := m.call(ctx); err != nil {
		b.log.Info("action failed", zap.String("action", m.action), zap.Error(err))
		b.fail(err, m.fallback)
		return err
	}

	b.mu.Lock()
	if m.after != nil {
		m.after()
	}
	b.notice = &Notice{Kind: NoticeSuccess, Text: m.success}
	b.mu.Unlock()

	b.mount(ctx, m.refetch...)
	return nil
}

// fail surfaces err: validation text, the server message, or fallback.
func (b *base) fail(err error, fallback string) {
	text := fallback
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		text = verr.Message
	case errors.Is(err, ErrBusy):
		return
	case api.ServerMessage(err) != "":
		text = api.ServerMessage(err)
	}
	b.mu.Lock()
	b.notice = &Notice{Kind: NoticeError, Text: text}
	b.mu.Unlock()
}

// reject records a validation failure and returns it.
func (b *base) reject(err error) error {
	b.fail(err, err.Error())
	return err
}

func (b *base) inform(text string) {
	b.mu.Lock()
	b.notice = &Notice{Kind: NoticeInfo, Text: text}
	b.mu.Unlock()
}

// Alert shows an error notice for a failure that happened before any
// dashboard call, such as a rejected upload.
func (b *base) Alert(text string) {
	b.mu.Lock()
	b.notice = &Notice{Kind: NoticeError, Text: text}
	b.mu.Unlock()
}

func (b *base) Notice() *Notice {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.notice == nil {
		return nil
	}
	n := *b.notice
	return &n
}

func (b *base) Dismiss() {
	b.mu.Lock()
	b.notice = nil
	b.mu.Unlock()
}

func (b *base) Tab() Tab {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tab
}

// setTab switches to t, returning false for a tab this dashboard lacks.
func (b *base) setTab(t Tab) bool {
	if !helper.Contains(b.tabs, t) {
		return false
	}
	b.mu.Lock()
	b.tab = t
	b.mu.Unlock()
	return true
}

// selection tags drill-down fetches so a late response for an item the
// user has since left is discarded.
type selection struct {
	gen uint64
	id  string
}

// choose must be called with the dashboard lock held.
func (s *selection) choose(id string) uint64 {
	s.gen++
	s.id = id
	return s.gen
}

func (s *selection) clear() {
	s.gen++
	s.id = ""
}

func (s *selection) current(gen uint64) bool {
	return s.gen == gen && s.id != ""
}
