package service

import (
	"slices"
	"sync"

	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/observability"
	"github.com/rs/zerolog/log"
)

// NotifyCallback receives service notifications. Registrations are keyed
// by interface identity, so implementations should be pointer types.
type NotifyCallback interface {
	Notify(kind hwcs.Notification, paraCnt int, para hwcs.NotifyParams)
}

// Listeners is the per-service notification registry. Notify calls every
// callback registered for the kind, in registration order, on the calling
// goroutine. Nothing is queued or replayed.
type Listeners struct {
	mu     sync.Mutex
	byKind map[hwcs.Notification][]NotifyCallback
}

func NewListeners() *Listeners {
	return &Listeners{byKind: make(map[hwcs.Notification][]NotifyCallback)}
}

// Register adds cb for kind. Registering the same callback twice for one
// kind is a no-op.
func (l *Listeners) Register(kind hwcs.Notification, cb NotifyCallback) {
	if cb == nil || kind == hwcs.NotifyInvalid {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Contains(l.byKind[kind], cb) {
		return
	}
	l.byKind[kind] = append(l.byKind[kind], cb)
}

func (l *Listeners) Unregister(kind hwcs.Notification, cb NotifyCallback) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cbs := l.byKind[kind]
	if i := slices.Index(cbs, cb); i >= 0 {
		l.byKind[kind] = slices.Delete(slices.Clone(cbs), i, i+1)
	}
}

// Count reports how many callbacks are registered for kind.
func (l *Listeners) Count(kind hwcs.Notification) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKind[kind])
}

// Notify delivers to the callbacks registered at call time. paraCnt is
// clamped to 0..hwcs.MaxNotifyParams.
func (l *Listeners) Notify(kind hwcs.Notification, paraCnt int, para hwcs.NotifyParams) {
	if paraCnt < 0 {
		paraCnt = 0
	}
	if paraCnt > hwcs.MaxNotifyParams {
		paraCnt = hwcs.MaxNotifyParams
	}
	l.mu.Lock()
	cbs := l.byKind[kind]
	l.mu.Unlock()
	if len(cbs) == 0 {
		return
	}
	log.Debug().Str("kind", kind.String()).Int("para_cnt", paraCnt).Int("listeners", len(cbs)).Msg("notify")
	for _, cb := range cbs {
		cb.Notify(kind, paraCnt, para)
	}
}

// metricsListener counts every delivered notification by kind.
type metricsListener struct {
	service string
}

func (m *metricsListener) Notify(kind hwcs.Notification, _ int, _ hwcs.NotifyParams) {
	observability.RecordNotification(m.service, kind.String())
}

// CountNotifications registers a listener on every notification kind that
// feeds the notification metrics. Calling it again registers nothing new.
func (s *Service) CountNotifications() {
	s.metricsOnce.Do(func() {
		cb := &metricsListener{service: s.cfg.Name}
		for _, kind := range hwcs.Notifications() {
			s.listeners.Register(kind, cb)
		}
	})
}
