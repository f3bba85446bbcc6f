package service

import (
	"testing"

	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type notifyCall struct {
	kind hwcs.Notification
	cnt  int
	para hwcs.NotifyParams
}

type recordingListener struct {
	calls []notifyCall
}

func (r *recordingListener) Notify(kind hwcs.Notification, paraCnt int, para hwcs.NotifyParams) {
	r.calls = append(r.calls, notifyCall{kind: kind, cnt: paraCnt, para: para})
}

func TestListenersRegisterNotifyUnregister(t *testing.T) {
	testlog.Start(t)
	l := NewListeners()
	a := &recordingListener{}
	b := &recordingListener{}
	l.Register(hwcs.NotifyPanoramaChanged, a)
	l.Register(hwcs.NotifyPanoramaChanged, b)
	l.Register(hwcs.NotifyPanoramaChanged, a)
	if got := l.Count(hwcs.NotifyPanoramaChanged); got != 2 {
		t.Fatalf("duplicate registration should be ignored, count=%d", got)
	}

	l.Notify(hwcs.NotifyPanoramaChanged, 1, hwcs.NotifyParams{9})
	if len(a.calls) != 1 || len(b.calls) != 1 {
		t.Fatalf("expected one call each, got a=%d b=%d", len(a.calls), len(b.calls))
	}

	l.Unregister(hwcs.NotifyPanoramaChanged, a)
	l.Notify(hwcs.NotifyPanoramaChanged, 1, hwcs.NotifyParams{10})
	if len(a.calls) != 1 || len(b.calls) != 2 {
		t.Fatalf("unregistered listener still called: a=%d b=%d", len(a.calls), len(b.calls))
	}
	l.Unregister(hwcs.NotifyPanoramaChanged, a)
}

func TestListenersKindsAreIndependent(t *testing.T) {
	testlog.Start(t)
	l := NewListeners()
	a := &recordingListener{}
	l.Register(hwcs.NotifyMdsUpdateInputState, a)
	l.Notify(hwcs.NotifyMdsUpdateVideoState, 0, hwcs.NotifyParams{})
	if len(a.calls) != 0 {
		t.Fatalf("listener received other kind: %+v", a.calls)
	}
}

func TestListenersIgnoreNilAndInvalid(t *testing.T) {
	testlog.Start(t)
	l := NewListeners()
	l.Register(hwcs.NotifyOptimizationMode, nil)
	l.Register(hwcs.NotifyInvalid, &recordingListener{})
	if l.Count(hwcs.NotifyOptimizationMode) != 0 || l.Count(hwcs.NotifyInvalid) != 0 {
		t.Fatalf("nil or invalid registrations should be dropped")
	}
}

func TestNotifyClampsParameterCount(t *testing.T) {
	testlog.Start(t)
	l := NewListeners()
	a := &recordingListener{}
	l.Register(hwcs.NotifyMdsUpdateVideoFps, a)
	l.Notify(hwcs.NotifyMdsUpdateVideoFps, 99, hwcs.NotifyParams{1, 2, 3, 4})
	l.Notify(hwcs.NotifyMdsUpdateVideoFps, -3, hwcs.NotifyParams{})
	if a.calls[0].cnt != hwcs.MaxNotifyParams || a.calls[1].cnt != 0 {
		t.Fatalf("unexpected counts: %+v", a.calls)
	}
}

func TestCountNotificationsFeedsMetrics(t *testing.T) {
	testlog.Start(t)
	svc, err := New(backend.Stub{}, Config{Name: "notify.metrics"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.CountNotifications()
	svc.CountNotifications()
	for _, kind := range hwcs.Notifications() {
		if got := svc.Listeners().Count(kind); got != 1 {
			t.Fatalf("%s: expected one metrics listener, got %d", kind, got)
		}
	}

	const metric = "hwcctl_notify_deliveries_total"
	before, err := testutil.GatherAndCount(prometheus.DefaultGatherer, metric)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	ctl := svc.GetControls()
	ctl.TriggerPanorama(1)
	ctl.MdsUpdateInputState(true)
	after, err := testutil.GatherAndCount(prometheus.DefaultGatherer, metric)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if after-before != 2 {
		t.Fatalf("expected two new notification series, got %d", after-before)
	}
}
