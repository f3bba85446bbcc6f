package service

import (
	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/hwcs"
)

// DiagnosticSurface is the debug-facing half of the service.
type DiagnosticSurface interface {
	ReadLogParcel() ([]byte, hwcs.Status)
	EnableDisplay(display uint32)
	DisableDisplay(display uint32, blank bool)
	MaskLayer(display, layer uint32, hide bool)
	DumpFrames(display uint32, frames int32, sync bool)
}

// Diagnostic records requests in the trace ring and forwards them to the
// engine when it implements backend.Diagnostics. The engine is the one the
// control surfaces share.
type Diagnostic struct {
	engine backend.Engine
	hook   backend.Diagnostics
	trace  *LogRing
}

var _ DiagnosticSurface = (*Diagnostic)(nil)

func newDiagnostic(engine backend.Engine, trace *LogRing) *Diagnostic {
	hook, _ := engine.(backend.Diagnostics)
	return &Diagnostic{engine: engine, hook: hook, trace: trace}
}

// Engine returns the backend shared with the control surfaces.
func (d *Diagnostic) Engine() backend.Engine {
	return d.engine
}

// ReadLogParcel returns every retained trace line.
func (d *Diagnostic) ReadLogParcel() ([]byte, hwcs.Status) {
	return d.ReadLogParcelWithin(0)
}

// ReadLogParcelWithin returns the newest trace lines that fit in budget
// bytes. budget <= 0 means no cap.
func (d *Diagnostic) ReadLogParcelWithin(budget int) ([]byte, hwcs.Status) {
	return d.trace.Parcel(budget), hwcs.StatusOK
}

func (d *Diagnostic) EnableDisplay(display uint32) {
	d.trace.Addf("Diagnostic EnableDisplay display=%d", display)
	if d.hook != nil {
		d.hook.DiagEnableDisplay(display)
	}
}

func (d *Diagnostic) DisableDisplay(display uint32, blank bool) {
	d.trace.Addf("Diagnostic DisableDisplay display=%d blank=%t", display, blank)
	if d.hook != nil {
		d.hook.DiagDisableDisplay(display, blank)
	}
}

func (d *Diagnostic) MaskLayer(display, layer uint32, hide bool) {
	d.trace.Addf("Diagnostic MaskLayer display=%d layer=%d hide=%t", display, layer, hide)
	if d.hook != nil {
		d.hook.DiagMaskLayer(display, layer, hide)
	}
}

func (d *Diagnostic) DumpFrames(display uint32, frames int32, sync bool) {
	d.trace.Addf("Diagnostic DumpFrames display=%d frames=%d sync=%t", display, frames, sync)
	if d.hook != nil {
		d.hook.DiagDumpFrames(display, frames, sync)
	}
}
