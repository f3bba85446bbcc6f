package backend

import (
	"slices"
	"sort"
	"sync"

	"github.com/danmuck/hwcctl/internal/hwcs"
)

// DisplayConfig seeds one display in a Memory engine.
type DisplayConfig struct {
	ID        uint32
	Connector uint32
	Modes     []hwcs.DisplayModeInfo
	// Preferred indexes Modes; it is the mode in effect at start.
	Preferred uint32
}

type MemoryConfig struct {
	Displays []DisplayConfig
}

// DefaultMemoryConfig describes a primary panel and one external output.
// The primary is display 0, which shares its id with the unknown-connector
// answer of DisplayIDFromConnectorID.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Displays: []DisplayConfig{
			{
				ID:        0,
				Connector: 28,
				Modes: []hwcs.DisplayModeInfo{
					{Width: 1920, Height: 1080, Refresh: 60, Xdpi: 160, Ydpi: 160, Flags: hwcs.ModeFlagPreferred},
					{Width: 1280, Height: 720, Refresh: 60, Xdpi: 160, Ydpi: 160},
				},
			},
			{
				ID:        1,
				Connector: 36,
				Modes: []hwcs.DisplayModeInfo{
					{Width: 3840, Height: 2160, Refresh: 30, Xdpi: 96, Ydpi: 96, Flags: hwcs.ModeFlagPreferred},
					{Width: 1920, Height: 1080, Refresh: 60, Xdpi: 96, Ydpi: 96},
					{Width: 1920, Height: 1080, Refresh: 60, Xdpi: 96, Ydpi: 96, Flags: hwcs.ModeFlagInterlaced},
				},
			},
		},
	}
}

var colorDefaults = map[ColorControl]ColorRange{
	ColorBrightness: {Value: 0, Start: -100, End: 100},
	ColorContrast:   {Value: 1, Start: 0, End: 2},
	ColorSaturation: {Value: 1, Start: 0, End: 2},
	ColorSharpness:  {Value: 0, Start: 0, End: 1},
	ColorHue:        {Value: 0, Start: -180, End: 180},
}

const maxOverscan = 100

type displayState struct {
	connector   uint32
	overscanX   int32
	overscanY   int32
	scaling     hwcs.ScalingMode
	blank       bool
	colors      map[ColorControl]ColorRange
	deinterlace DeinterlaceControl
	modes       []hwcs.DisplayModeInfo
	current     uint32
	commit      bool
	hdcp        *hwcs.ContentType
	srm         []byte

	diagOff bool
	masked  map[uint32]bool
	dumped  int64
}

type sessionKey struct {
	session  uint32
	instance uint32
}

// Memory is an Engine that keeps all state in process. Every method is
// serialised on one mutex.
type Memory struct {
	mu            sync.Mutex
	displays      map[uint32]*displayState
	globalSRM     []byte
	droppedMaster bool
	encrypted     map[sessionKey]struct{}
	optimization  hwcs.OptimizationMode
	videoPrepared map[int64]bool
	videoFPS      map[int64]int32
	inputActive   bool
	singleDisplay bool
	panorama      bool
	mutations     uint64
}

var (
	_ Engine      = (*Memory)(nil)
	_ Diagnostics = (*Memory)(nil)
)

func NewMemory(cfg MemoryConfig) *Memory {
	m := &Memory{
		displays:      make(map[uint32]*displayState, len(cfg.Displays)),
		encrypted:     make(map[sessionKey]struct{}),
		videoPrepared: make(map[int64]bool),
		videoFPS:      make(map[int64]int32),
	}
	for _, d := range cfg.Displays {
		st := &displayState{
			connector: d.Connector,
			scaling:   hwcs.ScalingFit,
			colors:    defaultColors(),
			modes:     slices.Clone(d.Modes),
			masked:    make(map[uint32]bool),
		}
		if int(d.Preferred) < len(d.Modes) {
			st.current = d.Preferred
		}
		m.displays[d.ID] = st
	}
	return m
}

func defaultColors() map[ColorControl]ColorRange {
	out := make(map[ColorControl]ColorRange, len(colorDefaults))
	for k, v := range colorDefaults {
		out[k] = v
	}
	return out
}

// Mutations counts state-changing calls that were accepted.
func (m *Memory) Mutations() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutations
}

func (m *Memory) display(id uint32) (*displayState, bool) {
	d, ok := m.displays[id]
	return d, ok
}

func (m *Memory) byConnector(connector uint32) (*displayState, bool) {
	for _, d := range m.displays {
		if d.connector == connector {
			return d, true
		}
	}
	return nil, false
}

func (m *Memory) SetOverscan(display uint32, x, y int32) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok || x < -maxOverscan || x > maxOverscan || y < -maxOverscan || y > maxOverscan {
		return hwcs.StatusBadValue
	}
	d.overscanX, d.overscanY = x, y
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) GetOverscan(display uint32) (int32, int32, hwcs.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return 0, 0, hwcs.StatusBadValue
	}
	return d.overscanX, d.overscanY, hwcs.StatusOK
}

func (m *Memory) SetScaling(display uint32, mode hwcs.ScalingMode) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok || !mode.Valid() {
		return hwcs.StatusBadValue
	}
	d.scaling = mode
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) GetScaling(display uint32) (hwcs.ScalingMode, hwcs.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return hwcs.ScalingInvalid, hwcs.StatusBadValue
	}
	return d.scaling, hwcs.StatusOK
}

func (m *Memory) EnableBlank(display uint32, blank bool) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return hwcs.StatusBadValue
	}
	d.blank = blank
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) RestoreDefaultColorParam(display uint32, color ColorControl) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	def, known := colorDefaults[color]
	if !ok || !known {
		return hwcs.StatusBadValue
	}
	d.colors[color] = def
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) RestoreDefaultDeinterlaceParam(display uint32) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return hwcs.StatusBadValue
	}
	d.deinterlace = DeinterlaceNone
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) GetColorParam(display uint32, color ColorControl) (ColorRange, hwcs.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return ColorRange{}, hwcs.StatusBadValue
	}
	r, known := d.colors[color]
	if !known {
		return ColorRange{}, hwcs.StatusBadValue
	}
	return r, hwcs.StatusOK
}

func (m *Memory) SetColorParam(display uint32, color ColorControl, value float32) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return hwcs.StatusBadValue
	}
	r, known := d.colors[color]
	if !known || value < r.Start || value > r.End {
		return hwcs.StatusBadValue
	}
	r.Value = value
	d.colors[color] = r
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) SetDeinterlaceParam(display uint32, mode DeinterlaceControl) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok || mode < DeinterlaceNone || mode > DeinterlaceMotionCompensated {
		return hwcs.StatusBadValue
	}
	d.deinterlace = mode
	m.mutations++
	return hwcs.StatusOK
}

// AvailableModes lists modes in configuration order. The mode in effect
// carries hwcs.ModeFlagCurrent. Unknown displays have no modes.
func (m *Memory) AvailableModes(display uint32) []hwcs.DisplayModeInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return []hwcs.DisplayModeInfo{}
	}
	out := make([]hwcs.DisplayModeInfo, len(d.modes))
	for i, mode := range d.modes {
		if uint32(i) == d.current {
			mode.Flags |= hwcs.ModeFlagCurrent
		}
		out[i] = mode
	}
	return out
}

func (m *Memory) CurrentMode(display uint32) (hwcs.DisplayModeInfo, hwcs.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok || len(d.modes) == 0 {
		return hwcs.DisplayModeInfo{}, hwcs.StatusBadValue
	}
	mode := d.modes[d.current]
	mode.Flags |= hwcs.ModeFlagCurrent
	return mode, hwcs.StatusOK
}

func (m *Memory) SetMode(display uint32, config uint32) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok || int(config) >= len(d.modes) {
		return hwcs.StatusBadValue
	}
	d.current = config
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) EnableHDCPSessionForDisplay(connector uint32, content hwcs.ContentType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.byConnector(connector); ok {
		c := content
		d.hdcp = &c
		m.mutations++
	}
}

func (m *Memory) EnableHDCPSessionForAllDisplays(content hwcs.ContentType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.displays {
		c := content
		d.hdcp = &c
	}
	m.mutations++
}

func (m *Memory) DisableHDCPSessionForDisplay(connector uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.byConnector(connector); ok {
		d.hdcp = nil
		m.mutations++
	}
}

func (m *Memory) DisableHDCPSessionForAllDisplays() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.displays {
		d.hdcp = nil
	}
	m.mutations++
}

func (m *Memory) SetHDCPSRMForAllDisplays(srm []byte) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globalSRM = slices.Clone(srm)
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) SetHDCPSRMForDisplay(connector uint32, srm []byte) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byConnector(connector)
	if !ok {
		return hwcs.StatusBadValue
	}
	d.srm = slices.Clone(srm)
	m.mutations++
	return hwcs.StatusOK
}

// DisplayIDFromConnectorID answers 0 for an unknown connector. Display 0
// is the primary panel, so a 0 answer alone cannot tell the primary's
// connector from an unknown one; callers that care check the connector
// against a known list first.
func (m *Memory) DisplayIDFromConnectorID(connector uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.displays {
		if d.connector == connector {
			return id
		}
	}
	return 0
}

func (m *Memory) EnableDRMCommit(enable bool, display uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return false
	}
	d.commit = enable
	m.mutations++
	return true
}

// ResetDrmMaster drops or reacquires DRM master. Repeating the current
// state succeeds.
func (m *Memory) ResetDrmMaster(dropMaster bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.droppedMaster != dropMaster {
		m.droppedMaster = dropMaster
		m.mutations++
	}
	return true
}

func (m *Memory) EnableEncryptedSession(sessionID, instanceID uint32) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encrypted[sessionKey{sessionID, instanceID}] = struct{}{}
	m.mutations++
	return hwcs.StatusOK
}

// DisableEncryptedSession drops every instance registered under sessionID.
func (m *Memory) DisableEncryptedSession(sessionID uint32) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.encrypted {
		if k.session == sessionID {
			delete(m.encrypted, k)
		}
	}
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) DisableAllEncryptedSessions() hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.encrypted)
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) IsEncryptedSessionEnabled(sessionID, instanceID uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.encrypted[sessionKey{sessionID, instanceID}]
	return ok
}

func (m *Memory) SetOptimizationMode(mode hwcs.OptimizationMode) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mode > hwcs.OptimizeCamera {
		return hwcs.StatusBadValue
	}
	m.optimization = mode
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) UpdateVideoState(videoSessionID int64, prepared bool) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prepared {
		m.videoPrepared[videoSessionID] = true
	} else {
		delete(m.videoPrepared, videoSessionID)
		delete(m.videoFPS, videoSessionID)
	}
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) UpdateVideoFPS(videoSessionID int64, fps int32) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if fps < 0 {
		return hwcs.StatusBadValue
	}
	m.videoFPS[videoSessionID] = fps
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) UpdateInputState(active bool) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputActive = active
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) SingleDisplay() (bool, hwcs.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.singleDisplay, hwcs.StatusOK
}

func (m *Memory) SetSingleDisplay(enable bool) hwcs.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.singleDisplay = enable
	m.mutations++
	return hwcs.StatusOK
}

func (m *Memory) TriggerPanorama(uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panorama = true
	m.mutations++
}

func (m *Memory) ShutdownPanorama(uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panorama = false
	m.mutations++
}

// DiagEnableDisplay resumes capture for a display. Capture state is not a
// display mutation and is not counted.
func (m *Memory) DiagEnableDisplay(display uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.display(display); ok {
		d.diagOff = false
	}
}

func (m *Memory) DiagDisableDisplay(display uint32, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.display(display); ok {
		d.diagOff = true
	}
}

func (m *Memory) DiagMaskLayer(display, layer uint32, hide bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.display(display)
	if !ok {
		return
	}
	if hide {
		d.masked[layer] = true
	} else {
		delete(d.masked, layer)
	}
}

func (m *Memory) DiagDumpFrames(display uint32, frames int32, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.display(display); ok && frames > 0 {
		d.dumped += int64(frames)
	}
}

// DisplaySnapshot is a read-only view of one display's state.
type DisplaySnapshot struct {
	ID          uint32                `json:"id"`
	Connector   uint32                `json:"connector"`
	OverscanX   int32                 `json:"overscan_x"`
	OverscanY   int32                 `json:"overscan_y"`
	Scaling     string                `json:"scaling"`
	Blank       bool                  `json:"blank"`
	Colors      map[string]ColorRange `json:"colors"`
	Deinterlace DeinterlaceControl    `json:"deinterlace"`
	Mode        uint32                `json:"mode"`
	Commit      bool                  `json:"commit"`
	HDCP        *hwcs.ContentType     `json:"hdcp,omitempty"`
	SRMBytes    int                   `json:"srm_bytes"`

	DiagDisabled bool     `json:"diag_disabled"`
	MaskedLayers []uint32 `json:"masked_layers,omitempty"`
	FramesDumped int64    `json:"frames_dumped"`
}

// Snapshot is a read-only view of a Memory engine.
type Snapshot struct {
	Displays          []DisplaySnapshot `json:"displays"`
	GlobalSRMBytes    int               `json:"global_srm_bytes"`
	DroppedMaster     bool              `json:"dropped_master"`
	EncryptedSessions int               `json:"encrypted_sessions"`
	Optimization      string            `json:"optimization"`
	PreparedVideos    int               `json:"prepared_videos"`
	InputActive       bool              `json:"input_active"`
	SingleDisplay     bool              `json:"single_display"`
	Panorama          bool              `json:"panorama"`
	Mutations         uint64            `json:"mutations"`
}

func (m *Memory) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := Snapshot{
		GlobalSRMBytes:    len(m.globalSRM),
		DroppedMaster:     m.droppedMaster,
		EncryptedSessions: len(m.encrypted),
		Optimization:      m.optimization.String(),
		PreparedVideos:    len(m.videoPrepared),
		InputActive:       m.inputActive,
		SingleDisplay:     m.singleDisplay,
		Panorama:          m.panorama,
		Mutations:         m.mutations,
	}
	for id, d := range m.displays {
		colors := make(map[string]ColorRange, len(d.colors))
		for k, v := range d.colors {
			colors[k.String()] = v
		}
		var hdcp *hwcs.ContentType
		if d.hdcp != nil {
			c := *d.hdcp
			hdcp = &c
		}
		out.Displays = append(out.Displays, DisplaySnapshot{
			ID:          id,
			Connector:   d.connector,
			OverscanX:   d.overscanX,
			OverscanY:   d.overscanY,
			Scaling:     d.scaling.String(),
			Blank:       d.blank,
			Colors:      colors,
			Deinterlace: d.deinterlace,
			Mode:        d.current,
			Commit:      d.commit,
			HDCP:        hdcp,
			SRMBytes:    len(d.srm),

			DiagDisabled: d.diagOff,
			MaskedLayers: maskedLayers(d.masked),
			FramesDumped: d.dumped,
		})
	}
	sort.Slice(out.Displays, func(i, j int) bool { return out.Displays[i].ID < out.Displays[j].ID })
	return out
}

func maskedLayers(masked map[uint32]bool) []uint32 {
	if len(masked) == 0 {
		return nil
	}
	out := make([]uint32, 0, len(masked))
	for layer := range masked {
		out = append(out, layer)
	}
	slices.Sort(out)
	return out
}
