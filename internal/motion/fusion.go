package motion

import (
	"math"
	"time"

	"depthwall/internal/utils"
)

// Mode identifies which input source owns the target motion vector.
type Mode int

const (
	ModePointer Mode = iota
	ModeTouch
	ModeOrientation
	ModeAuto
)

func (m Mode) String() string {
	switch m {
	case ModePointer:
		return "pointer"
	case ModeTouch:
		return "touch"
	case ModeOrientation:
		return "orientation"
	case ModeAuto:
		return "auto"
	}
	return "unknown"
}

// PermissionState tracks the orientation-sensor permission flow.
// Transition-only mutation: Unrequested -> Requested -> Granted|Denied.
type PermissionState int

const (
	PermissionUnrequested PermissionState = iota
	PermissionRequested
	PermissionGranted
	PermissionDenied
)

// Vec2 is a 2D motion vector.
type Vec2 struct {
	X, Y float64
}

// Settings is the slice of background config the fusion layer consumes.
type Settings struct {
	Focus                float64
	BaseMouseSensitivity float64
	SensitivityMin       float64
	SensitivityMax       float64

	IdleTimeout        time.Duration
	AutoEnabled        bool
	AutoEase           float64 // easing rate toward the auto-circle target
	AutoCircleSpeed    float64 // angular velocity, rad/s of wall clock
	AutoRange          float64

	OrientationEnabled   bool
	OrientationFallback  bool
	OrientationSens      float64
	OrientationThreshold float64 // degrees, dead zone
	OrientationMaxAngle  float64 // degrees, clamp

	Easing               float64
	ReturnToCenterEasing float64
}

// calibrationSamples is the number of initial orientation samples
// averaged into the neutral baseline.
const calibrationSamples = 8

// orientationProbeWindow is how long after subscribing we wait for the
// first orientation event before declaring the sensor dead.
const orientationProbeWindow = 2 * time.Second

// mobileWidthCutoff classifies a viewport as phone-like.
const mobileWidthCutoff = 768

// Target is one frame's fused output: the motion vector the integrator
// should chase and the easing rate to chase it with.
type Target struct {
	Motion Vec2
	Rate   float64
	Mode   Mode
}

// Fusion merges pointer, touch, device-orientation, and idle
// auto-motion into a single target motion vector. Exactly one source
// produces the target each frame, chosen by the device-mode state
// machine; the idle auto-circle is an overlay policy on top of any base
// mode, cancelled by the next genuine input.
type Fusion struct {
	Settings Settings

	// Raw input state, written by event callbacks, read at frame time.
	PointerRaw      Vec2 // NDC-style, [-1, 1] per axis
	PointerOnScreen bool

	Permission PermissionState

	mode          Mode
	touchCapable  bool
	mobile        bool
	startedAt     time.Time
	lastInputAt   time.Time
	hasInput      bool
	pointerSeen   bool

	subscribedAt     time.Time
	orientationLive  bool // at least one event arrived since subscribing
	orientationDead  bool // probe expired with no data
	calibCount       int
	calibSum         Vec2
	baseline         Vec2
	orientationValue Vec2 // normalized, post-calibration
}

// NewFusion builds a fusion state machine with the given settings.
func NewFusion(settings Settings) *Fusion {
	return &Fusion{
		Settings: settings,
		mode:     ModePointer,
	}
}

// Start arms the idle timer; a scene nobody ever touches still drifts
// into auto-motion one idle timeout after startup.
func (f *Fusion) Start(now time.Time) {
	f.startedAt = now
}

// Mode returns the currently active base input mode.
func (f *Fusion) Mode() Mode {
	return f.mode
}

// Classify re-evaluates the device class from capabilities and viewport
// width. Called at startup and on every resize; a class change may
// switch the active mode, and leaving orientation mode clears its
// calibration so re-entry recalibrates.
func (f *Fusion) Classify(touchCapable bool, viewportW float64) {
	f.touchCapable = touchCapable
	wasMobile := f.mobile
	f.mobile = touchCapable && viewportW < mobileWidthCutoff

	if f.mobile == wasMobile && f.hasInput {
		return
	}

	previous := f.mode
	f.mode = f.baseMode()
	if previous == ModeOrientation && f.mode != ModeOrientation {
		f.resetCalibration()
	}
	if previous != f.mode {
		utils.Debug("Input: mode %s -> %s (mobile=%v)", previous, f.mode, f.mobile)
	}
}

func (f *Fusion) baseMode() Mode {
	if f.mobile && f.orientationUsable() {
		return ModeOrientation
	}
	if f.touchCapable && f.mobile {
		return ModeTouch
	}
	if f.touchCapable {
		// Desktop touchscreens keep pointer as primary; touch events
		// still feed the same raw vector.
		return ModePointer
	}
	return ModePointer
}

func (f *Fusion) orientationUsable() bool {
	return f.Settings.OrientationEnabled &&
		f.Permission == PermissionGranted &&
		!f.orientationDead
}

// RequestOrientation marks the permission prompt as shown.
func (f *Fusion) RequestOrientation() {
	if f.Permission == PermissionUnrequested {
		f.Permission = PermissionRequested
	}
}

// GrantOrientation records a granted permission and starts the
// data-presence probe: if no events arrive within the probe window the
// sensor is declared dead and the mode falls back to touch.
func (f *Fusion) GrantOrientation(now time.Time) {
	f.Permission = PermissionGranted
	f.subscribedAt = now
	f.orientationLive = false
	f.orientationDead = false
	f.resetCalibration()
	f.mode = f.baseMode()
}

// DenyOrientation records a denied permission; non-fatal, pointer or
// touch take over.
func (f *Fusion) DenyOrientation() {
	f.Permission = PermissionDenied
	f.mode = f.baseMode()
	utils.Info("Input: orientation permission denied, using %s", f.mode)
}

func (f *Fusion) resetCalibration() {
	f.calibCount = 0
	f.calibSum = Vec2{}
	f.baseline = Vec2{}
	f.orientationValue = Vec2{}
}

// SetPointer stores a pointer position already normalized to [-1, 1].
// X grows rightward, Y grows upward (screen Y is flipped by the caller)
// so moving left pans the scene the way parallax is expected to.
// Movement is the input event, not presence: pollers report the position
// every frame, and an unchanged position must not re-arm the idle timer.
func (f *Fusion) SetPointer(x, y float64, now time.Time) {
	next := Vec2{X: clampUnit(x), Y: clampUnit(y)}
	moved := !f.pointerSeen || next != f.PointerRaw
	f.PointerRaw = next
	f.PointerOnScreen = true
	f.pointerSeen = true
	if moved {
		f.markInput(now)
	}
}

// SetPointerPixels normalizes raw screen coordinates before storing.
func (f *Fusion) SetPointerPixels(px, py, viewportW, viewportH float64, now time.Time) {
	if viewportW <= 0 || viewportH <= 0 {
		return
	}
	x := px/viewportW*2 - 1
	y := -(py/viewportH*2 - 1)
	f.SetPointer(x, y, now)
}

// SetTouch feeds a touch contact through the same normalized channel.
func (f *Fusion) SetTouch(px, py, viewportW, viewportH float64, now time.Time) {
	f.SetPointerPixels(px, py, viewportW, viewportH, now)
	if f.mode == ModePointer && f.mobile {
		f.mode = ModeTouch
	}
}

// PointerLeft marks the pointer as off-screen; the integrator will
// drift back to center.
func (f *Fusion) PointerLeft() {
	f.PointerOnScreen = false
}

// OrientationSample ingests one device-orientation event. Angles are in
// degrees: pitch tilts toward/away (maps to Y), roll tilts sideways
// (maps to X). The first calibrationSamples events average into a
// neutral baseline; later samples are taken relative to it, clamped to
// the max angle and zeroed inside the dead zone.
func (f *Fusion) OrientationSample(pitch, roll float64, now time.Time) {
	f.orientationLive = true

	if f.calibCount < calibrationSamples {
		f.calibSum.X += roll
		f.calibSum.Y += pitch
		f.calibCount++
		if f.calibCount == calibrationSamples {
			f.baseline = Vec2{
				X: f.calibSum.X / calibrationSamples,
				Y: f.calibSum.Y / calibrationSamples,
			}
			utils.Debug("Input: orientation baseline %.2f/%.2f", f.baseline.X, f.baseline.Y)
		}
		return
	}

	f.orientationValue = Vec2{
		X: f.normalizeAngle(roll - f.baseline.X),
		Y: f.normalizeAngle(pitch - f.baseline.Y),
	}
	f.markInput(now)
}

func (f *Fusion) normalizeAngle(delta float64) float64 {
	if math.Abs(delta) < f.Settings.OrientationThreshold {
		return 0
	}
	maxAngle := f.Settings.OrientationMaxAngle
	if maxAngle <= 0 {
		maxAngle = 25
	}
	if delta > maxAngle {
		delta = maxAngle
	}
	if delta < -maxAngle {
		delta = -maxAngle
	}
	return delta / maxAngle
}

func (f *Fusion) markInput(now time.Time) {
	f.lastInputAt = now
	f.hasInput = true
}

// Sensitivity is the single scalar that scales whichever raw input is
// active: linear interpolation between the configured bounds by the
// focus parameter, so rotation- and strafe-style cameras get different
// responsiveness from the same raw units.
func (f *Fusion) Sensitivity() float64 {
	s := f.Settings
	return s.SensitivityMin + (s.SensitivityMax-s.SensitivityMin)*s.Focus
}

// Update runs the per-frame state machine and produces the target the
// integrator should chase. Exactly one source wins each frame.
func (f *Fusion) Update(now time.Time) Target {
	// Orientation probe: granted but silent sensors fall back to touch.
	if f.Permission == PermissionGranted && !f.orientationLive && !f.orientationDead &&
		now.Sub(f.subscribedAt) > orientationProbeWindow {
		f.orientationDead = true
		if f.Settings.OrientationFallback {
			utils.Warn("Input: no orientation data within %s, falling back to touch", orientationProbeWindow)
		}
		f.mode = f.baseMode()
	}

	// Idle overlay: deterministic circular drift of wall-clock time,
	// regardless of base mode. Any genuine input re-arms the timer and
	// cancels this on the very next frame.
	idleRef := f.lastInputAt
	if !f.hasInput {
		idleRef = f.startedAt
	}
	if f.Settings.AutoEnabled && !idleRef.IsZero() &&
		now.Sub(idleRef) > f.Settings.IdleTimeout {
		t := float64(now.UnixNano()) / float64(time.Second)
		omega := f.Settings.AutoCircleSpeed
		return Target{
			Motion: Vec2{
				X: math.Cos(t*omega) * f.Settings.AutoRange,
				Y: math.Sin(t*omega) * f.Settings.AutoRange,
			},
			Rate: f.Settings.AutoEase,
			Mode: ModeAuto,
		}
	}

	sens := f.Sensitivity()

	if f.mode == ModeOrientation && f.orientationLive {
		scale := f.Settings.OrientationSens * sens
		return Target{
			Motion: Vec2{X: f.orientationValue.X * scale, Y: f.orientationValue.Y * scale},
			Rate:   f.Settings.Easing,
			Mode:   ModeOrientation,
		}
	}

	if f.PointerOnScreen {
		scale := f.Settings.BaseMouseSensitivity * sens
		return Target{
			Motion: Vec2{X: f.PointerRaw.X * scale, Y: f.PointerRaw.Y * scale},
			Rate:   f.Settings.Easing,
			Mode:   f.mode,
		}
	}

	// No input available: drift home at the dedicated rate.
	return Target{
		Motion: Vec2{},
		Rate:   f.Settings.ReturnToCenterEasing,
		Mode:   f.mode,
	}
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
