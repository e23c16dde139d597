package render

import (
	"time"

	"depthwall/internal/motion"
	"depthwall/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// tiltPollInterval spaces out sysfs reads; accelerometers update far
// slower than the frame rate.
const tiltPollInterval = 50 * time.Millisecond

// InputPoller feeds raylib and X11 input events into the fusion state
// machine once per frame.
type InputPoller struct {
	wallpaper    bool
	tilt         *motion.TiltSensor
	lastTiltPoll time.Time
}

// NewInputPoller probes for a tilt sensor and, when one exists, walks
// the fusion permission flow: on desktop Linux sensor presence is the
// grant, there is no prompt.
func NewInputPoller(fusion *motion.Fusion, wallpaper bool, now time.Time) *InputPoller {
	p := &InputPoller{wallpaper: wallpaper}

	if fusion.Settings.OrientationEnabled {
		tilt, err := motion.DetectTiltSensor()
		if err != nil {
			utils.Debug("Input: %v", err)
		} else {
			p.tilt = tilt
			fusion.RequestOrientation()
			fusion.GrantOrientation(now)
		}
	}
	return p
}

// TouchCapable reports whether the device has a touch contact source.
// Raylib only surfaces touch through the same polling API, so presence
// of a tilt sensor is the practical convertible/tablet signal.
func (p *InputPoller) TouchCapable() bool {
	return p.tilt != nil || rl.GetTouchPointCount() > 0
}

// Poll reads this frame's raw input and pushes it into the fusion.
func (p *InputPoller) Poll(fusion *motion.Fusion, now time.Time) {
	width := float64(rl.GetScreenWidth())
	height := float64(rl.GetScreenHeight())

	if count := rl.GetTouchPointCount(); count > 0 {
		tp := rl.GetTouchPosition(0)
		fusion.SetTouch(float64(tp.X), float64(tp.Y), width, height, now)
	} else if p.wallpaper {
		// A desktop-layer window never has focus; ask the X server
		// directly.
		px, py, err := utils.GetGlobalMousePosition()
		if err != nil {
			utils.Debug("Input: global pointer query failed: %v", err)
		} else {
			fusion.SetPointerPixels(float64(px), float64(py), width, height, now)
		}
	} else if rl.IsCursorOnScreen() {
		m := rl.GetMousePosition()
		fusion.SetPointerPixels(float64(m.X), float64(m.Y), width, height, now)
	} else {
		fusion.PointerLeft()
	}

	if p.tilt != nil && now.Sub(p.lastTiltPoll) >= tiltPollInterval {
		p.lastTiltPoll = now
		pitch, roll, err := p.tilt.Read()
		if err != nil {
			utils.Debug("Input: tilt read failed: %v", err)
		} else {
			fusion.OrientationSample(pitch, roll, now)
		}
	}
}
