package motion

// maxFrameDelta caps the per-frame delta time fed into easing. After a
// tab/window stall the first frame can report seconds of elapsed time;
// without the cap the exponential step overshoots.
const maxFrameDelta = 0.1

// referenceFrameRate is the frame rate the easing constants are tuned
// against. Rates are per-frame values at this rate, scaled by actual
// delta time so a 144 Hz display eases at the same wall-clock speed.
const referenceFrameRate = 60.0

// Integrator turns the fused target into a smoothed displacement with
// exponential easing, run once per rendered frame. The smoothed vector
// always lags the target by the easing factor.
type Integrator struct {
	Smoothed Vec2

	// Locked forces the target to zero and holds the view at center
	// (debug aid).
	Locked bool
}

// Step advances the smoothed motion toward the target at the given
// easing rate: smoothed += (target - smoothed) * rate, with rate scaled
// from the reference frame rate by dt. Returns the new smoothed vector.
func (integrator *Integrator) Step(target Target, dt float64) Vec2 {
	motion := target.Motion
	if integrator.Locked {
		motion = Vec2{}
	}

	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	if dt < 0 {
		dt = 0
	}

	factor := target.Rate * dt * referenceFrameRate
	if factor > 1 {
		factor = 1
	}
	if factor < 0 {
		factor = 0
	}

	integrator.Smoothed.X += (motion.X - integrator.Smoothed.X) * factor
	integrator.Smoothed.Y += (motion.Y - integrator.Smoothed.Y) * factor
	return integrator.Smoothed
}
