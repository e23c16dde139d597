package motion

import (
	"math"
	"testing"
)

const frame = 1.0 / 60.0

func TestStepFullRateConvergesInOneFrame(t *testing.T) {
	var integrator Integrator
	target := Target{Motion: Vec2{X: 0.7, Y: -0.3}, Rate: 1.0}

	got := integrator.Step(target, frame)
	if math.Abs(got.X-0.7) > 1e-12 || math.Abs(got.Y+0.3) > 1e-12 {
		t.Errorf("smoothed = %v, want target %v after one frame at rate 1", got, target.Motion)
	}
}

func TestStepZeroRateNeverMoves(t *testing.T) {
	integrator := Integrator{Smoothed: Vec2{X: 0.2, Y: 0.2}}
	target := Target{Motion: Vec2{X: 1, Y: 1}, Rate: 0}

	for i := 0; i < 1000; i++ {
		integrator.Step(target, frame)
	}
	if integrator.Smoothed != (Vec2{X: 0.2, Y: 0.2}) {
		t.Errorf("smoothed = %v, want unchanged at rate 0", integrator.Smoothed)
	}
}

func TestStepLagsTarget(t *testing.T) {
	var integrator Integrator
	target := Target{Motion: Vec2{X: 1}, Rate: 0.1}

	previous := 0.0
	for i := 0; i < 50; i++ {
		got := integrator.Step(target, frame)
		if got.X <= previous && got.X < 1 {
			t.Fatalf("step %d: smoothed stopped converging at %v", i, got.X)
		}
		if got.X > 1 {
			t.Fatalf("step %d: overshoot to %v", i, got.X)
		}
		previous = got.X
	}
	if previous >= 1 {
		t.Error("smoothed should still lag target at rate 0.1 after 50 frames")
	}
}

func TestStepDeltaTimeCap(t *testing.T) {
	var a, b Integrator
	target := Target{Motion: Vec2{X: 1}, Rate: 0.06}

	// A five-second stall (backgrounded window) behaves exactly like a
	// 100 ms frame.
	gotStall := a.Step(target, 5.0)
	gotCap := b.Step(target, 0.1)

	if gotStall != gotCap {
		t.Errorf("stall frame = %v, capped frame = %v, want equal", gotStall, gotCap)
	}
	if gotStall.X > 1 {
		t.Errorf("stall frame overshot: %v", gotStall)
	}
}

func TestStepLockedHoldsCenter(t *testing.T) {
	integrator := Integrator{Smoothed: Vec2{X: 0.5, Y: 0.5}, Locked: true}
	target := Target{Motion: Vec2{X: 1, Y: 1}, Rate: 1}

	got := integrator.Step(target, frame)
	if got != (Vec2{}) {
		t.Errorf("locked smoothed = %v, want {0 0}", got)
	}
}
