package engine

import (
	"errors"
	"testing"
	"time"

	"depthwall/internal/viewport"
)

type stubEffect struct {
	initErr    error
	initPanics bool

	updates  int
	cleanups int
}

func (s *stubEffect) Init() error {
	if s.initPanics {
		panic("boom")
	}
	return s.initErr
}

func (s *stubEffect) Update(dt float64) { s.updates++ }
func (s *stubEffect) Cleanup()          { s.cleanups++ }

func registrationFor(effect *stubEffect) Registration {
	return Registration{
		Type: EffectScreen,
		New:  func(*Facade) (Effect, error) { return effect, nil },
	}
}

// drainAll waits for every in-flight load to land in the registry or
// fail, by polling the frame-boundary drain.
func drainAll(t *testing.T, h *Host, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.Drain()
		if len(h.Effects()) >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	h.Drain()
}

func TestLoadIsolatesFailingEffects(t *testing.T) {
	healthy := &stubEffect{}
	failing := &stubEffect{initErr: errors.New("no such feature point")}
	panicking := &stubEffect{initPanics: true}

	registry := map[string]Registration{
		"healthy":   registrationFor(healthy),
		"failing":   registrationFor(failing),
		"panicking": registrationFor(panicking),
	}

	host := NewHost()
	host.Load(nil, registry, []string{"failing", "healthy", "panicking", "unknown"})
	drainAll(t, host, 1)

	effects := host.Effects()
	if len(effects) != 1 {
		t.Fatalf("loaded %d effects, want 1 (only the healthy one)", len(effects))
	}
	if effects[0].Name != "healthy" {
		t.Errorf("loaded effect = %q, want %q", effects[0].Name, "healthy")
	}

	host.Update(1.0 / 60.0)
	if healthy.updates != 1 {
		t.Errorf("healthy effect updates = %d, want 1", healthy.updates)
	}
	if failing.updates != 0 || panicking.updates != 0 {
		t.Error("failed effects must not appear in update iteration")
	}
}

func TestUpdateBeforeAnyLoadFinishes(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	slow := Registration{
		Type: EffectScreen,
		New: func(*Facade) (Effect, error) {
			close(started)
			<-release
			return &stubEffect{}, nil
		},
	}

	host := NewHost()
	host.Load(nil, map[string]Registration{"slow": slow}, []string{"slow"})
	<-started

	// Frame loop keeps running while the module is still initializing.
	host.Drain()
	host.Update(1.0 / 60.0)
	if len(host.Effects()) != 0 {
		t.Fatal("effect joined the registry before its init resolved")
	}

	close(release)
	drainAll(t, host, 1)
	if len(host.Effects()) != 1 {
		t.Fatal("effect never joined the registry after init resolved")
	}
}

type anchoredEffect struct {
	stubEffect
	transforms []viewport.MeshTransform
}

func (a *anchoredEffect) ApplyMeshTransform(transform viewport.MeshTransform) {
	a.transforms = append(a.transforms, transform)
}

func TestDrainDeliversCurrentTransform(t *testing.T) {
	release := make(chan struct{})
	late := &anchoredEffect{}
	slow := Registration{
		Type: EffectPoint,
		New: func(*Facade) (Effect, error) {
			<-release
			return late, nil
		},
	}

	host := NewHost()
	host.Load(nil, map[string]Registration{"glow": slow}, []string{"glow"})

	// The resize happens while the effect is still loading; it must
	// still receive the transform when it joins the registry.
	current := viewport.MeshTransform{Scale: 1.5, BaseWidth: 16, BaseHeight: 9}
	host.NotifyTransform(current)

	close(release)
	drainAll(t, host, 1)

	if len(late.transforms) != 1 {
		t.Fatalf("transform deliveries = %d, want 1 at drain", len(late.transforms))
	}
	if late.transforms[0] != current {
		t.Errorf("delivered transform = %+v, want %+v", late.transforms[0], current)
	}
}

func TestCleanupReleasesLoadedEffects(t *testing.T) {
	effect := &stubEffect{}
	host := NewHost()
	host.Load(nil, map[string]Registration{"e": registrationFor(effect)}, []string{"e"})
	drainAll(t, host, 1)

	host.Cleanup()
	if effect.cleanups != 1 {
		t.Errorf("cleanups = %d, want 1", effect.cleanups)
	}
	if len(host.Effects()) != 0 {
		t.Error("registry not emptied by cleanup")
	}
}

func TestCleanupDiscardsLateArrivals(t *testing.T) {
	release := make(chan struct{})
	late := &stubEffect{}
	slow := Registration{
		Type: EffectScreen,
		New: func(*Facade) (Effect, error) {
			<-release
			return late, nil
		},
	}

	host := NewHost()
	host.Load(nil, map[string]Registration{"late": slow}, []string{"late"})
	host.Cleanup()
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for late.cleanups == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if late.cleanups != 1 {
		t.Error("late-arriving effect never released its resources")
	}
	if len(host.Effects()) != 0 {
		t.Error("late arrival joined a closed host")
	}
}
