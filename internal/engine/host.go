package engine

import (
	"fmt"
	"sync"

	"depthwall/internal/utils"
	"depthwall/internal/viewport"
)

// EffectType classifies how an effect anchors to the scene.
type EffectType int

const (
	EffectPoint  EffectType = iota // anchored to image-UV feature points
	EffectArea                     // masked region of the background
	EffectScreen                   // whole-viewport overlay
)

// Effect is the contract every overlay module fulfils. Init runs off
// the frame goroutine and must not touch GPU state; create GPU
// resources lazily on the first Update, which always runs on the frame
// goroutine. Cleanup releases everything the module allocated.
type Effect interface {
	Init() error
	Update(dt float64)
	Cleanup()
}

// TransformListener is implemented by effects that cache world
// positions derived from the mesh transform; the host notifies them on
// every transform change.
type TransformListener interface {
	ApplyMeshTransform(transform viewport.MeshTransform)
}

// Registration describes one constructible effect. Effects are
// resolved through this explicit registry; there is no dynamic loading.
type Registration struct {
	Type EffectType
	New  func(facade *Facade) (Effect, error)
}

// Handle is one successfully initialized effect instance.
type Handle struct {
	Name     string
	Type     EffectType
	Instance Effect
}

// Host loads, updates, and tears down effect modules. Initialization is
// asynchronous and isolated: every module loads in its own goroutine,
// a failing module is logged and excluded, and the base scene renders
// and reacts to input before any effect finishes loading. Finished
// instances arrive over a channel and join the registry only at the
// frame-boundary drain, so iteration never observes a mid-frame append.
type Host struct {
	mu      sync.Mutex
	pending chan Handle
	closed  bool

	// Frame-goroutine only after drain.
	effects      []Handle
	transform    viewport.MeshTransform
	hasTransform bool
}

// NewHost creates an empty effect host.
func NewHost() *Host {
	return &Host{}
}

// Load starts asynchronous initialization of the named effects. Unknown
// names and failing modules are logged and skipped; Load never blocks
// on module init and never fails the caller.
func (h *Host) Load(facade *Facade, registry map[string]Registration, names []string) {
	h.pending = make(chan Handle, len(names))

	for _, name := range names {
		registration, ok := registry[name]
		if !ok {
			utils.Warn("Effect: unknown effect %q, skipping", name)
			continue
		}

		go func(name string, registration Registration) {
			handle, err := buildEffect(name, registration, facade)
			if err != nil {
				utils.Error("Effect: %s failed to load: %v", name, err)
				return
			}

			h.mu.Lock()
			defer h.mu.Unlock()
			if h.closed {
				// Engine torn down while we were loading; the instance
				// never joined the registry, release it here.
				handle.Instance.Cleanup()
				return
			}
			h.pending <- handle
		}(name, registration)
	}
}

func buildEffect(name string, registration Registration, facade *Facade) (handle Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during init: %v", r)
		}
	}()

	instance, err := registration.New(facade)
	if err != nil {
		return Handle{}, err
	}
	if err := instance.Init(); err != nil {
		return Handle{}, err
	}

	utils.Info("Effect: %s loaded", name)
	return Handle{Name: name, Type: registration.Type, Instance: instance}, nil
}

// Drain moves finished effects into the registry. Called once per frame
// on the frame goroutine, before Update. Effects joining after the last
// resize receive the current mesh transform here; init runs off the
// frame goroutine and must not read it itself.
func (h *Host) Drain() {
	if h.pending == nil {
		return
	}
	for {
		select {
		case handle := <-h.pending:
			h.effects = append(h.effects, handle)
			if h.hasTransform {
				if listener, ok := handle.Instance.(TransformListener); ok {
					listener.ApplyMeshTransform(h.transform)
				}
			}
		default:
			return
		}
	}
}

// Update steps every loaded effect. Modules still loading simply are
// not in the registry yet.
func (h *Host) Update(dt float64) {
	for _, handle := range h.effects {
		handle.Instance.Update(dt)
	}
}

// NotifyTransform pushes a changed mesh transform to every effect that
// listens for it, and records it for effects still loading.
func (h *Host) NotifyTransform(transform viewport.MeshTransform) {
	h.transform = transform
	h.hasTransform = true
	for _, handle := range h.effects {
		if listener, ok := handle.Instance.(TransformListener); ok {
			listener.ApplyMeshTransform(transform)
		}
	}
}

// Effects returns the current registry snapshot.
func (h *Host) Effects() []Handle {
	return h.effects
}

// Cleanup tears down every loaded effect and marks the host terminal;
// in-flight loads that finish afterwards release their own resources
// and are discarded.
func (h *Host) Cleanup() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	h.Drain()
	for _, handle := range h.effects {
		handle.Instance.Cleanup()
	}
	h.effects = nil
}
