package engine

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"depthwall/internal/config"
	"depthwall/internal/convert"
	"depthwall/internal/depth"
	"depthwall/internal/motion"
	"depthwall/internal/utils"
	"depthwall/internal/viewport"
)

// Renderer is the engine's rendering collaborator. The engine owns the
// mesh and the frame ordering; the renderer owns GPU state, shader
// compilation and texture upload.
type Renderer interface {
	// UploadMesh replaces the displayed geometry and base texture.
	UploadMesh(mesh *depth.Mesh, img image.Image) error
	// SetTransform applies a changed mesh transform.
	SetTransform(transform viewport.MeshTransform)
	// Draw renders one frame from the shared displacement record.
	Draw(params *DisplacementParameters)
	// Unload releases GPU resources.
	Unload()
}

// Options configures a new engine.
type Options struct {
	Settings     config.Settings
	Renderer     Renderer
	Registry     map[string]Registration
	Effects      []string
	TouchCapable bool
}

// Engine is the top-level orchestrator: it owns the displacement mesh,
// fuses input into smoothed motion, maintains the viewport transform,
// writes the shared displacement record, and drives the renderer and
// the effect host in a fixed per-frame order.
type Engine struct {
	Settings config.Settings
	Params   DisplacementParameters
	Fusion   *motion.Fusion
	Mesh     *depth.Mesh

	integrator motion.Integrator
	tracker    *viewport.Tracker
	raster     *depth.Raster
	renderer   Renderer
	host       *Host
	facade     *Facade
	registry   map[string]Registration
	effects    []string

	touchCapable bool
	viewportW    float64
	viewportH    float64
	startedAt    time.Time
	alive        bool
}

// New assembles an engine. Call LoadBackground before stepping frames.
func New(opts Options) *Engine {
	settings := opts.Settings

	e := &Engine{
		Settings:     settings,
		Fusion:       motion.NewFusion(fusionSettings(settings)),
		renderer:     opts.Renderer,
		host:         NewHost(),
		registry:     opts.Registry,
		effects:      opts.Effects,
		touchCapable: opts.TouchCapable,
		alive:        true,
	}
	e.facade = &Facade{engine: e}
	return e
}

func fusionSettings(s config.Settings) motion.Settings {
	return motion.Settings{
		Focus:                s.Focus,
		BaseMouseSensitivity: s.BaseMouseSensitivity,
		SensitivityMin:       s.MouseSensitivity.Min,
		SensitivityMax:       s.MouseSensitivity.Max,
		IdleTimeout:          time.Duration(s.IdleTimeoutMs) * time.Millisecond,
		AutoEnabled:          s.AutoMovementEnabled,
		AutoEase:             s.AutoMovementSpeed,
		AutoCircleSpeed:      s.AutoMovementCircle,
		AutoRange:            s.AutoMovementRange,
		OrientationEnabled:   s.OrientationEnabled,
		OrientationFallback:  s.OrientationFallback,
		OrientationSens:      s.OrientationSens,
		OrientationThreshold: s.OrientationThreshold,
		OrientationMaxAngle:  s.OrientationMaxAngle,
		Easing:               s.Easing,
		ReturnToCenterEasing: s.ReturnToCenterEasing,
	}
}

// Facade returns the effect-module surface.
func (e *Engine) Facade() *Facade {
	return e.facade
}

// meshSegments derives the grid density from the configured depth map
// size. The upper clamp keeps the vertex count under 65536 so indices
// fit the GPU's 16-bit index buffers.
func (e *Engine) meshSegments() (int, int) {
	segments := e.Settings.DepthmapSize / 2
	if segments < 16 {
		segments = 16
	}
	if segments > 254 {
		segments = 254
	}
	return segments, segments
}

func decodeAsset(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".tex") {
		return convert.DecodeTexToImage(path)
	}
	return depth.DecodeImage(path)
}

// LoadBackground decodes the image and depth raster, runs the dilation
// pass, builds the displacement mesh, and hands geometry to the
// renderer. A decode failure is fatal: no mesh, no scene — the error
// propagates to the caller and nothing is retried.
func (e *Engine) LoadBackground(imagePath, depthPath string) error {
	img, err := decodeAsset(imagePath)
	if err != nil {
		return fmt.Errorf("engine: background image: %w", err)
	}

	depthImg, err := decodeAsset(depthPath)
	if err != nil {
		return fmt.Errorf("engine: depth map: %w", err)
	}

	raster := depth.FromImage(depthImg, e.Settings.DepthmapSize)
	raster.Expand(e.Settings.ExpandDepthmapRadius)

	segmentsX, segmentsY := e.meshSegments()
	mesh := depth.BuildMesh(raster, segmentsX, segmentsY, e.Settings.MeshDepth)

	if e.renderer != nil {
		if err := e.renderer.UploadMesh(mesh, img); err != nil {
			return fmt.Errorf("engine: mesh upload: %w", err)
		}
	}

	e.raster = raster
	e.Mesh = mesh
	e.tracker = viewport.NewTracker(
		mesh.Width, mesh.Height,
		e.Settings.CameraZ, e.Settings.ExtraScale,
		e.Settings.FocalPoint.X, e.Settings.FocalPoint.Y,
		e.Settings.ReferenceViewport.Width, e.Settings.ReferenceViewport.Height,
	)
	if e.viewportW > 0 {
		e.Resize(e.viewportW, e.viewportH)
	}

	utils.Info("Engine: background loaded (%dx%d raster, %d vertices)",
		raster.Width, raster.Height, mesh.VertexCount())
	return nil
}

// Start begins the clock and kicks off asynchronous effect loading.
// Rendering is interactive immediately; effects attach as their own
// init resolves.
func (e *Engine) Start(now time.Time) {
	e.startedAt = now
	e.Fusion.Start(now)
	e.host.Load(e.facade, e.registry, e.effects)
}

// Resize re-fits the mesh to a new viewport, re-evaluates the device
// class, and notifies effects if the transform changed.
func (e *Engine) Resize(viewportW, viewportH float64) {
	if !e.alive {
		return
	}
	e.viewportW, e.viewportH = viewportW, viewportH
	e.Fusion.Classify(e.touchCapable, viewportW)

	if e.tracker == nil {
		return
	}
	if e.tracker.Resize(viewportW, viewportH) {
		transform := e.tracker.Live()
		if e.renderer != nil {
			e.renderer.SetTransform(transform)
		}
		e.host.NotifyTransform(transform)
	}
}

// SetFocalPoint moves the crop focus at runtime.
func (e *Engine) SetFocalPoint(x, y float64) {
	if e.tracker == nil {
		return
	}
	e.tracker.SetFocalPoint(x, y)
	transform := e.tracker.Live()
	if e.renderer != nil {
		e.renderer.SetTransform(transform)
	}
	e.host.NotifyTransform(transform)
}

// SetTouchCapable records the probed touch capability and re-runs
// device classification against the current viewport.
func (e *Engine) SetTouchCapable(touchCapable bool) {
	e.touchCapable = touchCapable
	if e.viewportW > 0 {
		e.Fusion.Classify(touchCapable, e.viewportW)
	}
}

// SetMotionLock toggles the debug lock holding the view at center.
func (e *Engine) SetMotionLock(locked bool) {
	e.integrator.Locked = locked
}

// Step advances one frame: drain finished effect loads, fuse input,
// ease motion, write the shared displacement record, render the mesh,
// then update effects — all in this order, so every reader of the
// record sees this frame's write.
func (e *Engine) Step(now time.Time, dt float64) {
	if !e.alive {
		return
	}

	e.host.Drain()

	target := e.Fusion.Update(now)
	smoothed := e.integrator.Step(target, dt)

	e.Params.Motion = smoothed
	e.Params.Focus = e.Settings.Focus
	e.Params.DepthScale = e.Settings.MeshDepth
	e.Params.Sensitivity = e.Fusion.Sensitivity()
	e.Params.EdgeWidth = e.Settings.EdgeWidth
	e.Params.Time = now.Sub(e.startedAt).Seconds()

	if e.renderer != nil {
		e.renderer.Draw(&e.Params)
	}
	e.host.Update(dt)
}

// Host exposes the effect host (debug overlay, tests).
func (e *Engine) Host() *Host {
	return e.host
}

// Cleanup tears the engine down: effects first, then the renderer.
// Terminal; any callback firing afterwards sees alive == false and
// early-returns.
func (e *Engine) Cleanup() {
	if !e.alive {
		return
	}
	e.alive = false
	e.host.Cleanup()
	if e.renderer != nil {
		e.renderer.Unload()
	}
}
