package engine

import (
	"depthwall/internal/config"
	"depthwall/internal/depth"
	"depthwall/internal/motion"
	"depthwall/internal/viewport"
)

// Facade is the engine surface handed to effect modules. It exposes
// exactly what an overlay needs to stay geometrically locked to the
// moving mesh: the live and canonical transforms, the shared
// displacement record, a geometry-clone factory, and raw input state.
type Facade struct {
	engine *Engine
}

// LiveTransform returns the current mesh transform. Frame-goroutine
// only: reading it from Init races with resize. Effects that position
// features in image-UV space implement TransformListener instead; the
// host delivers the current transform when they join the registry and
// on every change after.
func (f *Facade) LiveTransform() viewport.MeshTransform {
	if f.engine.tracker == nil {
		return viewport.MeshTransform{}
	}
	return f.engine.tracker.Live()
}

// CanonicalTransform returns the cached transform at the configured
// reference viewport, or nil before depth data has loaded. Effects may
// author feature coordinates against the reference viewport and remap
// through this instead of baking device pixels into their config.
func (f *Facade) CanonicalTransform() *viewport.MeshTransform {
	if f.engine.tracker == nil {
		return nil
	}
	c := f.engine.tracker.Canonical()
	return &c
}

// Params returns the shared displacement record by reference. Read it
// every frame; copying it once at init breaks displacement lock.
func (f *Facade) Params() *DisplacementParameters {
	return &f.engine.Params
}

// CloneGeometry builds overlay geometry from the engine's depth raster
// with the same builder as the base mesh, at full or caller-chosen
// coarse resolution, so the overlay's displacement response is
// pixel-compatible. Returns nil before depth data has loaded; callers
// handle that defensively rather than erroring.
func (f *Facade) CloneGeometry(segmentsX, segmentsY int) *depth.Mesh {
	raster := f.engine.raster
	if raster == nil {
		return nil
	}
	if segmentsX <= 0 || segmentsY <= 0 {
		segmentsX, segmentsY = f.engine.meshSegments()
	}
	return depth.BuildMesh(raster, segmentsX, segmentsY, f.engine.Settings.MeshDepth)
}

// BaseMesh returns the engine's own displacement mesh (nil before
// load). Read-only; overlays that need geometry of their own use
// CloneGeometry.
func (f *Facade) BaseMesh() *depth.Mesh {
	return f.engine.Mesh
}

// ViewportSize returns the current viewport dimensions in pixels, or
// zeros before the first resize.
func (f *Facade) ViewportSize() (float64, float64) {
	return f.engine.viewportW, f.engine.viewportH
}

// Input exposes the raw fused input state (pointer NDC coordinates,
// active mode, orientation values).
func (f *Facade) Input() *motion.Fusion {
	return f.engine.Fusion
}

// Config returns a copy of the background settings, for effects that
// read camera or tuning values from the same config.json.
func (f *Facade) Config() config.Settings {
	return f.engine.Settings
}
