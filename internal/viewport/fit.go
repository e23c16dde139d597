package viewport

import "math"

// DefaultFOV is the vertical field of view used by the perspective
// camera: 2*atan(0.5), so the visible height at the mesh plane equals
// the camera distance exactly. That keeps cover-fit math in round
// numbers (cameraZ 10 sees 10 units of height).
var DefaultFOV = 2 * math.Atan(0.5)

// Vec2 is a 2D point or offset.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D position.
type Vec3 struct {
	X, Y, Z float64
}

// CoverFit is the result of fitting a mesh over a viewport.
type CoverFit struct {
	Scale    float64
	VisibleW float64 // world units visible at the mesh plane
	VisibleH float64
}

// ComputeCoverFit scales a mesh to fully cover the viewport, cropping
// overflow ("background-size: cover"). The visible extent at the mesh
// plane follows from the projection (fovY, cameraZ); the scale axis is
// chosen by aspect comparison — width ratio when the viewport is wider
// than the mesh, height ratio otherwise — then multiplied by extraScale
// (>1) so pointer displacement never reveals a mesh edge.
func ComputeCoverFit(viewportW, viewportH, meshW, meshH, cameraZ, fovY, extraScale float64) CoverFit {
	if viewportH <= 0 || meshW <= 0 || meshH <= 0 {
		return CoverFit{Scale: extraScale}
	}

	visibleH := 2 * math.Tan(fovY/2) * cameraZ
	viewportAspect := viewportW / viewportH
	visibleW := visibleH * viewportAspect

	meshAspect := meshW / meshH

	var scale float64
	if viewportAspect > meshAspect {
		scale = visibleW / meshW
	} else {
		scale = visibleH / meshH
	}
	scale *= extraScale

	return CoverFit{
		Scale:    scale,
		VisibleW: visibleW,
		VisibleH: visibleH,
	}
}

// PointerToUV maps a pointer position in NDC ([-1, 1] per axis, Y up)
// to image UV under the given mesh transform, by casting through the
// perspective projection onto the mesh plane. Screen fractions and
// image UV diverge whenever extraScale or the focal crop leaves part of
// the mesh outside the viewport, so region tests authored in UV space
// must go through this rather than reading screen fractions directly.
func PointerToUV(ndc Vec2, viewportW, viewportH, cameraZ float64, t MeshTransform) Vec2 {
	if viewportH <= 0 {
		return Vec2{X: 0.5, Y: 0.5}
	}
	halfH := math.Tan(DefaultFOV/2) * cameraZ
	halfW := halfH * viewportW / viewportH
	return t.UV(Vec3{X: ndc.X * halfW, Y: ndc.Y * halfH})
}

// ComputeFocalOffset positions the oversized mesh so the focal point
// (UV in [0,1]) sits centered in the viewport. Overflow is the scaled
// mesh size minus the visible size per axis; 0.5 centers the crop, 0
// shows the left/bottom edge, 1 the right/top edge.
func ComputeFocalOffset(fit CoverFit, meshW, meshH float64, focalX, focalY float64) Vec2 {
	overflowX := meshW*fit.Scale - fit.VisibleW
	overflowY := meshH*fit.Scale - fit.VisibleH

	return Vec2{
		X: (0.5 - focalX) * overflowX,
		Y: (0.5 - focalY) * overflowY,
	}
}
