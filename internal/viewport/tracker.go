package viewport

// MeshTransform describes how the static mesh, authored in local units,
// is scaled and positioned to cover a viewport.
type MeshTransform struct {
	Scale        float64
	Position     Vec3
	BaseWidth    float64
	BaseHeight   float64
}

// CurrentSize returns the scaled mesh extent in world units.
func (t MeshTransform) CurrentSize() (float64, float64) {
	return t.BaseWidth * t.Scale, t.BaseHeight * t.Scale
}

// WorldPosition maps an image-UV coordinate (0..1, v down) to a world
// position under this transform. Effects that author feature positions
// in UV space recompute through this whenever the transform changes.
func (t MeshTransform) WorldPosition(u, v float64) Vec3 {
	w, h := t.CurrentSize()
	return Vec3{
		X: (u-0.5)*w + t.Position.X,
		Y: (0.5-v)*h + t.Position.Y,
		Z: t.Position.Z,
	}
}

// UV inverts WorldPosition, mapping a world position back to image UV.
func (t MeshTransform) UV(p Vec3) Vec2 {
	w, h := t.CurrentSize()
	if w == 0 || h == 0 {
		return Vec2{X: 0.5, Y: 0.5}
	}
	return Vec2{
		X: (p.X-t.Position.X)/w + 0.5,
		Y: 0.5 - (p.Y-t.Position.Y)/h,
	}
}

// Tracker owns the live mesh transform, recomputed on every resize or
// focal-point change, plus a canonical transform computed once against
// the configured reference viewport and cached until the background
// changes. Both derive from the identical cover-fit formula, which is
// what lets effects author positions in reference-viewport space and
// remap them deterministically to any live viewport.
type Tracker struct {
	CameraZ    float64
	FOV        float64
	ExtraScale float64
	FocalX     float64
	FocalY     float64

	ReferenceW float64
	ReferenceH float64

	baseW, baseH float64
	viewportW    float64
	viewportH    float64

	live      MeshTransform
	canonical *MeshTransform
}

// NewTracker builds a tracker for a mesh of the given base size.
func NewTracker(baseW, baseH, cameraZ, extraScale, focalX, focalY, referenceW, referenceH float64) *Tracker {
	t := &Tracker{
		CameraZ:    cameraZ,
		FOV:        DefaultFOV,
		ExtraScale: extraScale,
		FocalX:     focalX,
		FocalY:     focalY,
		ReferenceW: referenceW,
		ReferenceH: referenceH,
		baseW:      baseW,
		baseH:      baseH,
	}
	return t
}

func (t *Tracker) compute(viewportW, viewportH float64) MeshTransform {
	fit := ComputeCoverFit(viewportW, viewportH, t.baseW, t.baseH, t.CameraZ, t.FOV, t.ExtraScale)
	offset := ComputeFocalOffset(fit, t.baseW, t.baseH, t.FocalX, t.FocalY)

	return MeshTransform{
		Scale:      fit.Scale,
		Position:   Vec3{X: offset.X, Y: offset.Y, Z: 0},
		BaseWidth:  t.baseW,
		BaseHeight: t.baseH,
	}
}

// Resize recomputes the live transform for a new viewport size and
// reports whether it changed.
func (t *Tracker) Resize(viewportW, viewportH float64) bool {
	t.viewportW, t.viewportH = viewportW, viewportH
	next := t.compute(viewportW, viewportH)
	if next == t.live {
		return false
	}
	t.live = next
	return true
}

// SetFocalPoint moves the crop focus and recomputes the live transform.
// The canonical transform is invalidated: it bakes in the focal point.
func (t *Tracker) SetFocalPoint(x, y float64) {
	t.FocalX, t.FocalY = x, y
	t.canonical = nil
	t.live = t.compute(t.viewportW, t.viewportH)
}

// SetBaseSize swaps the mesh geometry (background change); the cached
// canonical transform is dropped with it.
func (t *Tracker) SetBaseSize(baseW, baseH float64) {
	t.baseW, t.baseH = baseW, baseH
	t.canonical = nil
	t.live = t.compute(t.viewportW, t.viewportH)
}

// Live returns the current live transform.
func (t *Tracker) Live() MeshTransform {
	return t.live
}

// Canonical returns the transform at the reference viewport size,
// computing and caching it on first use. Deterministic: two calls with
// the same configuration yield bit-identical transforms.
func (t *Tracker) Canonical() MeshTransform {
	if t.canonical == nil {
		c := t.compute(t.ReferenceW, t.ReferenceH)
		t.canonical = &c
	}
	return *t.canonical
}
