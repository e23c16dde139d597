package effect

import (
	"encoding/json"
	"math"
	"os"

	"depthwall/internal/engine"
	"depthwall/internal/motion"
	"depthwall/internal/viewport"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// rippleRegion bounds the water area in image-UV space.
type rippleRegion struct {
	U0 float64 `json:"u0"`
	V0 float64 `json:"v0"`
	U1 float64 `json:"u1"`
	V1 float64 `json:"v1"`
}

type rippleConfig struct {
	Region      rippleRegion `json:"region"`
	MaxRings    int          `json:"maxRings"`
	GrowSpeed   float64      `json:"growSpeed"`
	RingLife    float64      `json:"ringLife"`
	WakeSpacing float64      `json:"wakeSpacing"`
}

type ring struct {
	center motion.Vec2
	radius float64
	life   float64
	max    float64
}

// Ripple draws expanding wake rings where the pointer crosses the
// configured water region. The region is authored in image-UV space;
// the pointer is unprojected through the live transform into that same
// space before the region test, so the wake stays on the pictured
// water under any overscan or focal crop.
type Ripple struct {
	facade *engine.Facade
	path   string

	config      rippleConfig
	rings       []ring
	lastSpawnAt motion.Vec2
	hasSpawned  bool
	idleTimer   float64
}

func NewRipple(facade *engine.Facade, configPath string) (*Ripple, error) {
	return &Ripple{facade: facade, path: configPath}, nil
}

// Init loads the region config; a missing file falls back to the lower
// third of the image, which is where water usually is.
func (r *Ripple) Init() error {
	r.config = rippleConfig{
		Region:      rippleRegion{U0: 0, V0: 0.66, U1: 1, V1: 1},
		MaxRings:    24,
		GrowSpeed:   90,
		RingLife:    1.6,
		WakeSpacing: 0.04,
	}

	if data, err := os.ReadFile(r.path); err == nil {
		if err := json.Unmarshal(data, &r.config); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ripple) pointerUV() (motion.Vec2, bool) {
	fusion := r.facade.Input()
	if !fusion.PointerOnScreen {
		return motion.Vec2{}, false
	}
	width, height := r.facade.ViewportSize()
	if width <= 0 || height <= 0 {
		return motion.Vec2{}, false
	}
	uv := viewport.PointerToUV(
		viewport.Vec2{X: fusion.PointerRaw.X, Y: fusion.PointerRaw.Y},
		width, height, r.facade.Config().CameraZ, r.facade.LiveTransform(),
	)
	return motion.Vec2{X: uv.X, Y: uv.Y}, true
}

func (r *Ripple) inRegion(uv motion.Vec2) bool {
	region := r.config.Region
	return uv.X >= region.U0 && uv.X <= region.U1 &&
		uv.Y >= region.V0 && uv.Y <= region.V1
}

func (r *Ripple) Update(dt float64) {
	uv, onScreen := r.pointerUV()

	if onScreen && r.inRegion(uv) {
		spacing := r.config.WakeSpacing
		dx, dy := uv.X-r.lastSpawnAt.X, uv.Y-r.lastSpawnAt.Y
		moved := math.Sqrt(dx*dx + dy*dy)

		// A wake ring per spacing step while moving, plus a slow drip of
		// rings while hovering still.
		r.idleTimer += dt
		if !r.hasSpawned || moved >= spacing || r.idleTimer > 0.8 {
			r.spawnRing(uv)
			r.lastSpawnAt = uv
			r.hasSpawned = true
			r.idleTimer = 0
		}
	}

	transform := r.facade.LiveTransform()
	camera := sceneCamera(r.facade)

	alive := r.rings[:0]
	for _, rg := range r.rings {
		rg.life -= dt
		if rg.life <= 0 {
			continue
		}
		rg.radius += r.config.GrowSpeed * dt
		alive = append(alive, rg)

		fade := rg.life / rg.max
		world := transform.WorldPosition(rg.center.X, rg.center.Y)
		screen := rl.GetWorldToScreen(
			rl.NewVector3(float32(world.X), float32(world.Y), float32(world.Z)), camera)
		color := rl.NewColor(200, 230, 255, uint8(120*fade))
		rl.DrawRing(screen, float32(rg.radius)-1.5, float32(rg.radius)+1.5, 0, 360, 48, color)
	}
	r.rings = alive
}

func (r *Ripple) spawnRing(uv motion.Vec2) {
	if len(r.rings) >= r.config.MaxRings {
		r.rings = r.rings[1:]
	}
	r.rings = append(r.rings, ring{
		center: uv,
		radius: 4,
		life:   r.config.RingLife,
		max:    r.config.RingLife,
	})
}

func (r *Ripple) Cleanup() {
	r.rings = nil
}
