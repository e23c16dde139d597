package effect

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"depthwall/internal/engine"
	"depthwall/internal/motion"
	"depthwall/internal/viewport"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// LanternPoint is one glow anchor, authored in image-UV space against
// the reference viewport.
type LanternPoint struct {
	U      float64   `json:"u"`
	V      float64   `json:"v"`
	Depth  float64   `json:"depth"`
	Radius float64   `json:"radius"`
	Color  []float64 `json:"color"`

	world viewport.Vec3
	phase float64
}

type lanternConfig struct {
	Points []LanternPoint `json:"points"`
}

// Lantern renders flickering glows pinned to depth features of the
// background. Anchors are authored in UV space and stay locked to the
// displaced mesh by applying the shared displacement record's offset
// each frame.
type Lantern struct {
	facade *engine.Facade
	path   string

	points []LanternPoint
	sparks *System
	time   float64
}

func NewLantern(facade *engine.Facade, configPath string) (*Lantern, error) {
	return &Lantern{facade: facade, path: configPath}, nil
}

// Init parses the anchor config. No GPU work happens here; this runs
// off the frame goroutine.
func (l *Lantern) Init() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("lantern: %w", err)
	}
	var cfg lanternConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("lantern: %w", err)
	}
	if len(cfg.Points) == 0 {
		return fmt.Errorf("lantern: no points in %s", l.path)
	}

	l.points = cfg.Points
	for i := range l.points {
		if l.points[i].Radius <= 0 {
			l.points[i].Radius = 40
		}
		l.points[i].phase = float64(i) * 1.7
	}
	// World anchors come from the host on the frame goroutine, via
	// ApplyMeshTransform at drain.

	l.sparks = NewSystem(EmitterConfig{
		Rate:     3,
		MaxCount: 60,
		LifeMin:  0.8,
		LifeMax:  2.0,
		SpeedMin: 8,
		SpeedMax: 24,
		SizeMin:  1,
		SizeMax:  3,
		Alpha:    0.8,
		SpreadX:  6,
		SpreadY:  6,
		// Up, in screen space.
		Direction: -math.Pi / 2,
		Spread:    0.6,
	})
	return nil
}

// ApplyMeshTransform re-anchors every point; cached world positions go
// stale the moment the cover-fit changes.
func (l *Lantern) ApplyMeshTransform(transform viewport.MeshTransform) {
	for i := range l.points {
		l.points[i].world = transform.WorldPosition(l.points[i].U, l.points[i].V)
	}
}

// displacedWorld applies the same shift the vertex shader applies, so
// the glow rides the mesh instead of sliding across it.
func (l *Lantern) displacedWorld(p *LanternPoint) viewport.Vec3 {
	params := l.facade.Params()
	transform := l.facade.LiveTransform()

	relief := p.Depth - params.Focus
	shift := params.Sensitivity * relief * params.DepthScale
	return viewport.Vec3{
		X: p.world.X + params.Motion.X*shift*transform.Scale,
		Y: p.world.Y + params.Motion.Y*shift*transform.Scale,
		Z: p.Depth*params.DepthScale*transform.Scale + p.world.Z,
	}
}

func (l *Lantern) Update(dt float64) {
	l.time += dt
	camera := sceneCamera(l.facade)

	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range l.points {
		p := &l.points[i]
		world := l.displacedWorld(p)
		screen := rl.GetWorldToScreen(
			rl.NewVector3(float32(world.X), float32(world.Y), float32(world.Z)), camera)

		flicker := 0.75 + 0.25*math.Sin(l.time*3+p.phase)
		radius := float32(p.Radius * flicker)

		r, g, b := pointColor(p)
		inner := rl.NewColor(r, g, b, uint8(140*flicker))
		rl.DrawCircleGradient(rl.NewVector2(screen.X, screen.Y), radius, inner, rl.Blank)

		origin := motion.Vec2{X: float64(screen.X), Y: float64(screen.Y)}
		l.sparks.Update(dt/float64(len(l.points)), origin)
	}

	for _, spark := range l.sparks.Particles {
		rl.DrawCircleV(
			rl.NewVector2(float32(spark.Position.X), float32(spark.Position.Y)),
			float32(spark.Size),
			rl.NewColor(255, 220, 150, uint8(255*spark.Alpha)),
		)
	}
	rl.EndBlendMode()
}

func (l *Lantern) Cleanup() {
	if l.sparks != nil {
		l.sparks.Clear()
	}
}

func pointColor(p *LanternPoint) (uint8, uint8, uint8) {
	if len(p.Color) < 3 {
		return 255, 200, 120
	}
	return uint8(p.Color[0] * 255), uint8(p.Color[1] * 255), uint8(p.Color[2] * 255)
}

// sceneCamera mirrors the renderer's fixed camera so effects project
// world positions to the same pixels the mesh lands on.
func sceneCamera(facade *engine.Facade) rl.Camera3D {
	settings := facade.Config()
	return rl.Camera3D{
		Position:   rl.NewVector3(0, 0, float32(settings.CameraZ)),
		Target:     rl.NewVector3(0, 0, 0),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       float32(viewport.DefaultFOV * 180 / math.Pi),
		Projection: rl.CameraPerspective,
	}
}
