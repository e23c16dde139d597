package effect

import (
	"math"
	"math/rand"

	"depthwall/internal/engine"
	"depthwall/internal/motion"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Dust scatters slowly drifting motes over the whole viewport. The
// drift is biased by the shared motion vector so the particles parallax
// with the scene instead of floating over it.
type Dust struct {
	facade *engine.Facade
	system *System
	time   float64
}

func NewDust(facade *engine.Facade) (*Dust, error) {
	return &Dust{facade: facade}, nil
}

func (d *Dust) Init() error {
	d.system = NewSystem(EmitterConfig{
		Rate:      6,
		MaxCount:  120,
		LifeMin:   4,
		LifeMax:   10,
		SpeedMin:  4,
		SpeedMax:  14,
		SizeMin:   0.8,
		SizeMax:   2.4,
		Alpha:     0.45,
		Direction: -math.Pi / 2,
		Spread:    math.Pi,
	})
	return nil
}

func (d *Dust) Update(dt float64) {
	d.time += dt
	width := float64(rl.GetScreenWidth())
	height := float64(rl.GetScreenHeight())

	origin := motion.Vec2{
		X: rand.Float64() * width,
		Y: rand.Float64() * height,
	}
	d.system.Update(dt, origin)

	params := d.facade.Params()

	for _, p := range d.system.Particles {
		// Deeper (smaller) motes parallax less.
		depthFactor := p.Size / 2.4
		x := p.Position.X + params.Motion.X*40*depthFactor
		y := p.Position.Y - params.Motion.Y*40*depthFactor

		shimmer := 0.7 + 0.3*math.Sin(d.time*2+p.RandomValue)
		alpha := uint8(255 * p.Alpha * shimmer)
		rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(p.Size),
			rl.NewColor(255, 255, 240, alpha))
	}
}

func (d *Dust) Cleanup() {
	if d.system != nil {
		d.system.Clear()
	}
}
