package effect

import (
	"math"
	"math/rand"

	"depthwall/internal/motion"
)

// Particle is one live particle in screen space.
type Particle struct {
	Position    motion.Vec2
	Velocity    motion.Vec2
	Life        float64
	MaxLife     float64
	Size        float64
	InitialSize float64
	Alpha       float64
	RandomValue float64
}

// EmitterConfig tunes a particle system.
type EmitterConfig struct {
	Rate     float64 // spawns per second
	MaxCount int

	LifeMin, LifeMax   float64
	SpeedMin, SpeedMax float64
	SizeMin, SizeMax   float64
	Alpha              float64

	// Spawn box half-extents around the emitter origin.
	SpreadX, SpreadY float64

	// Emission direction in radians plus random spread.
	Direction float64
	Spread    float64

	// Gravity pulls velocity per second; positive Y is down in screen
	// space.
	Gravity motion.Vec2
}

// System is a rate-driven particle pool: a timer accumulator spawns at
// the configured rate, dead particles are spliced out, live ones
// integrate velocity and fade out over their lifetime.
type System struct {
	Config     EmitterConfig
	Particles  []*Particle
	timer      float64
	globalTime float64
}

func NewSystem(config EmitterConfig) *System {
	return &System{Config: config}
}

// Update advances the simulation by dt, spawning at origin.
func (s *System) Update(dt float64, origin motion.Vec2) {
	s.globalTime += dt

	maxCount := s.Config.MaxCount
	if maxCount <= 0 {
		maxCount = 100
	}

	if s.Config.Rate > 0 {
		s.timer += dt
		spawnInterval := 1.0 / s.Config.Rate
		for s.timer >= spawnInterval && len(s.Particles) < maxCount {
			s.spawn(origin)
			s.timer -= spawnInterval
		}
	}

	for i := 0; i < len(s.Particles); i++ {
		p := s.Particles[i]
		p.Life -= dt
		if p.Life <= 0 {
			s.Particles = append(s.Particles[:i], s.Particles[i+1:]...)
			i--
			continue
		}

		p.Velocity.X += s.Config.Gravity.X * dt
		p.Velocity.Y += s.Config.Gravity.Y * dt
		p.Position.X += p.Velocity.X * dt
		p.Position.Y += p.Velocity.Y * dt

		fade := p.Life / p.MaxLife
		p.Alpha = s.Config.Alpha * fade
		p.Size = p.InitialSize * (0.5 + 0.5*fade)
	}
}

// Burst spawns count particles at once at origin, ignoring the rate.
func (s *System) Burst(origin motion.Vec2, count int) {
	maxCount := s.Config.MaxCount
	if maxCount <= 0 {
		maxCount = 100
	}
	for i := 0; i < count && len(s.Particles) < maxCount; i++ {
		s.spawn(origin)
	}
}

func (s *System) spawn(origin motion.Vec2) {
	c := s.Config

	life := c.LifeMin + rand.Float64()*(c.LifeMax-c.LifeMin)
	if life <= 0 {
		life = 1
	}
	speed := c.SpeedMin + rand.Float64()*(c.SpeedMax-c.SpeedMin)
	size := c.SizeMin + rand.Float64()*(c.SizeMax-c.SizeMin)
	angle := c.Direction + (rand.Float64()*2-1)*c.Spread

	s.Particles = append(s.Particles, &Particle{
		Position: motion.Vec2{
			X: origin.X + (rand.Float64()*2-1)*c.SpreadX,
			Y: origin.Y + (rand.Float64()*2-1)*c.SpreadY,
		},
		Velocity: motion.Vec2{
			X: math.Cos(angle) * speed,
			Y: math.Sin(angle) * speed,
		},
		Life:        life,
		MaxLife:     life,
		Size:        size,
		InitialSize: size,
		Alpha:       c.Alpha,
		RandomValue: rand.Float64() * math.Pi * 2,
	})
}

// Clear drops every live particle.
func (s *System) Clear() {
	s.Particles = nil
}
