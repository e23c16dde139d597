package engine

import "depthwall/internal/motion"

// DisplacementParameters is the shared displacement record: written
// exactly once per frame by the engine, read by the renderer and by
// every effect that needs pixel-identical displacement. Consumers hold
// the pointer, never a copy — sharing the record is what keeps overlays
// locked to the base mesh. Single-threaded frame ordering guarantees
// the write completes before any reader runs in that frame.
type DisplacementParameters struct {
	Motion      motion.Vec2
	Focus       float64
	DepthScale  float64
	Sensitivity float64
	EdgeWidth   float64
	Time        float64 // seconds since engine start
}
