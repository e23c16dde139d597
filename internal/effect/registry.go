package effect

import (
	"path/filepath"

	"depthwall/internal/engine"
)

// Registry maps effect names to constructors. configDir is the
// background's directory; per-effect JSON configs live next to the
// image there.
func Registry(configDir string) map[string]engine.Registration {
	return map[string]engine.Registration{
		"lantern": {
			Type: engine.EffectPoint,
			New: func(facade *engine.Facade) (engine.Effect, error) {
				return NewLantern(facade, filepath.Join(configDir, "lantern.json"))
			},
		},
		"ripple": {
			Type: engine.EffectArea,
			New: func(facade *engine.Facade) (engine.Effect, error) {
				return NewRipple(facade, filepath.Join(configDir, "ripple.json"))
			},
		},
		"dust": {
			Type: engine.EffectScreen,
			New: func(facade *engine.Facade) (engine.Effect, error) {
				return NewDust(facade)
			},
		},
	}
}
