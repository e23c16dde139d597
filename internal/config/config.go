package config

import (
	"encoding/json"
	"os"

	"depthwall/internal/utils"
)

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Settings is the recognized subset of a background's config.json
// "settings" object. Unknown keys are ignored; missing keys keep their
// defaults.
type Settings struct {
	Focus                float64  `json:"focus"`
	BaseMouseSensitivity float64  `json:"baseMouseSensitivity"`
	DevicePixelRatio     DPR      `json:"devicePixelRatio"`
	ExpandDepthmapRadius int      `json:"expandDepthmapRadius"`
	DepthmapSize         int      `json:"depthmapSize"`
	MeshDepth            float64  `json:"meshDepth"`
	Easing               float64  `json:"easing"`
	EdgeWidth            float64  `json:"edgeWidth"`
	CameraZ              float64  `json:"cameraZ"`
	ExtraScale           float64  `json:"extraScale"`
	FocalPoint           Vec2     `json:"focalPoint"`
	MouseSensitivity     Range    `json:"mouseSensitivityFocusFactor"`
	IdleTimeoutMs        float64  `json:"idleTimeout"`
	AutoMovementSpeed    float64  `json:"autoMovementSpeed"`
	AutoMovementRange    float64  `json:"autoMovementRange"`
	AutoMovementEnabled  bool     `json:"autoMovementEnabled"`
	AutoMovementCircle   float64  `json:"autoMovementCircleSpeed"`
	ReturnToCenterEasing float64  `json:"returnToCenterEasing"`
	OrientationSens      float64  `json:"orientationSensitivity"`
	OrientationThreshold float64  `json:"orientationThreshold"`
	OrientationMaxAngle  float64  `json:"orientationMaxAngle"`
	OrientationEnabled   bool     `json:"orientationEnabled"`
	OrientationFallback  bool     `json:"orientationFallbackToTouch"`
	ReferenceViewport    Viewport `json:"referenceViewport"`
	Sound                string   `json:"sound"`
	SoundVolume          float64  `json:"soundVolume"`
}

type fileSchema struct {
	Settings *Settings `json:"settings"`
}

// Defaults returns the built-in settings used when config.json is
// missing, unparsable, or silent on a key.
func Defaults() Settings {
	return Settings{
		Focus:                0.5,
		BaseMouseSensitivity: 0.5,
		DevicePixelRatio:     DPR{Value: 1},
		ExpandDepthmapRadius: 0,
		DepthmapSize:         512,
		MeshDepth:            1.0,
		Easing:               0.06,
		EdgeWidth:            0.02,
		CameraZ:              10,
		ExtraScale:           1.2,
		FocalPoint:           Vec2{X: 0.5, Y: 0.5},
		MouseSensitivity:     Range{Min: 0.3, Max: 1.0},
		IdleTimeoutMs:        15000,
		AutoMovementSpeed:    0.25,
		AutoMovementRange:    0.4,
		AutoMovementEnabled:  true,
		AutoMovementCircle:   0.3,
		ReturnToCenterEasing: 0.1,
		OrientationSens:      1.0,
		OrientationThreshold: 1.5,
		OrientationMaxAngle:  25,
		OrientationEnabled:   true,
		OrientationFallback:  true,
		ReferenceViewport:    Viewport{Width: 1920, Height: 1080},
		SoundVolume:          0.6,
	}
}

// Load reads a background config file. A missing or unreadable file is
// not an error: defaults apply silently. A present-but-broken file logs
// a warning and also falls back to defaults.
func Load(path string) Settings {
	settings := Defaults()

	if path == "" {
		return settings
	}

	data, err := os.ReadFile(path)
	if err != nil {
		utils.Debug("Config: no config at %s, using defaults", path)
		return settings
	}

	return Parse(data)
}

// Parse decodes config bytes over the defaults.
func Parse(data []byte) Settings {
	settings := Defaults()

	var file fileSchema
	file.Settings = &settings
	if err := json.Unmarshal(data, &file); err != nil {
		utils.Warn("Config: parse failed (%v), using defaults", err)
		return Defaults()
	}

	return sanitize(settings)
}

func sanitize(s Settings) Settings {
	defaults := Defaults()

	if s.ExtraScale < 1 {
		s.ExtraScale = defaults.ExtraScale
	}
	if s.Easing < 0 || s.Easing > 1 {
		s.Easing = defaults.Easing
	}
	if s.ReturnToCenterEasing < 0 || s.ReturnToCenterEasing > 1 {
		s.ReturnToCenterEasing = defaults.ReturnToCenterEasing
	}
	if s.ExpandDepthmapRadius < 0 {
		s.ExpandDepthmapRadius = 0
	}
	if s.Focus < 0 {
		s.Focus = 0
	}
	if s.Focus > 1 {
		s.Focus = 1
	}
	s.FocalPoint.X = clamp01(s.FocalPoint.X)
	s.FocalPoint.Y = clamp01(s.FocalPoint.Y)
	if s.ReferenceViewport.Width <= 0 || s.ReferenceViewport.Height <= 0 {
		s.ReferenceViewport = defaults.ReferenceViewport
	}
	if s.CameraZ <= 0 {
		s.CameraZ = defaults.CameraZ
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
