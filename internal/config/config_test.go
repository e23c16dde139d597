package config

import (
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	settings := Load("testdata/does-not-exist.json")
	defaults := Defaults()

	if settings.Easing != defaults.Easing {
		t.Errorf("Easing = %v, want default %v", settings.Easing, defaults.Easing)
	}
	if settings.FocalPoint != defaults.FocalPoint {
		t.Errorf("FocalPoint = %v, want default %v", settings.FocalPoint, defaults.FocalPoint)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`{"settings": {"easing": 0.12, "extraScale": 1.5, "focalPoint": {"x": 0.25, "y": 0.75}}}`)
	settings := Parse(data)

	if settings.Easing != 0.12 {
		t.Errorf("Easing = %v, want 0.12", settings.Easing)
	}
	if settings.ExtraScale != 1.5 {
		t.Errorf("ExtraScale = %v, want 1.5", settings.ExtraScale)
	}
	if settings.FocalPoint.X != 0.25 || settings.FocalPoint.Y != 0.75 {
		t.Errorf("FocalPoint = %v, want {0.25 0.75}", settings.FocalPoint)
	}
	// Untouched keys keep defaults.
	if settings.CameraZ != Defaults().CameraZ {
		t.Errorf("CameraZ = %v, want default %v", settings.CameraZ, Defaults().CameraZ)
	}
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	data := []byte(`{"settings": {"easing": 0.2, "someFutureKnob": true, "nested": {"a": 1}}}`)
	settings := Parse(data)

	if settings.Easing != 0.2 {
		t.Errorf("Easing = %v, want 0.2", settings.Easing)
	}
}

func TestParseBrokenJSONFallsBack(t *testing.T) {
	settings := Parse([]byte(`{"settings": {`))
	if settings != Defaults() {
		t.Errorf("broken config should yield exact defaults")
	}
}

func TestSanitizeClampsBadValues(t *testing.T) {
	tests := []struct {
		name string
		json string
		get  func(Settings) float64
		want float64
	}{
		{"extraScale below one", `{"settings": {"extraScale": 0.3}}`, func(s Settings) float64 { return s.ExtraScale }, Defaults().ExtraScale},
		{"easing above one", `{"settings": {"easing": 3}}`, func(s Settings) float64 { return s.Easing }, Defaults().Easing},
		{"focal point above one", `{"settings": {"focalPoint": {"x": 1.4, "y": 0.5}}}`, func(s Settings) float64 { return s.FocalPoint.X }, 1},
		{"negative cameraZ", `{"settings": {"cameraZ": -2}}`, func(s Settings) float64 { return s.CameraZ }, Defaults().CameraZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := Parse([]byte(tt.json))
			if got := tt.get(settings); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDPRShapes(t *testing.T) {
	tests := []struct {
		name string
		json string
		w, h float64
		want float64
	}{
		{"plain number", `{"settings": {"devicePixelRatio": 1.5}}`, 1920, 1080, 1.5},
		{"per class desktop", `{"settings": {"devicePixelRatio": {"desktop": 2, "tablet": 1.5, "mobile": 1}}}`, 1920, 1080, 2},
		{"per class tablet", `{"settings": {"devicePixelRatio": {"desktop": 2, "tablet": 1.5, "mobile": 1}}}`, 1024, 768, 1.5},
		{"per class mobile", `{"settings": {"devicePixelRatio": {"desktop": 2, "tablet": 1.5, "mobile": 1}}}`, 414, 896, 1},
		{"autoScaleWidth at reference", `{"settings": {"devicePixelRatio": {"mode": "autoScaleWidth", "value": 1.5, "referenceWidth": 1920}}}`, 1920, 1080, 1.5},
		{"autoScaleWidth clamped low", `{"settings": {"devicePixelRatio": {"mode": "autoScaleWidth", "value": 1.5, "referenceWidth": 1920}}}`, 320, 240, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := Parse([]byte(tt.json))
			if got := settings.DevicePixelRatio.Resolve(tt.w, tt.h); got != tt.want {
				t.Errorf("Resolve(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestDPRDefaultIsOne(t *testing.T) {
	settings := Defaults()
	if got := settings.DevicePixelRatio.Resolve(1920, 1080); got != 1 {
		t.Errorf("default DPR = %v, want 1", got)
	}
}
