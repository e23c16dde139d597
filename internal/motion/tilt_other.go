//go:build !linux

package motion

import "fmt"

// TiltSensor reads device orientation; only desktop Linux exposes a
// source (the IIO accelerometer bus), elsewhere detection always fails
// and the probe fallback applies.
type TiltSensor struct{}

// DetectTiltSensor reports that no accelerometer bus exists here.
func DetectTiltSensor() (*TiltSensor, error) {
	return nil, fmt.Errorf("tilt: no accelerometer bus on this platform")
}

// Read never succeeds on this platform.
func (s *TiltSensor) Read() (pitch, roll float64, err error) {
	return 0, 0, fmt.Errorf("tilt: no accelerometer bus on this platform")
}
