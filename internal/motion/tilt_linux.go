package motion

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"depthwall/internal/utils"
)

// iioRoot is the sysfs mount point for industrial I/O sensors.
var iioRoot = "/sys/bus/iio/devices"

// TiltSensor reads device orientation from an IIO accelerometer, the
// desktop-Linux stand-in for a browser's DeviceOrientation events
// (convertibles and tablets expose one; towers simply have none and the
// probe fallback applies).
type TiltSensor struct {
	dir   string
	scale float64
}

// DetectTiltSensor scans the IIO bus for a device exposing 3-axis
// accelerometer channels.
func DetectTiltSensor() (*TiltSensor, error) {
	entries, err := os.ReadDir(iioRoot)
	if err != nil {
		return nil, fmt.Errorf("tilt: no iio bus: %w", err)
	}

	for _, entry := range entries {
		dir := filepath.Join(iioRoot, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "in_accel_x_raw")); err != nil {
			continue
		}

		scale := 1.0
		if raw, err := os.ReadFile(filepath.Join(dir, "in_accel_scale")); err == nil {
			if v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64); err == nil && v > 0 {
				scale = v
			}
		}

		utils.Info("Tilt: using accelerometer at %s", dir)
		return &TiltSensor{dir: dir, scale: scale}, nil
	}

	return nil, fmt.Errorf("tilt: no accelerometer found")
}

func (s *TiltSensor) axis(name string) (float64, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, err
	}
	return v * s.scale, nil
}

// Read returns the current pitch and roll in degrees, derived from the
// gravity vector. Pitch tilts the top edge toward or away from the
// viewer, roll tilts sideways.
func (s *TiltSensor) Read() (pitch, roll float64, err error) {
	x, err := s.axis("in_accel_x_raw")
	if err != nil {
		return 0, 0, err
	}
	y, err := s.axis("in_accel_y_raw")
	if err != nil {
		return 0, 0, err
	}
	z, err := s.axis("in_accel_z_raw")
	if err != nil {
		return 0, 0, err
	}

	pitch = math.Atan2(y, math.Sqrt(x*x+z*z)) * 180 / math.Pi
	roll = math.Atan2(x, math.Sqrt(y*y+z*z)) * 180 / math.Pi
	return pitch, roll, nil
}
