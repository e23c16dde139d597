package config

import (
	"encoding/json"
	"math"
)

// DPR is the devicePixelRatio setting, which config files write in
// three shapes: a plain number, {"mode": "autoScaleWidth"|"autoScale",
// ...}, or a per-device-class object {"desktop": n, "tablet": n,
// "mobile": n}.
type DPR struct {
	Value float64

	Mode           string
	ReferenceWidth float64
	Min            float64
	Max            float64

	Desktop float64
	Tablet  float64
	Mobile  float64

	perClass bool
}

func (d *DPR) UnmarshalJSON(data []byte) error {
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*d = DPR{Value: number}
		return nil
	}

	var obj struct {
		Mode           string  `json:"mode"`
		Value          float64 `json:"value"`
		ReferenceWidth float64 `json:"referenceWidth"`
		Min            float64 `json:"min"`
		Max            float64 `json:"max"`
		Desktop        float64 `json:"desktop"`
		Tablet         float64 `json:"tablet"`
		Mobile         float64 `json:"mobile"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	*d = DPR{
		Value:          obj.Value,
		Mode:           obj.Mode,
		ReferenceWidth: obj.ReferenceWidth,
		Min:            obj.Min,
		Max:            obj.Max,
		Desktop:        obj.Desktop,
		Tablet:         obj.Tablet,
		Mobile:         obj.Mobile,
	}
	d.perClass = obj.Mode == "" && (obj.Desktop != 0 || obj.Tablet != 0 || obj.Mobile != 0)
	return nil
}

// Device class width cutoffs, in CSS-ish pixels.
const (
	mobileMaxWidth = 768
	tabletMaxWidth = 1280
)

// Resolve computes the effective pixel ratio for a viewport. Pure
// function of viewport size and the configured mode; display tuning
// only, never feeds the motion core.
func (d DPR) Resolve(viewportW, viewportH float64) float64 {
	base := d.Value
	if base <= 0 {
		base = 1
	}

	switch {
	case d.perClass:
		var v float64
		switch {
		case viewportW < mobileMaxWidth:
			v = d.Mobile
		case viewportW < tabletMaxWidth:
			v = d.Tablet
		default:
			v = d.Desktop
		}
		if v <= 0 {
			v = 1
		}
		return v

	case d.Mode == "autoScaleWidth":
		ref := d.ReferenceWidth
		if ref <= 0 {
			ref = 1920
		}
		return d.clampAuto(base * viewportW / ref)

	case d.Mode == "autoScale":
		refArea := d.ReferenceWidth
		if refArea <= 0 {
			refArea = 1920
		}
		// Scale by linear dimension of the area ratio so doubling both
		// axes doubles cost, not quadruples it.
		areaRatio := (viewportW * viewportH) / (refArea * refArea * 9.0 / 16.0)
		if areaRatio < 0 {
			areaRatio = 0
		}
		return d.clampAuto(base * math.Sqrt(areaRatio))
	}

	return base
}

func (d DPR) clampAuto(v float64) float64 {
	minV := d.Min
	if minV <= 0 {
		minV = 0.5
	}
	maxV := d.Max
	if maxV <= 0 {
		maxV = 2
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
