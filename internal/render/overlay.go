package render

import (
	"fmt"

	"depthwall/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DebugOverlay is the F8 stats panel: input mode, smoothed motion,
// mesh and transform numbers, loaded effects.
type DebugOverlay struct {
	fontSize int32
	padding  int32
}

func NewDebugOverlay() *DebugOverlay {
	return &DebugOverlay{fontSize: 18, padding: 8}
}

// Draw renders the panel in the top-left corner. Caller gates on the
// debug UI toggle.
func (d *DebugOverlay) Draw(e *engine.Engine) {
	params := e.Facade().Params()
	transform := e.Facade().LiveTransform()

	lines := []string{
		fmt.Sprintf("fps %d", rl.GetFPS()),
		fmt.Sprintf("mode %s", e.Fusion.Mode()),
		fmt.Sprintf("motion %+.3f %+.3f", params.Motion.X, params.Motion.Y),
		fmt.Sprintf("sensitivity %.3f", params.Sensitivity),
		fmt.Sprintf("scale %.3f  pos %+.2f %+.2f", transform.Scale, transform.Position.X, transform.Position.Y),
	}
	if mesh := e.Mesh; mesh != nil {
		lines = append(lines, fmt.Sprintf("mesh %dx%d (%d verts)",
			mesh.SegmentsX, mesh.SegmentsY, mesh.VertexCount()))
	}
	for _, handle := range e.Host().Effects() {
		lines = append(lines, fmt.Sprintf("effect %s", handle.Name))
	}

	lineHeight := d.fontSize + 4
	panelW := int32(0)
	for _, line := range lines {
		if w := rl.MeasureText(line, d.fontSize); w > panelW {
			panelW = w
		}
	}
	panelH := int32(len(lines))*lineHeight + d.padding*2

	rl.DrawRectangle(0, 0, panelW+d.padding*2, panelH, rl.NewColor(0, 0, 0, 180))
	for i, line := range lines {
		rl.DrawText(line, d.padding, d.padding+int32(i)*lineHeight, d.fontSize, rl.Green)
	}
}
