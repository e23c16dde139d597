package depth

import (
	"math"
	"testing"
)

func gradientRaster(w, h int) *Raster {
	r := NewRaster(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.Values[y*w+x] = float64(x) / float64(w-1)
		}
	}
	return r
}

func TestBuildMeshVertexAndIndexCounts(t *testing.T) {
	tests := []struct {
		name   string
		sx, sy int
	}{
		{"square grid", 32, 32},
		{"wide grid", 128, 64},
		{"coarse overlay grid", 8, 8},
		{"degenerate clamps to one", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := BuildMesh(gradientRaster(64, 64), tt.sx, tt.sy, 1)

			sx, sy := tt.sx, tt.sy
			if sx < 1 {
				sx = 1
			}
			if sy < 1 {
				sy = 1
			}

			wantVertices := (sx + 1) * (sy + 1)
			if got := mesh.VertexCount(); got != wantVertices {
				t.Errorf("VertexCount() = %d, want %d", got, wantVertices)
			}
			if got := len(mesh.Positions); got != wantVertices*3 {
				t.Errorf("len(Positions) = %d, want %d", got, wantVertices*3)
			}
			if got := len(mesh.Indices); got != sx*sy*6 {
				t.Errorf("len(Indices) = %d, want %d", got, sx*sy*6)
			}
		})
	}
}

func TestBuildMeshDepthAttributeMatchesRaster(t *testing.T) {
	raster := gradientRaster(65, 65)
	mesh := BuildMesh(raster, 64, 64, 1)

	resolution := 1.0 / 64.0
	for j := 0; j <= 64; j++ {
		for i := 0; i <= 64; i++ {
			idx := j*65 + i
			d := float64(mesh.Depths[idx])
			if d < 0 || d > 1 {
				t.Fatalf("vertex (%d,%d) depth = %v, want within [0,1]", i, j, d)
			}

			u := float64(i) / 64
			v := float64(j) / 64
			want := raster.Sample(u, v)
			if math.Abs(d-want) > resolution {
				t.Fatalf("vertex (%d,%d) depth = %v, want %v ± %v", i, j, d, want, resolution)
			}
		}
	}
}

func TestBuildMeshBaselineDisplacement(t *testing.T) {
	// Uniform depth 0.8, scale 1.0: every vertex gets z = 0.8 and XY
	// shrunk by (4 - 0.8) / 4.
	raster := NewRaster(16, 16)
	for i := range raster.Values {
		raster.Values[i] = 0.8
	}

	mesh := BuildMesh(raster, 4, 4, 1)
	wantShrink := (4 - 0.8) / 4

	// Top-left vertex authored at (-W/2, +H/2).
	gotX := float64(mesh.Positions[0])
	gotY := float64(mesh.Positions[1])
	gotZ := float64(mesh.Positions[2])

	wantX := -mesh.Width / 2 * wantShrink
	wantY := mesh.Height / 2 * wantShrink

	if math.Abs(gotX-wantX) > 1e-5 || math.Abs(gotY-wantY) > 1e-5 {
		t.Errorf("corner = (%v, %v), want (%v, %v)", gotX, gotY, wantX, wantY)
	}
	if math.Abs(gotZ-0.8) > 1e-5 {
		t.Errorf("corner z = %v, want 0.8", gotZ)
	}
}

func TestBuildMeshAspectMatchesRaster(t *testing.T) {
	mesh := BuildMesh(gradientRaster(192, 108), 16, 9, 1)

	wantWidth := BaseHeight * 192.0 / 108.0
	if math.Abs(mesh.Width-wantWidth) > 1e-9 {
		t.Errorf("Width = %v, want %v", mesh.Width, wantWidth)
	}
	if mesh.Height != BaseHeight {
		t.Errorf("Height = %v, want %v", mesh.Height, BaseHeight)
	}
}

func TestBuildMeshNormalsAreUnitLength(t *testing.T) {
	mesh := BuildMesh(gradientRaster(64, 64), 16, 16, 2)

	for i := 0; i < len(mesh.Normals); i += 3 {
		nx := float64(mesh.Normals[i])
		ny := float64(mesh.Normals[i+1])
		nz := float64(mesh.Normals[i+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if math.Abs(length-1) > 1e-4 {
			t.Fatalf("normal %d length = %v, want 1", i/3, length)
		}
	}
}

func TestCoarseVariantSharesSampling(t *testing.T) {
	raster := gradientRaster(64, 64)
	full := BuildMesh(raster, 64, 64, 1)
	coarse := BuildMesh(raster, 16, 16, 1)

	// Vertices at shared UVs must carry identical depth.
	for j := 0; j <= 16; j++ {
		for i := 0; i <= 16; i++ {
			coarseIdx := j*17 + i
			fullIdx := (j * 4 * 65) + i*4
			if coarse.Depths[coarseIdx] != full.Depths[fullIdx] {
				t.Fatalf("depth mismatch at coarse (%d,%d): %v vs %v",
					i, j, coarse.Depths[coarseIdx], full.Depths[fullIdx])
			}
		}
	}
}
