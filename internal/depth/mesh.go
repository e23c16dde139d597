package depth

import "math"

// BaseHeight is the authored height of every displacement mesh in local
// units; width follows the depth raster's aspect ratio.
const BaseHeight = 10.0

// Mesh is a displaceable grid plane with a per-vertex depth attribute.
// Vertices are pre-displaced at build time (Z from depth, XY shrunk
// toward the camera axis) so a flat plane becomes a faux-3D relief.
// The mesh is never mutated per frame; runtime displacement happens in
// the renderer through shared shader parameters.
type Mesh struct {
	SegmentsX int
	SegmentsY int
	Width     float64 // base geometry width, local units
	Height    float64 // base geometry height, local units

	Positions []float32 // xyz per vertex
	UVs       []float32 // uv per vertex
	Depths    []float32 // raw sampled depth per vertex, in [0, 1]
	Normals   []float32 // xyz per vertex, recomputed after displacement
	Indices   []uint32
}

// VertexCount returns the number of vertices in the grid.
func (m *Mesh) VertexCount() int {
	return (m.SegmentsX + 1) * (m.SegmentsY + 1)
}

// BuildMesh constructs a displacement mesh from a depth raster.
// The grid has segmentsX by segmentsY quads, aspect-matched to the
// raster. Each vertex samples the raster at its UV (nearest, clamped),
// stores the raw depth, and is pre-displaced with the fixed baseline:
//
//	z = depth * depthScale
//	scaleFactor = (4 - z) / 4
//	x, y *= scaleFactor
//
// Raw depth stays a separate attribute so display-time intensity can be
// retuned through a shader uniform without rebuilding geometry. A
// coarse overlay variant is the same call with fewer segments.
func BuildMesh(raster *Raster, segmentsX, segmentsY int, depthScale float64) *Mesh {
	if segmentsX < 1 {
		segmentsX = 1
	}
	if segmentsY < 1 {
		segmentsY = 1
	}

	aspect := 1.0
	if raster.Height > 0 {
		aspect = float64(raster.Width) / float64(raster.Height)
	}

	mesh := &Mesh{
		SegmentsX: segmentsX,
		SegmentsY: segmentsY,
		Width:     BaseHeight * aspect,
		Height:    BaseHeight,
	}

	vertexCount := mesh.VertexCount()
	mesh.Positions = make([]float32, vertexCount*3)
	mesh.UVs = make([]float32, vertexCount*2)
	mesh.Depths = make([]float32, vertexCount)
	mesh.Normals = make([]float32, vertexCount*3)

	idx := 0
	for j := 0; j <= segmentsY; j++ {
		v := float64(j) / float64(segmentsY)
		for i := 0; i <= segmentsX; i++ {
			u := float64(i) / float64(segmentsX)

			d := raster.Sample(u, v)
			z := d * depthScale
			scaleFactor := (4 - z) / 4

			x := (u - 0.5) * mesh.Width * scaleFactor
			y := (0.5 - v) * mesh.Height * scaleFactor

			mesh.Positions[idx*3+0] = float32(x)
			mesh.Positions[idx*3+1] = float32(y)
			mesh.Positions[idx*3+2] = float32(z)
			mesh.UVs[idx*2+0] = float32(u)
			mesh.UVs[idx*2+1] = float32(v)
			mesh.Depths[idx] = float32(d)
			idx++
		}
	}

	mesh.Indices = gridIndices(segmentsX, segmentsY)
	mesh.recomputeNormals()
	return mesh
}

func gridIndices(segmentsX, segmentsY int) []uint32 {
	indices := make([]uint32, 0, segmentsX*segmentsY*6)
	stride := uint32(segmentsX + 1)

	for j := 0; j < segmentsY; j++ {
		for i := 0; i < segmentsX; i++ {
			a := uint32(j)*stride + uint32(i)
			b := a + 1
			c := a + stride
			d := c + 1

			indices = append(indices, a, c, b)
			indices = append(indices, b, c, d)
		}
	}
	return indices
}

// recomputeNormals rebuilds smooth vertex normals by accumulating face
// normals, required after displacement changes the surface shape.
func (m *Mesh) recomputeNormals() {
	for i := range m.Normals {
		m.Normals[i] = 0
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := m.Indices[i], m.Indices[i+1], m.Indices[i+2]

		ax, ay, az := m.position(ia)
		bx, by, bz := m.position(ib)
		cx, cy, cz := m.position(ic)

		ux, uy, uz := bx-ax, by-ay, bz-az
		vx, vy, vz := cx-ax, cy-ay, cz-az

		nx := uy*vz - uz*vy
		ny := uz*vx - ux*vz
		nz := ux*vy - uy*vx

		for _, vi := range []uint32{ia, ib, ic} {
			m.Normals[vi*3+0] += nx
			m.Normals[vi*3+1] += ny
			m.Normals[vi*3+2] += nz
		}
	}

	for i := 0; i < len(m.Normals); i += 3 {
		nx := float64(m.Normals[i])
		ny := float64(m.Normals[i+1])
		nz := float64(m.Normals[i+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length == 0 {
			m.Normals[i+2] = 1
			continue
		}
		m.Normals[i] = float32(nx / length)
		m.Normals[i+1] = float32(ny / length)
		m.Normals[i+2] = float32(nz / length)
	}
}

func (m *Mesh) position(i uint32) (float32, float32, float32) {
	return m.Positions[i*3], m.Positions[i*3+1], m.Positions[i*3+2]
}
