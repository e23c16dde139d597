package render

import (
	"fmt"
	"image"
	"math"
	"time"

	"depthwall/internal/depth"
	"depthwall/internal/engine"
	"depthwall/internal/viewport"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws the displacement mesh with raylib. It implements
// engine.Renderer and owns all GPU state: the uploaded mesh, the
// background texture, the displacement shader and its uniform cache.
type Renderer struct {
	mesh     rl.Mesh
	material rl.Material
	texture  rl.Texture2D
	shader   rl.Shader
	params   ShaderParameters
	camera   rl.Camera3D

	transform viewport.MeshTransform
	ready     bool

	// CPU-side vertex data must outlive the rl.Mesh that points into it;
	// raylib only copies to the GPU at upload time.
	vertices   []float32
	texcoords  []float32
	texcoords2 []float32
	normals    []float32
	indices    []uint16

	startedAt time.Time
}

// NewRenderer compiles the displacement shader and sets up the fixed
// camera. Must run after the raylib window exists.
func NewRenderer(cameraZ float64) (*Renderer, error) {
	shader := rl.LoadShaderFromMemory(displacementVertexShader, displacementFragmentShader)
	if shader.ID == 0 {
		return nil, fmt.Errorf("render: displacement shader failed to compile")
	}

	r := &Renderer{
		shader:    shader,
		params:    ResolveShaderLocations(shader),
		startedAt: time.Now(),
		camera: rl.Camera3D{
			Position:   rl.NewVector3(0, 0, float32(cameraZ)),
			Target:     rl.NewVector3(0, 0, 0),
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       float32(viewport.DefaultFOV * 180 / math.Pi),
			Projection: rl.CameraPerspective,
		},
	}
	return r, nil
}

// UploadMesh replaces the displayed geometry and background texture.
// The per-vertex depth attribute rides in the second texcoord channel.
func (r *Renderer) UploadMesh(mesh *depth.Mesh, img image.Image) error {
	r.unloadMesh()

	vertexCount := mesh.VertexCount()
	if vertexCount > 1<<16 {
		return fmt.Errorf("render: %d vertices exceed 16-bit index range", vertexCount)
	}

	r.vertices = mesh.Positions
	r.texcoords = mesh.UVs
	r.normals = mesh.Normals

	r.texcoords2 = make([]float32, vertexCount*2)
	for i := 0; i < vertexCount; i++ {
		r.texcoords2[i*2] = mesh.Depths[i]
	}

	r.indices = make([]uint16, len(mesh.Indices))
	for i, idx := range mesh.Indices {
		r.indices[i] = uint16(idx)
	}

	r.mesh = rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(len(r.indices) / 3),
		Vertices:      &r.vertices[0],
		Texcoords:     &r.texcoords[0],
		Texcoords2:    &r.texcoords2[0],
		Normals:       &r.normals[0],
		Indices:       &r.indices[0],
	}
	rl.UploadMesh(&r.mesh, false)

	rlImg := rl.NewImageFromImage(img)
	r.texture = rl.LoadTextureFromImage(rlImg)
	rl.UnloadImage(rlImg)
	rl.SetTextureFilter(r.texture, rl.FilterBilinear)
	rl.SetTextureWrap(r.texture, rl.TextureWrapClamp)

	r.material = rl.LoadMaterialDefault()
	r.material.Shader = r.shader
	rl.SetMaterialTexture(&r.material, rl.MapDiffuse, r.texture)

	r.ready = true
	return nil
}

// SetTransform stores the cover-fit transform applied at draw time.
func (r *Renderer) SetTransform(transform viewport.MeshTransform) {
	r.transform = transform
}

// Draw renders one frame from the shared displacement record. The
// uniforms are refreshed every frame; geometry never changes.
func (r *Renderer) Draw(params *engine.DisplacementParameters) {
	rl.ClearBackground(rl.Black)
	if !r.ready {
		return
	}

	if r.params.Motion != -1 {
		rl.SetShaderValue(r.shader, r.params.Motion,
			[]float32{float32(params.Motion.X), float32(params.Motion.Y)}, rl.ShaderUniformVec2)
	}
	if r.params.Sensitivity != -1 {
		rl.SetShaderValue(r.shader, r.params.Sensitivity,
			[]float32{float32(params.Sensitivity)}, rl.ShaderUniformFloat)
	}
	if r.params.Focus != -1 {
		rl.SetShaderValue(r.shader, r.params.Focus,
			[]float32{float32(params.Focus)}, rl.ShaderUniformFloat)
	}
	if r.params.DepthScale != -1 {
		rl.SetShaderValue(r.shader, r.params.DepthScale,
			[]float32{float32(params.DepthScale)}, rl.ShaderUniformFloat)
	}
	if r.params.EdgeWidth != -1 {
		rl.SetShaderValue(r.shader, r.params.EdgeWidth,
			[]float32{float32(params.EdgeWidth)}, rl.ShaderUniformFloat)
	}
	if r.params.Time != -1 {
		rl.SetShaderValue(r.shader, r.params.Time,
			[]float32{float32(params.Time)}, rl.ShaderUniformFloat)
	}

	rl.BeginMode3D(r.camera)
	rl.DrawMesh(r.mesh, r.material, r.transformMatrix())
	rl.EndMode3D()
}

func (r *Renderer) transformMatrix() rl.Matrix {
	t := r.transform
	scale := float32(t.Scale)
	if scale == 0 {
		scale = 1
	}
	return rl.MatrixMultiply(
		rl.MatrixScale(scale, scale, 1),
		rl.MatrixTranslate(float32(t.Position.X), float32(t.Position.Y), float32(t.Position.Z)),
	)
}

// Shader exposes the compiled displacement shader so overlays can share
// the exact same displacement math.
func (r *Renderer) Shader() rl.Shader {
	return r.shader
}

// Camera returns the fixed scene camera.
func (r *Renderer) Camera() rl.Camera3D {
	return r.camera
}

// unloadMesh releases the previous mesh's GPU buffers. The CPU arrays
// are Go slices, so they are nil'd on the copy handed to raylib to keep
// UnloadMesh from freeing Go memory with the C allocator.
func (r *Renderer) unloadMesh() {
	if !r.ready {
		return
	}
	gpu := r.mesh
	gpu.Vertices = nil
	gpu.Texcoords = nil
	gpu.Texcoords2 = nil
	gpu.Normals = nil
	gpu.Indices = nil
	rl.UnloadMesh(&gpu)
	rl.UnloadTexture(r.texture)
	r.ready = false
}

// Unload releases every GPU resource the renderer owns.
func (r *Renderer) Unload() {
	r.unloadMesh()
	rl.UnloadShader(r.shader)
}
