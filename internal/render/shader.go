package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Vertex shader: shifts each vertex in the view plane by the smoothed
// motion vector, weighted by how far its depth sits from the focus
// plane. Depth rides in as the second texcoord channel so geometry
// never needs a rebuild when intensity changes.
const displacementVertexShader = `
#version 120
attribute vec3 vertexPosition;
attribute vec2 vertexTexCoord;
attribute vec2 vertexTexCoord2;
attribute vec3 vertexNormal;

uniform mat4 mvp;
uniform vec2 g_Motion;
uniform float g_Sensitivity;
uniform float g_Focus;
uniform float g_DepthScale;

varying vec2 fragTexCoord;
varying float fragDepth;

void main() {
    float relief = vertexTexCoord2.x - g_Focus;
    vec3 displaced = vertexPosition;
    displaced.xy += g_Motion * g_Sensitivity * relief * g_DepthScale;

    fragTexCoord = vertexTexCoord;
    fragDepth = vertexTexCoord2.x;
    gl_Position = mvp * vec4(displaced, 1.0);
}
`

// Fragment shader: samples the background and fades alpha inside the
// configured border band so displaced edges never show a hard seam.
const displacementFragmentShader = `
#version 120
varying vec2 fragTexCoord;
varying float fragDepth;

uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform float g_EdgeWidth;

void main() {
    vec4 texel = texture2D(texture0, fragTexCoord);

    float edge = 1.0;
    if (g_EdgeWidth > 0.0) {
        vec2 border = min(fragTexCoord, vec2(1.0) - fragTexCoord);
        edge = clamp(min(border.x, border.y) / g_EdgeWidth, 0.0, 1.0);
    }

    gl_FragColor = vec4(texel.rgb, texel.a * edge) * colDiffuse;
}
`

// ShaderParameters caches uniform locations so Draw never does string
// lookups per frame.
type ShaderParameters struct {
	Motion      int32
	Sensitivity int32
	Focus       int32
	DepthScale  int32
	EdgeWidth   int32
	Time        int32
}

// ResolveShaderLocations looks up every displacement uniform once.
// Missing uniforms resolve to -1 and are skipped at draw time.
func ResolveShaderLocations(shader rl.Shader) ShaderParameters {
	return ShaderParameters{
		Motion:      rl.GetShaderLocation(shader, "g_Motion"),
		Sensitivity: rl.GetShaderLocation(shader, "g_Sensitivity"),
		Focus:       rl.GetShaderLocation(shader, "g_Focus"),
		DepthScale:  rl.GetShaderLocation(shader, "g_DepthScale"),
		EdgeWidth:   rl.GetShaderLocation(shader, "g_EdgeWidth"),
		Time:        rl.GetShaderLocation(shader, "g_Time"),
	}
}
