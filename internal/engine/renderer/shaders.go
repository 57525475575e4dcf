package renderer

const sceneVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;
uniform mat4 uLightSpace;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;
out vec4 vLightPos;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	vUV = aUV;
	vLightPos = uLightSpace * world;
	gl_Position = uProjection * uView * world;
}
`

const sceneFragmentShader = `
#version 410 core

#define MAX_POINT_LIGHTS 32

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;
in vec4 vLightPos;

uniform sampler2D uTexture;
uniform sampler2DShadow uShadowMap;
uniform int uShadows;
uniform vec3 uUVScale;
uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform vec3 uAmbient;
uniform vec3 uHighlight;

uniform int uPointCount;
uniform vec3 uPointPos[MAX_POINT_LIGHTS];
uniform vec3 uPointColor[MAX_POINT_LIGHTS];
uniform float uPointRange[MAX_POINT_LIGHTS];

out vec4 FragColor;

void main() {
	vec4 base = texture(uTexture, vUV * uUVScale.xy);
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}

	float lit = 1.0;
	if (uShadows != 0) {
		vec3 p = vLightPos.xyz / vLightPos.w * 0.5 + 0.5;
		if (p.z <= 1.0) {
			vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));
			lit = 0.0;
			for (int x = -1; x <= 1; x++) {
				for (int y = -1; y <= 1; y++) {
					lit += texture(uShadowMap, vec3(p.xy + vec2(x, y) * texel, p.z - 0.002));
				}
			}
			lit /= 9.0;
		}
	}

	vec3 light = uAmbient + lit * uSunColor * max(dot(n, normalize(uSunDir)), 0.0);
	for (int i = 0; i < uPointCount; i++) {
		vec3 d = uPointPos[i] - vWorldPos;
		float dist = length(d);
		float att = clamp(1.0 - dist / uPointRange[i], 0.0, 1.0);
		light += uPointColor[i] * att * att * max(dot(n, d / max(dist, 1e-4)), 0.0);
	}

	FragColor = vec4(base.rgb * light + uHighlight, base.a);
}
`

const depthVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uModel;
uniform mat4 uLightSpace;

void main() {
	gl_Position = uLightSpace * uModel * vec4(aPos, 1.0);
}
`

const depthFragmentShader = `
#version 410 core

void main() {
}
`
