package demo

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// uniforms is the setter surface of a shader program.
type uniforms interface {
	SetBool(name string, v bool)
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetMat4(name string, m mgl32.Mat4)
}

// Attenuation terms for a light reaching roughly 50 units.
const (
	attConstant  = 1.0
	attLinear    = 0.09
	attQuadratic = 0.032
)

// DirLight is a light at infinity.
type DirLight struct {
	Direction                  mgl32.Vec3
	Ambient, Diffuse, Specular mgl32.Vec3
}

// PointLight is an attenuated omnidirectional light.
type PointLight struct {
	Position                   mgl32.Vec3
	Ambient, Diffuse, Specular mgl32.Vec3
	Constant, Linear, Quad     float32
}

// SpotLight is a point light restricted to a cone. CutOff and OuterCutOff
// are cosines of the inner and outer cone angles.
type SpotLight struct {
	PointLight
	Direction           mgl32.Vec3
	CutOff, OuterCutOff float32
}

// Lighting is the full light set of the lit scenes.
type Lighting struct {
	Dir    DirLight
	Points []PointLight
	Spot   SpotLight
	// Shininess is the specular exponent of the material.
	Shininess float32
}

// PointLightPositions places the four point lights of the cube scene.
var PointLightPositions = []mgl32.Vec3{
	{0.7, 0.2, 2.0},
	{2.3, -3.3, -4.0},
	{-4.0, 2.0, -12.0},
	{0.0, 0.0, -3.0},
}

func gray(v float32) mgl32.Vec3 { return mgl32.Vec3{v, v, v} }

// DefaultLighting returns the cube scene lights: a dim directional light,
// the four point lights and a flashlight that follows the camera.
func DefaultLighting() Lighting {
	l := Lighting{
		Dir: DirLight{
			Direction: mgl32.Vec3{-0.2, -1.0, -0.3},
			Ambient:   gray(0.05),
			Diffuse:   gray(0.4),
			Specular:  gray(0.5),
		},
		Spot: SpotLight{
			PointLight: PointLight{
				Ambient:  gray(0),
				Diffuse:  gray(1),
				Specular: gray(1),
				Constant: attConstant,
				Linear:   attLinear,
				Quad:     attQuadratic,
			},
			CutOff:      math32.Cos(mgl32.DegToRad(12.5)),
			OuterCutOff: math32.Cos(mgl32.DegToRad(15.0)),
		},
		Shininess: 64,
	}
	for _, p := range PointLightPositions {
		l.Points = append(l.Points, PointLight{
			Position: p,
			Ambient:  gray(0.05),
			Diffuse:  gray(0.8),
			Specular: gray(1),
			Constant: attConstant,
			Linear:   attLinear,
			Quad:     attQuadratic,
		})
	}
	return l
}

// Follow points the spot light from pos along dir.
func (l *Lighting) Follow(pos, dir mgl32.Vec3) {
	l.Spot.Position = pos
	l.Spot.Direction = dir
}

// Apply uploads the light set. The program must be in use.
func (l *Lighting) Apply(u uniforms) {
	u.SetFloat("material.shininess", l.Shininess)

	u.SetVec3("dirLight.direction", l.Dir.Direction)
	u.SetVec3("dirLight.ambient", l.Dir.Ambient)
	u.SetVec3("dirLight.diffuse", l.Dir.Diffuse)
	u.SetVec3("dirLight.specular", l.Dir.Specular)

	u.SetInt("pointLightCount", int32(len(l.Points)))
	for i, p := range l.Points {
		applyPoint(u, fmt.Sprintf("pointLights[%d]", i), p)
	}

	applyPoint(u, "spotLight", l.Spot.PointLight)
	u.SetVec3("spotLight.direction", l.Spot.Direction)
	u.SetFloat("spotLight.cutOff", l.Spot.CutOff)
	u.SetFloat("spotLight.outerCutOff", l.Spot.OuterCutOff)
}

func applyPoint(u uniforms, prefix string, p PointLight) {
	u.SetVec3(prefix+".position", p.Position)
	u.SetVec3(prefix+".ambient", p.Ambient)
	u.SetVec3(prefix+".diffuse", p.Diffuse)
	u.SetVec3(prefix+".specular", p.Specular)
	u.SetFloat(prefix+".constant", p.Constant)
	u.SetFloat(prefix+".linear", p.Linear)
	u.SetFloat(prefix+".quadratic", p.Quad)
}
