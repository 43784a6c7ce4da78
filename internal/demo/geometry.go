package demo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/learngl/internal/engine/gpu"
	"github.com/Faultbox/learngl/internal/engine/model"
	"github.com/Faultbox/learngl/internal/engine/texture"
)

// cubeFace spans one face: U x V equals Normal, so the generated triangles
// wind counter-clockwise seen from outside.
type cubeFace struct {
	Normal, U, V mgl32.Vec3
}

var cubeFaces = []cubeFace{
	{Normal: mgl32.Vec3{0, 0, 1}, U: mgl32.Vec3{1, 0, 0}, V: mgl32.Vec3{0, 1, 0}},
	{Normal: mgl32.Vec3{0, 0, -1}, U: mgl32.Vec3{-1, 0, 0}, V: mgl32.Vec3{0, 1, 0}},
	{Normal: mgl32.Vec3{1, 0, 0}, U: mgl32.Vec3{0, 0, -1}, V: mgl32.Vec3{0, 1, 0}},
	{Normal: mgl32.Vec3{-1, 0, 0}, U: mgl32.Vec3{0, 0, 1}, V: mgl32.Vec3{0, 1, 0}},
	{Normal: mgl32.Vec3{0, 1, 0}, U: mgl32.Vec3{1, 0, 0}, V: mgl32.Vec3{0, 0, -1}},
	{Normal: mgl32.Vec3{0, -1, 0}, U: mgl32.Vec3{1, 0, 0}, V: mgl32.Vec3{0, 0, 1}},
}

var quadCorners = [6][2]float32{{0, 0}, {1, 0}, {1, 1}, {1, 1}, {0, 1}, {0, 0}}

// CubeVertices returns a unit cube centered on the origin as 36 unshared
// vertices with face normals and per-face texture coordinates.
func CubeVertices() []model.Vertex {
	out := make([]model.Vertex, 0, len(cubeFaces)*6)
	for _, f := range cubeFaces {
		for _, c := range quadCorners {
			p := f.Normal.Mul(0.5).
				Add(f.U.Mul(c[0] - 0.5)).
				Add(f.V.Mul(c[1] - 0.5))
			out = append(out, model.Vertex{Position: p, Normal: f.Normal, TexCoord: mgl32.Vec2{c[0], c[1]}})
		}
	}
	return out
}

// SkyboxVertices returns the cube scaled to [-1, 1], positions only.
func SkyboxVertices() []model.Vertex {
	verts := CubeVertices()
	for i := range verts {
		verts[i] = model.Vertex{Position: verts[i].Position.Mul(2)}
	}
	return verts
}

// QuadVertices returns a full-screen quad in normalized device coordinates.
func QuadVertices() []model.Vertex {
	out := make([]model.Vertex, 0, len(quadCorners))
	for _, c := range quadCorners {
		out = append(out, model.Vertex{
			Position: mgl32.Vec3{c[0]*2 - 1, c[1]*2 - 1, 0},
			Normal:   mgl32.Vec3{0, 0, 1},
			TexCoord: mgl32.Vec2{c[0], c[1]},
		})
	}
	return out
}

// sequentialIndices returns 0..n-1.
func sequentialIndices(n int) []uint32 {
	idx := make([]uint32, n)
	for i := range idx {
		idx[i] = uint32(i)
	}
	return idx
}

// newShape uploads unindexed triangle vertices as a mesh.
func newShape(dev gpu.Device, verts []model.Vertex, textures ...*texture.Texture) (*model.Mesh, error) {
	return model.NewMesh(dev, verts, sequentialIndices(len(verts)), textures)
}

// CubePositions places the ten textured cubes.
var CubePositions = []mgl32.Vec3{
	{0.0, 0.0, 0.0},
	{2.0, 5.0, -15.0},
	{-1.5, -2.2, -2.5},
	{-3.8, -2.0, -12.3},
	{2.4, -0.4, -3.5},
	{-1.7, 3.0, -7.5},
	{1.3, -2.0, -2.5},
	{1.5, 2.0, -2.5},
	{1.5, 0.2, -1.5},
	{-1.3, 1.0, -1.5},
}

var cubeAxis = mgl32.Vec3{1.0, 0.3, 0.5}.Normalize()

// CubeTransforms returns the model matrix of each cube: cube i is turned by
// 20*i degrees around a fixed tilted axis.
func CubeTransforms() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(CubePositions))
	for i, p := range CubePositions {
		angle := mgl32.DegToRad(20 * float32(i))
		out[i] = mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.HomogRotate3D(angle, cubeAxis))
	}
	return out
}

// LightCubeTransforms returns the small marker cubes drawn at the point
// lights.
func LightCubeTransforms(lights []PointLight) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(lights))
	for i, l := range lights {
		p := l.Position
		out[i] = mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
	}
	return out
}
