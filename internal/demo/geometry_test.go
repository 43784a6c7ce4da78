package demo

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/learngl/internal/engine/gpu/gputest"
)

func TestCubeVertices(t *testing.T) {
	verts := CubeVertices()
	if len(verts) != 36 {
		t.Fatalf("expected 36 vertices, got %d", len(verts))
	}

	for i := 0; i < len(verts); i += 3 {
		a, b, c := verts[i].Position, verts[i+1].Position, verts[i+2].Position
		face := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if face.Dot(verts[i].Normal) < 0.99 {
			t.Errorf("triangle %d winds against its normal %v", i/3, verts[i].Normal)
		}
		// Outward normals point away from the center
		if a.Dot(verts[i].Normal) <= 0 {
			t.Errorf("triangle %d normal points inward", i/3)
		}
	}

	for i, v := range verts {
		for k := 0; k < 3; k++ {
			if math32.Abs(v.Position[k]) > 0.5+1e-6 {
				t.Fatalf("vertex %d outside unit cube: %v", i, v.Position)
			}
		}
		if v.TexCoord[0] < 0 || v.TexCoord[0] > 1 || v.TexCoord[1] < 0 || v.TexCoord[1] > 1 {
			t.Fatalf("vertex %d uv out of range: %v", i, v.TexCoord)
		}
	}
}

func TestSkyboxAndQuad(t *testing.T) {
	for _, v := range SkyboxVertices() {
		for k := 0; k < 3; k++ {
			if a := math32.Abs(v.Position[k]); a > 1+1e-6 {
				t.Fatalf("skybox vertex outside [-1,1]: %v", v.Position)
			}
		}
	}

	quad := QuadVertices()
	if len(quad) != 6 {
		t.Fatalf("expected 6 quad vertices, got %d", len(quad))
	}
	if quad[0].Position != (mgl32.Vec3{-1, -1, 0}) || quad[0].TexCoord != (mgl32.Vec2{0, 0}) {
		t.Errorf("first corner = %+v", quad[0])
	}
	if quad[2].Position != (mgl32.Vec3{1, 1, 0}) || quad[2].TexCoord != (mgl32.Vec2{1, 1}) {
		t.Errorf("third corner = %+v", quad[2])
	}
}

func TestNewShapeUploads(t *testing.T) {
	dev := gputest.New()
	mesh, err := newShape(dev, CubeVertices())
	if err != nil {
		t.Fatalf("newShape: %v", err)
	}
	up, ok := dev.Meshes[mesh.VertexArray()]
	if !ok {
		t.Fatal("mesh not uploaded")
	}
	if len(up.Indices) != 36 || up.Indices[35] != 35 {
		t.Errorf("indices = %v", up.Indices)
	}
	mesh.Close()
}

func TestCubeTransforms(t *testing.T) {
	xs := CubeTransforms()
	if len(xs) != len(CubePositions) {
		t.Fatalf("got %d transforms", len(xs))
	}
	// The first cube is not rotated
	if !xs[0].ApproxEqual(mgl32.Ident4()) {
		t.Errorf("cube 0 = %v", xs[0])
	}
	for i, m := range xs {
		if got := m.Col(3).Vec3(); !got.ApproxEqual(CubePositions[i]) {
			t.Errorf("cube %d translated to %v", i, got)
		}
	}
}

func TestLightCubeTransforms(t *testing.T) {
	xs := LightCubeTransforms(DefaultLighting().Points)
	if len(xs) != 4 {
		t.Fatalf("got %d", len(xs))
	}
	p := xs[1].Mul4x1(mgl32.Vec4{0.5, 0.5, 0.5, 1}).Vec3()
	want := PointLightPositions[1].Add(mgl32.Vec3{0.1, 0.1, 0.1})
	if !p.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("scaled corner = %v, want %v", p, want)
	}
}
