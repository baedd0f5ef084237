// Package world holds the demo geometry, camera and light shared by the cookbook scenes.
package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-shade/scenes/mesh"
)

// Background is the clear color of every scene.
var Background = device.Color{R: 0.05, G: 0.06, B: 0.08, A: 1}

// Object is one mesh placed in the world.
type Object struct {
	Mesh   mesh.Mesh
	Model  mgl32.Mat4
	Albedo mgl32.Vec4
}

// Objects returns the default demo world: a floor plane, a cube and a sphere.
func Objects() []Object {
	one := mgl32.Vec3{1, 1, 1}
	return []Object{
		{Mesh: mesh.Plane(8), Model: mgl32.Ident4(), Albedo: mgl32.Vec4{0.8, 0.8, 0.8, 1}},
		{Mesh: mesh.Cube(1), Model: common.ModelMatrix(mgl32.Vec3{-1, 0.5, 0}, 0.6, 0, one), Albedo: mgl32.Vec4{0.9, 0.3, 0.2, 1}},
		{Mesh: mesh.Sphere(0.6, 24, 16), Model: common.ModelMatrix(mgl32.Vec3{1.2, 0.6, 0.4}, 0, 0, one), Albedo: mgl32.Vec4{0.2, 0.5, 0.9, 1}},
	}
}

// Camera returns the default demo camera, above and in front of the origin.
func Camera() camera.Camera {
	return camera.NewCamera(
		camera.WithPosition(mgl32.Vec3{0, 3, 6}),
		camera.WithTarget(mgl32.Vec3{}),
		camera.WithFov(mgl32.DegToRad(45)),
	)
}

// Light returns the default demo point light.
func Light() light.Light {
	return light.NewLight(light.LightTypePoint,
		light.WithPosition(mgl32.Vec3{2, 5, 3}),
		light.WithTarget(mgl32.Vec3{}),
		light.WithUp(mgl32.Vec3{0, 1, 0}),
		light.WithShadowPerspective(mgl32.DegToRad(90), 1, 20),
	)
}

// ObjectUniforms returns the per-draw uniforms of an object: "model", "normalMatrix" and
// "albedo".
func ObjectUniforms(model mgl32.Mat4, albedo mgl32.Vec4) uniform.Bag {
	return uniform.Bag{
		"model":        uniform.Mat4(model),
		"normalMatrix": uniform.Mat3(common.NormalMatrix(model)),
		"albedo":       uniform.Vec4(albedo),
	}
}

// Drawable is an uploaded Object with its per-draw uniforms.
type Drawable struct {
	Geometry device.Geometry
	Uniforms uniform.Bag
}

// Set is the uploaded geometry of a scene.
type Set []Drawable

// Upload builds every object on dev. On failure the geometry already built is released.
//
// Parameters:
//   - dev: the device to upload to
//   - objects: the objects to upload
//
// Returns:
//   - Set: the uploaded objects, in order
//   - error: the first device error
func Upload(dev device.Device, objects []Object) (Set, error) {
	set := make(Set, 0, len(objects))
	for _, o := range objects {
		g, err := o.Mesh.Build(dev)
		if err != nil {
			set.Release()
			return nil, err
		}
		set = append(set, Drawable{Geometry: g, Uniforms: ObjectUniforms(o.Model, o.Albedo)})
	}
	return set, nil
}

// Draws returns one pass.WithDraw option per drawable.
func (s Set) Draws() []pass.PassBuilderOption {
	out := make([]pass.PassBuilderOption, len(s))
	for i, d := range s {
		out[i] = pass.WithDraw(d.Geometry, d.Uniforms)
	}
	return out
}

// Release frees every geometry of the set.
func (s Set) Release() {
	for _, d := range s {
		d.Geometry.Release()
	}
}

// GBufferInputs binds the three G-buffer components under the names the lighting programs
// sample them by.
func GBufferInputs(gbuf *target.RenderTarget) []pass.PassBuilderOption {
	return []pass.PassBuilderOption{
		pass.WithInput("gPosition", gbuf, attachment.ComponentPosition),
		pass.WithInput("gNormal", gbuf, attachment.ComponentNormal),
		pass.WithInput("gAlbedo", gbuf, attachment.ComponentAlbedo),
	}
}

// Quad uploads the full-screen quad used by post-processing passes.
func Quad(dev device.Device) (device.Geometry, error) {
	return mesh.Quad().Build(dev)
}
