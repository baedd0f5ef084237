// Package scenetest holds fixtures shared by the scene tests: a camera looking down at a
// triangle receiver, a light straight above it and a runner on the CPU device.
package scenetest

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
	"github.com/Carmen-Shannon/oxy-shade/scenes/mesh"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

// Size is the edge of the test display. It is odd so the center pixel sits on the view axis.
const Size = 33

// Grey is the receiver albedo.
var Grey = mgl32.Vec4{0.5, 0.5, 0.5, 1}

// Camera looks at the origin from below and above the XY plane with +Z up.
func Camera() camera.Camera {
	return camera.NewCamera(
		camera.WithPosition(mgl32.Vec3{0, -3, 3}),
		camera.WithTarget(mgl32.Vec3{}),
		camera.WithUp(mgl32.Vec3{0, 0, 1}),
		camera.WithFov(mgl32.DegToRad(60)),
	)
}

// Light is a white point light 5 units above the origin, facing down.
func Light() light.Light {
	return light.NewLight(light.LightTypePoint,
		light.WithPosition(mgl32.Vec3{0, 0, 5}),
		light.WithTarget(mgl32.Vec3{}),
		light.WithUp(mgl32.Vec3{0, 1, 0}),
		light.WithShadowPerspective(mgl32.DegToRad(90), 1, 20),
	)
}

// Receiver is a grey triangle in the XY plane around the origin, facing +Z.
func Receiver() world.Object {
	return world.Object{
		Mesh:   mesh.Triangle(mgl32.Vec3{-2, -2, 0}, mgl32.Vec3{2, -2, 0}, mgl32.Vec3{0, 2, 0}),
		Model:  mgl32.Ident4(),
		Albedo: Grey,
	}
}

// Occluder is a small triangle one unit above the origin. It hides the origin from Light but
// not from Camera.
func Occluder() world.Object {
	return world.Object{
		Mesh:   mesh.Triangle(mgl32.Vec3{-0.6, -0.6, 1}, mgl32.Vec3{0.6, -0.6, 1}, mgl32.Vec3{0, 0.6, 1}),
		Model:  mgl32.Ident4(),
		Albedo: Grey,
	}
}

// Render initializes sc on a fresh CPU device, renders one frame and closes the runner when
// the test ends.
func Render(t *testing.T, sc scene.Scene, width, height int) *soft.Device {
	t.Helper()
	dev := soft.NewDevice()
	r := scene.NewRunner(dev, shaders.Soft(), sc)
	require.NoError(t, r.Init(width, height))
	t.Cleanup(r.Close)
	require.NoError(t, r.Frame())
	return dev
}
