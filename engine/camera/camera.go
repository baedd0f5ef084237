package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

type cameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	fov  float32
	near float32
	far  float32
}

// Camera is a perspective look-at camera. Projections map depth into [0, 1] so the same
// matrices drive both the CPU reference device and WebGPU.
type Camera interface {
	// Position returns the camera's world-space position.
	Position() mgl32.Vec3

	// Target returns the look-at point.
	Target() mgl32.Vec3

	// Up returns the camera's up vector.
	Up() mgl32.Vec3

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// View returns the world-to-view matrix.
	View() mgl32.Mat4

	// Projection returns the perspective projection for a viewport aspect ratio.
	//
	// Parameters:
	//   - aspect: width / height of the viewport
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	Projection(aspect float32) mgl32.Mat4

	// ViewProjection returns Projection(aspect) * View().
	//
	// Parameters:
	//   - aspect: width / height of the viewport
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjection(aspect float32) mgl32.Mat4

	// Uniforms returns the "viewProj" and "viewPos" uniforms for a viewport aspect ratio.
	//
	// Parameters:
	//   - aspect: width / height of the viewport
	//
	// Returns:
	//   - uniform.Bag: the camera uniforms
	Uniforms(aspect float32) uniform.Bag

	// SetPosition moves the camera.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// SetTarget sets the look-at point.
	//
	// Parameters:
	//   - target: the new world-space target
	SetTarget(target mgl32.Vec3)

	// Orbit places the camera on a sphere around its target using spherical coordinates.
	// Azimuth rotates around +Y starting from +Z; elevation lifts toward +Y.
	//
	// Parameters:
	//   - radius: the distance from the target
	//   - azimuth: the horizontal angle in radians
	//   - elevation: the vertical angle in radians
	Orbit(radius, azimuth, elevation float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera at (0, 0, 5) looking at the origin with a 45 degree field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{0, 0, 5},
		up:       mgl32.Vec3{0, 1, 0},
		fov:      mgl32.DegToRad(45),
		near:     0.1,
		far:      100,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.LookAtV(c.position, c.target, c.up)
}

func (c *cameraImpl) Projection(aspect float32) mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.PerspectiveZO(c.fov, aspect, c.near, c.far)
}

func (c *cameraImpl) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}

func (c *cameraImpl) Uniforms(aspect float32) uniform.Bag {
	return uniform.Bag{
		"viewProj": uniform.Mat4(c.ViewProjection(aspect)),
		"viewPos":  uniform.Vec3(c.Position()),
	}
}

func (c *cameraImpl) SetPosition(position mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = position
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

func (c *cameraImpl) Orbit(radius, azimuth, elevation float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sinElev, cosElev := math32.Sincos(elevation)
	sinAzim, cosAzim := math32.Sincos(azimuth)
	c.position = c.target.Add(mgl32.Vec3{
		radius * cosElev * sinAzim,
		radius * sinElev,
		radius * cosElev * cosAzim,
	})
}
