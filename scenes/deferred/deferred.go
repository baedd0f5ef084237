// Package deferred fills a G-buffer with world position, normal and albedo, then lights it
// with one full-screen pass on the display.
package deferred

import (
	"github.com/Carmen-Shannon/oxy-shade/engine/camera"
	"github.com/Carmen-Shannon/oxy-shade/engine/light"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes/internal/world"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shaders"
)

// Name is the scene name on the command line.
const Name = "deferred"

// TargetGBuffer is the name of the G-buffer target.
const TargetGBuffer = "gbuffer"

type deferredScene struct {
	objects []world.Object
	camera  camera.Camera
	light   light.Light
	ambient float32

	set  world.Set
	quad device.Geometry

	gbuffer, lighting device.Program
}

var _ scene.Scene = &deferredScene{}

// New creates the deferred shading scene.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - scene.Scene: the scene
func New(options ...DeferredBuilderOption) scene.Scene {
	s := &deferredScene{
		objects: world.Objects(),
		camera:  world.Camera(),
		light:   world.Light(),
		ambient: 0.15,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *deferredScene) Name() string { return Name }

func (s *deferredScene) Targets() []scene.TargetSpec {
	return []scene.TargetSpec{{Name: TargetGBuffer, Kind: attachment.KindDeferredGeometry}}
}

func (s *deferredScene) Setup(res *scene.Resources) error {
	var err error
	if s.gbuffer, err = res.Program(shaders.GBuffer); err != nil {
		return err
	}
	if s.lighting, err = res.Program(shaders.DeferredLight); err != nil {
		return err
	}
	if s.quad, err = world.Quad(res.Device); err != nil {
		return err
	}
	if s.set, err = world.Upload(res.Device, s.objects); err != nil {
		s.quad.Release()
		return err
	}
	return nil
}

func (s *deferredScene) Frame(res *scene.Resources, _ scene.FrameInfo) (pipeline.Pipeline, uniform.Bag, error) {
	gbuf := res.Target(TargetGBuffer)

	geometry, err := pass.New(append([]pass.PassBuilderOption{
		pass.WithLabel("geometry"),
		pass.WithProgram(s.gbuffer),
		pass.WithDestination(gbuf),
		pass.WithClearColor(device.Color{}),
		pass.WithClearDepth(1),
	}, s.set.Draws()...)...)
	if err != nil {
		return nil, nil, err
	}
	lighting, err := pass.New(append([]pass.PassBuilderOption{
		pass.WithLabel("lighting"),
		pass.WithProgram(s.lighting),
		pass.WithDestination(res.Display),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithClearColor(world.Background),
		pass.WithUniforms(uniform.Bag{"ambient": uniform.Float(s.ambient)}),
		pass.WithDraw(s.quad, nil),
	}, world.GBufferInputs(gbuf)...)...)
	if err != nil {
		return nil, nil, err
	}

	pl, err := res.Pipeline(Name, geometry, lighting)
	if err != nil {
		return nil, nil, err
	}
	return pl, uniform.Merge(s.camera.Uniforms(res.Aspect()), s.light.Uniforms()), nil
}

func (s *deferredScene) Release() {
	s.set.Release()
	if s.quad != nil {
		s.quad.Release()
	}
}
