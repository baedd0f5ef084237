// Package edge renders the demo world and outlines it with a Sobel filter over the image's
// luminance.
package edge

import (
	"github.com/go-gl/mathgl/mgl32"

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
const Name = "edge"

// TargetScene is the lit image the filter reads.
const TargetScene = "scene"

type edgeScene struct {
	objects   []world.Object
	camera    camera.Camera
	light     light.Light
	ambient   float32
	threshold float32
	edgeColor mgl32.Vec4

	set  world.Set
	quad device.Geometry

	lit, edge device.Program
}

var _ scene.Scene = &edgeScene{}

// New creates the edge detection scene.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - scene.Scene: the scene
func New(options ...EdgeBuilderOption) scene.Scene {
	s := &edgeScene{
		objects:   world.Objects(),
		camera:    world.Camera(),
		light:     world.Light(),
		ambient:   0.15,
		threshold: 0.2,
		edgeColor: mgl32.Vec4{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *edgeScene) Name() string { return Name }

func (s *edgeScene) Targets() []scene.TargetSpec {
	return []scene.TargetSpec{{Name: TargetScene, Kind: attachment.KindColorDepth}}
}

func (s *edgeScene) Setup(res *scene.Resources) error {
	var err error
	if s.lit, err = res.Program(shaders.Lit); err != nil {
		return err
	}
	if s.edge, err = res.Program(shaders.Edge); err != nil {
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

func (s *edgeScene) Frame(res *scene.Resources, _ scene.FrameInfo) (pipeline.Pipeline, uniform.Bag, error) {
	sceneRT := res.Target(TargetScene)

	render, err := pass.New(append([]pass.PassBuilderOption{
		pass.WithLabel("scene"),
		pass.WithProgram(s.lit),
		pass.WithDestination(sceneRT),
		pass.WithClearColor(world.Background),
		pass.WithClearDepth(1),
		pass.WithUniforms(uniform.Bag{"ambient": uniform.Float(s.ambient)}),
	}, s.set.Draws()...)...)
	if err != nil {
		return nil, nil, err
	}
	outline, err := pass.New(
		pass.WithLabel("edge"),
		pass.WithProgram(s.edge),
		pass.WithDestination(res.Display),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput("source", sceneRT, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{
			"threshold": uniform.Float(s.threshold),
			"edgeColor": uniform.Vec4(s.edgeColor),
		}),
		pass.WithDraw(s.quad, nil),
	)
	if err != nil {
		return nil, nil, err
	}

	pl, err := res.Pipeline(Name, render, outline)
	if err != nil {
		return nil, nil, err
	}
	return pl, uniform.Merge(s.camera.Uniforms(res.Aspect()), s.light.Uniforms()), nil
}

func (s *edgeScene) Release() {
	s.set.Release()
	if s.quad != nil {
		s.quad.Release()
	}
}
