// Package blur renders the demo world into a ColorDepth target, blurs it horizontally into a
// ColorOnly target and finishes with a vertical blur and tone adjustment on the display.
package blur

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
const Name = "blur"

// Target names.
const (
	TargetScene = "scene"
	TargetBlurH = "blurH"
)

type blurScene struct {
	objects    []world.Object
	camera     camera.Camera
	light      light.Light
	clearColor device.Color
	ambient    float32
	exposure   float32
	gamma      float32

	set  world.Set
	quad device.Geometry

	lit, blurH, blurV device.Program
}

var _ scene.Scene = &blurScene{}

// New creates the blur scene.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - scene.Scene: the scene
func New(options ...BlurBuilderOption) scene.Scene {
	s := &blurScene{
		objects:    world.Objects(),
		camera:     world.Camera(),
		light:      world.Light(),
		clearColor: world.Background,
		ambient:    0.15,
		exposure:   1,
		gamma:      2.2,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *blurScene) Name() string { return Name }

func (s *blurScene) Targets() []scene.TargetSpec {
	return []scene.TargetSpec{
		{Name: TargetScene, Kind: attachment.KindColorDepth},
		{Name: TargetBlurH, Kind: attachment.KindColorOnly},
	}
}

func (s *blurScene) Setup(res *scene.Resources) error {
	var err error
	if s.lit, err = res.Program(shaders.Lit); err != nil {
		return err
	}
	if s.blurH, err = res.Program(shaders.BlurH); err != nil {
		return err
	}
	if s.blurV, err = res.Program(shaders.BlurV); err != nil {
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

func (s *blurScene) Frame(res *scene.Resources, _ scene.FrameInfo) (pipeline.Pipeline, uniform.Bag, error) {
	sceneRT, blurRT := res.Target(TargetScene), res.Target(TargetBlurH)

	render, err := pass.New(append([]pass.PassBuilderOption{
		pass.WithLabel("scene"),
		pass.WithProgram(s.lit),
		pass.WithDestination(sceneRT),
		pass.WithClearColor(s.clearColor),
		pass.WithClearDepth(1),
		pass.WithUniforms(uniform.Bag{"ambient": uniform.Float(s.ambient)}),
	}, s.set.Draws()...)...)
	if err != nil {
		return nil, nil, err
	}
	horizontal, err := pass.New(
		pass.WithLabel("blur horizontal"),
		pass.WithProgram(s.blurH),
		pass.WithDestination(blurRT),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput("source", sceneRT, attachment.ComponentColor),
		pass.WithDraw(s.quad, nil),
	)
	if err != nil {
		return nil, nil, err
	}
	vertical, err := pass.New(
		pass.WithLabel("blur vertical"),
		pass.WithProgram(s.blurV),
		pass.WithDestination(res.Display),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput("source", blurRT, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{
			"exposure": uniform.Float(s.exposure),
			"gamma":    uniform.Float(s.gamma),
		}),
		pass.WithDraw(s.quad, nil),
	)
	if err != nil {
		return nil, nil, err
	}

	pl, err := res.Pipeline(Name, render, horizontal, vertical)
	if err != nil {
		return nil, nil, err
	}
	return pl, uniform.Merge(s.camera.Uniforms(res.Aspect()), s.light.Uniforms()), nil
}

func (s *blurScene) Release() {
	s.set.Release()
	if s.quad != nil {
		s.quad.Release()
	}
}
