// Package ssao renders screen-space ambient occlusion from a G-buffer, blurs it, and lights
// the G-buffer with the occluded ambient term.
package ssao

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
const Name = "ssao"

// Target names.
const (
	TargetGBuffer = "gbuffer"
	TargetAO      = "ao"
	TargetAOBlur  = "aoBlur"
)

type ssaoScene struct {
	objects []world.Object
	camera  camera.Camera
	light   light.Light
	radius  float32
	bias    float32
	samples int
	ambient float32
	blur    bool

	set  world.Set
	quad device.Geometry

	gbuffer, occlusion, blurAO, composite device.Program
}

var _ scene.Scene = &ssaoScene{}

// New creates the SSAO scene.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - scene.Scene: the scene
func New(options ...SSAOBuilderOption) scene.Scene {
	s := &ssaoScene{
		objects: world.Objects(),
		camera:  world.Camera(),
		light:   world.Light(),
		radius:  0.5,
		bias:    0.025,
		samples: 16,
		ambient: 0.4,
		blur:    true,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *ssaoScene) Name() string { return Name }

func (s *ssaoScene) Targets() []scene.TargetSpec {
	return []scene.TargetSpec{
		{Name: TargetGBuffer, Kind: attachment.KindDeferredGeometry},
		{Name: TargetAO, Kind: attachment.KindColorOnly},
		{Name: TargetAOBlur, Kind: attachment.KindColorOnly},
	}
}

func (s *ssaoScene) Setup(res *scene.Resources) error {
	var err error
	if s.gbuffer, err = res.Program(shaders.GBuffer); err != nil {
		return err
	}
	if s.occlusion, err = res.Program(shaders.SSAO); err != nil {
		return err
	}
	if s.blurAO, err = res.Program(shaders.SSAOBlur); err != nil {
		return err
	}
	if s.composite, err = res.Program(shaders.SSAOComposite); err != nil {
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

func (s *ssaoScene) Frame(res *scene.Resources, _ scene.FrameInfo) (pipeline.Pipeline, uniform.Bag, error) {
	gbuf, ao, aoBlur := res.Target(TargetGBuffer), res.Target(TargetAO), res.Target(TargetAOBlur)

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
	occlusion, err := pass.New(
		pass.WithLabel("occlusion"),
		pass.WithProgram(s.occlusion),
		pass.WithDestination(ao),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput("gPosition", gbuf, attachment.ComponentPosition),
		pass.WithInput("gNormal", gbuf, attachment.ComponentNormal),
		pass.WithUniforms(uniform.Bag{
			"radius":  uniform.Float(s.radius),
			"bias":    uniform.Float(s.bias),
			"samples": uniform.Int(int32(s.samples)),
		}),
		pass.WithDraw(s.quad, nil),
	)
	if err != nil {
		return nil, nil, err
	}
	passes := []pass.Pass{geometry, occlusion}

	occluded := ao
	if s.blur {
		smooth, err := pass.New(
			pass.WithLabel("occlusion blur"),
			pass.WithProgram(s.blurAO),
			pass.WithDestination(aoBlur),
			pass.WithDrawState(device.FullscreenDrawState()),
			pass.WithInput("ao", ao, attachment.ComponentColor),
			pass.WithDraw(s.quad, nil),
		)
		if err != nil {
			return nil, nil, err
		}
		passes = append(passes, smooth)
		occluded = aoBlur
	}

	composite, err := pass.New(append([]pass.PassBuilderOption{
		pass.WithLabel("composite"),
		pass.WithProgram(s.composite),
		pass.WithDestination(res.Display),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithClearColor(world.Background),
		pass.WithInput("ao", occluded, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{"ambient": uniform.Float(s.ambient)}),
		pass.WithDraw(s.quad, nil),
	}, world.GBufferInputs(gbuf)...)...)
	if err != nil {
		return nil, nil, err
	}
	passes = append(passes, composite)

	pl, err := res.Pipeline(Name, passes...)
	if err != nil {
		return nil, nil, err
	}
	return pl, uniform.Merge(s.camera.Uniforms(res.Aspect()), s.light.Uniforms()), nil
}

func (s *ssaoScene) Release() {
	s.set.Release()
	if s.quad != nil {
		s.quad.Release()
	}
}
