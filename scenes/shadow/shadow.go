// Package shadow renders the demo world's depth from the light into a shadow map, then shades
// it from the camera with a depth comparison against that map.
package shadow

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
const Name = "shadow"

// Target names.
const (
	TargetShadowMap = "shadowMap"
	TargetScene     = "scene"
)

type shadowScene struct {
	objects    []world.Object
	camera     camera.Camera
	light      light.Light
	resolution int
	bias       float32
	depthBias  float32
	ambient    float32
	gamma      float32
	pcf        int
	debugQuad  bool

	set  world.Set
	quad device.Geometry

	depth, shade, present, debug device.Program
}

var _ scene.Scene = &shadowScene{}

// New creates the shadow mapping scene.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - scene.Scene: the scene
func New(options ...ShadowBuilderOption) scene.Scene {
	s := &shadowScene{
		objects:    world.Objects(),
		camera:     world.Camera(),
		light:      world.Light(),
		resolution: light.DefaultShadowMapResolution,
		bias:       light.DefaultShadowBias,
		ambient:    0.15,
		gamma:      2.2,
		pcf:        1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *shadowScene) Name() string { return Name }

func (s *shadowScene) Targets() []scene.TargetSpec {
	return []scene.TargetSpec{
		{Name: TargetShadowMap, Kind: attachment.KindShadowDepth, Width: s.resolution, Height: s.resolution},
		{Name: TargetScene, Kind: attachment.KindColorDepth},
	}
}

func (s *shadowScene) Setup(res *scene.Resources) error {
	var err error
	if s.depth, err = res.Program(shaders.ShadowDepth); err != nil {
		return err
	}
	if s.shade, err = res.Program(shaders.ShadowShade); err != nil {
		return err
	}
	if s.present, err = res.Program(shaders.Present); err != nil {
		return err
	}
	if s.debugQuad {
		if s.debug, err = res.Program(shaders.ShadowDebug); err != nil {
			return err
		}
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

func (s *shadowScene) Frame(res *scene.Resources, _ scene.FrameInfo) (pipeline.Pipeline, uniform.Bag, error) {
	shadowMap, sceneRT := res.Target(TargetShadowMap), res.Target(TargetScene)

	casters := device.DefaultDrawState()
	casters.Cull = device.CullNone
	casters.DepthBias = s.depthBias
	depth, err := pass.New(append([]pass.PassBuilderOption{
		pass.WithLabel("shadow depth"),
		pass.WithProgram(s.depth),
		pass.WithDestination(shadowMap),
		pass.WithDrawState(casters),
		pass.WithClearDepth(1),
	}, s.set.Draws()...)...)
	if err != nil {
		return nil, nil, err
	}
	shade, err := pass.New(append([]pass.PassBuilderOption{
		pass.WithLabel("shade"),
		pass.WithProgram(s.shade),
		pass.WithDestination(sceneRT),
		pass.WithClearColor(world.Background),
		pass.WithClearDepth(1),
		pass.WithInput("shadowMap", shadowMap, attachment.ComponentDepth),
		pass.WithUniforms(uniform.Bag{
			"ambient": uniform.Float(s.ambient),
			"bias":    uniform.Float(s.bias),
			"pcf":     uniform.Int(int32(s.pcf)),
		}),
	}, s.set.Draws()...)...)
	if err != nil {
		return nil, nil, err
	}
	present, err := pass.New(
		pass.WithLabel("present"),
		pass.WithProgram(s.present),
		pass.WithDestination(res.Display),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput("source", sceneRT, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{"exposure": uniform.Float(1), "gamma": uniform.Float(s.gamma)}),
		pass.WithDraw(s.quad, nil),
	)
	if err != nil {
		return nil, nil, err
	}
	passes := []pass.Pass{depth, shade, present}

	if s.debugQuad {
		w, h := res.Display.Width(), res.Display.Height()
		debug, err := pass.New(
			pass.WithLabel("shadow debug"),
			pass.WithProgram(s.debug),
			pass.WithDestination(res.Display),
			pass.WithDrawState(device.FullscreenDrawState()),
			pass.WithViewport(device.Viewport{X: w - w/4, Y: h - h/4, Width: w / 4, Height: h / 4}),
			pass.WithInput("shadowMap", shadowMap, attachment.ComponentDepth),
			pass.WithDraw(s.quad, nil),
		)
		if err != nil {
			return nil, nil, err
		}
		passes = append(passes, debug)
	}

	pl, err := res.Pipeline(Name, passes...)
	if err != nil {
		return nil, nil, err
	}
	return pl, uniform.Merge(s.camera.Uniforms(res.Aspect()), s.light.Uniforms()), nil
}

func (s *shadowScene) Release() {
	s.set.Release()
	if s.quad != nil {
		s.quad.Release()
	}
}
