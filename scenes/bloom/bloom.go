// Package bloom extracts the bright parts of an HDR image, blurs them by ping-ponging
// between two half-resolution targets, and adds the result back before tone mapping.
package bloom

import (
	"fmt"

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
const Name = "bloom"

// Target names.
const (
	TargetHDR    = "hdr"
	TargetBright = "bright"
	TargetPingA  = "pingA"
	TargetPingB  = "pingB"
)

type bloomScene struct {
	objects    []world.Object
	camera     camera.Camera
	light      light.Light
	ambient    float32
	threshold  float32
	strength   float32
	exposure   float32
	gamma      float32
	iterations int
	scale      float32

	set  world.Set
	quad device.Geometry

	lit, bright, blurH, blurV, composite device.Program
}

var _ scene.Scene = &bloomScene{}

// New creates the bloom scene.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - scene.Scene: the scene
func New(options ...BloomBuilderOption) scene.Scene {
	s := &bloomScene{
		objects:    world.Objects(),
		camera:     world.Camera(),
		light:      brightLight(),
		ambient:    0.2,
		threshold:  1,
		strength:   0.8,
		exposure:   1,
		gamma:      2.2,
		iterations: 4,
		scale:      0.5,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// brightLight is the demo light at an intensity that saturates the lit faces.
func brightLight() light.Light {
	return light.NewLight(light.LightTypePoint,
		light.WithPosition(mgl32.Vec3{2, 5, 3}),
		light.WithTarget(mgl32.Vec3{}),
		light.WithIntensity(4),
	)
}

func (s *bloomScene) Name() string { return Name }

func (s *bloomScene) Targets() []scene.TargetSpec {
	half := []attachment.AttachmentBuilderOption{attachment.WithColorFormat(device.FormatRGBA16Float)}
	return []scene.TargetSpec{
		{Name: TargetHDR, Kind: attachment.KindColorDepth, Options: half},
		{Name: TargetBright, Kind: attachment.KindColorOnly, Options: half, Scale: s.scale},
		{Name: TargetPingA, Kind: attachment.KindColorOnly, Options: half, Scale: s.scale},
		{Name: TargetPingB, Kind: attachment.KindColorOnly, Options: half, Scale: s.scale},
	}
}

func (s *bloomScene) Setup(res *scene.Resources) error {
	var err error
	if s.lit, err = res.Program(shaders.Lit); err != nil {
		return err
	}
	if s.bright, err = res.Program(shaders.Bright); err != nil {
		return err
	}
	if s.blurH, err = res.Program(shaders.BlurH); err != nil {
		return err
	}
	if s.blurV, err = res.Program(shaders.BlurV); err != nil {
		return err
	}
	if s.composite, err = res.Program(shaders.BloomComposite); err != nil {
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

func (s *bloomScene) Frame(res *scene.Resources, _ scene.FrameInfo) (pipeline.Pipeline, uniform.Bag, error) {
	hdrRT, brightRT := res.Target(TargetHDR), res.Target(TargetBright)
	pingA, pingB := res.Target(TargetPingA), res.Target(TargetPingB)

	render, err := pass.New(append([]pass.PassBuilderOption{
		pass.WithLabel("scene"),
		pass.WithProgram(s.lit),
		pass.WithDestination(hdrRT),
		pass.WithClearColor(world.Background),
		pass.WithClearDepth(1),
		pass.WithUniforms(uniform.Bag{"ambient": uniform.Float(s.ambient)}),
	}, s.set.Draws()...)...)
	if err != nil {
		return nil, nil, err
	}
	extract, err := pass.New(
		pass.WithLabel("bright"),
		pass.WithProgram(s.bright),
		pass.WithDestination(brightRT),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput("hdr", hdrRT, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{"threshold": uniform.Float(s.threshold)}),
		pass.WithDraw(s.quad, nil),
	)
	if err != nil {
		return nil, nil, err
	}
	passes := []pass.Pass{render, extract}

	// Each iteration blurs horizontally into A and vertically back into B, so B always holds
	// the latest result.
	source := brightRT
	for i := 0; i < s.iterations; i++ {
		horizontal, err := pass.New(
			pass.WithLabel(fmt.Sprintf("blur horizontal %d", i)),
			pass.WithProgram(s.blurH),
			pass.WithDestination(pingA),
			pass.WithDrawState(device.FullscreenDrawState()),
			pass.WithInput("source", source, attachment.ComponentColor),
			pass.WithDraw(s.quad, nil),
		)
		if err != nil {
			return nil, nil, err
		}
		vertical, err := pass.New(
			pass.WithLabel(fmt.Sprintf("blur vertical %d", i)),
			pass.WithProgram(s.blurV),
			pass.WithDestination(pingB),
			pass.WithDrawState(device.FullscreenDrawState()),
			pass.WithInput("source", pingA, attachment.ComponentColor),
			pass.WithUniforms(uniform.Bag{"exposure": uniform.Float(1), "gamma": uniform.Float(1)}),
			pass.WithDraw(s.quad, nil),
		)
		if err != nil {
			return nil, nil, err
		}
		passes = append(passes, horizontal, vertical)
		source = pingB
	}

	composite, err := pass.New(
		pass.WithLabel("composite"),
		pass.WithProgram(s.composite),
		pass.WithDestination(res.Display),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput("hdr", hdrRT, attachment.ComponentColor),
		pass.WithInput("bloom", source, attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{
			"exposure": uniform.Float(s.exposure),
			"gamma":    uniform.Float(s.gamma),
			"strength": uniform.Float(s.strength),
		}),
		pass.WithDraw(s.quad, nil),
	)
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

func (s *bloomScene) Release() {
	s.set.Release()
	if s.quad != nil {
		s.quad.Release()
	}
}
