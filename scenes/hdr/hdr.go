// Package hdr renders the demo world into a half-float target, reduces its log luminance to a
// single texel and tone maps the image against that average.
package hdr

import (
	"fmt"
	"math/bits"

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
const Name = "hdr"

// TargetHDR is the half-float scene target.
const TargetHDR = "hdr"

// DefaultLuminanceSize is the edge of the first luminance target.
const DefaultLuminanceSize = 256

// LuminanceTarget returns the name of level i of the luminance chain. Level 0 is the full
// luminance target; each further level halves it down to 1x1.
func LuminanceTarget(i int) string {
	return fmt.Sprintf("lum%d", i)
}

type hdrScene struct {
	objects  []world.Object
	camera   camera.Camera
	light    light.Light
	ambient  float32
	exposure float32
	white    float32
	gamma    float32
	lumSize  int
	every    uint64

	set  world.Set
	quad device.Geometry

	lit, luminance, downsample, tonemap device.Program

	// average is the 1x1 attachment the last reduction wrote.
	average attachment.Attachment
}

var (
	_ scene.Scene         = &hdrScene{}
	_ scene.FrameFinisher = &hdrScene{}
)

// New creates the HDR tone mapping scene.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - scene.Scene: the scene
func New(options ...HDRBuilderOption) scene.Scene {
	s := &hdrScene{
		objects:  world.Objects(),
		camera:   world.Camera(),
		light:    brightLight(),
		ambient:  0.3,
		exposure: 0.5,
		white:    4,
		gamma:    2.2,
		lumSize:  DefaultLuminanceSize,
		every:    1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// brightLight is the demo light at an intensity that pushes lit surfaces past 1.
func brightLight() light.Light {
	return light.NewLight(light.LightTypePoint,
		light.WithPosition(mgl32.Vec3{2, 5, 3}),
		light.WithTarget(mgl32.Vec3{}),
		light.WithIntensity(6),
	)
}

func (s *hdrScene) Name() string { return Name }

// levels returns the number of luminance targets, from lumSize down to 1.
func (s *hdrScene) levels() int {
	return bits.Len(uint(s.lumSize))
}

func (s *hdrScene) Targets() []scene.TargetSpec {
	half := attachment.WithColorFormat(device.FormatRGBA16Float)
	specs := []scene.TargetSpec{
		{Name: TargetHDR, Kind: attachment.KindColorDepth, Options: []attachment.AttachmentBuilderOption{half}},
	}
	for i, size := 0, s.lumSize; i < s.levels(); i, size = i+1, size/2 {
		specs = append(specs, scene.TargetSpec{
			Name:    LuminanceTarget(i),
			Kind:    attachment.KindColorOnly,
			Options: []attachment.AttachmentBuilderOption{half},
			Width:   size,
			Height:  size,
		})
	}
	return specs
}

func (s *hdrScene) Setup(res *scene.Resources) error {
	var err error
	if s.lit, err = res.Program(shaders.Lit); err != nil {
		return err
	}
	if s.luminance, err = res.Program(shaders.Luminance); err != nil {
		return err
	}
	if s.downsample, err = res.Program(shaders.Downsample); err != nil {
		return err
	}
	if s.tonemap, err = res.Program(shaders.Tonemap); err != nil {
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

// reduce reports whether the luminance chain runs this frame. A cached average is reused
// only while the 1x1 attachment it lives in is unchanged.
func (s *hdrScene) reduce(res *scene.Resources, frame scene.FrameInfo) bool {
	last := res.Target(LuminanceTarget(s.levels() - 1)).Attachment()
	if frame.Index%s.every == 0 || last != s.average {
		s.average = last
		return true
	}
	return false
}

func (s *hdrScene) Frame(res *scene.Resources, frame scene.FrameInfo) (pipeline.Pipeline, uniform.Bag, error) {
	hdrRT := res.Target(TargetHDR)

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
	passes := []pass.Pass{render}

	if s.reduce(res, frame) {
		lum, err := pass.New(
			pass.WithLabel("luminance"),
			pass.WithProgram(s.luminance),
			pass.WithDestination(res.Target(LuminanceTarget(0))),
			pass.WithDrawState(device.FullscreenDrawState()),
			pass.WithInput("hdr", hdrRT, attachment.ComponentColor),
			pass.WithDraw(s.quad, nil),
		)
		if err != nil {
			return nil, nil, err
		}
		passes = append(passes, lum)
		for i := 1; i < s.levels(); i++ {
			down, err := pass.New(
				pass.WithLabel(fmt.Sprintf("downsample %d", i)),
				pass.WithProgram(s.downsample),
				pass.WithDestination(res.Target(LuminanceTarget(i))),
				pass.WithDrawState(device.FullscreenDrawState()),
				pass.WithInput("source", res.Target(LuminanceTarget(i-1)), attachment.ComponentColor),
				pass.WithDraw(s.quad, nil),
			)
			if err != nil {
				return nil, nil, err
			}
			passes = append(passes, down)
		}
	}

	tonemap, err := pass.New(
		pass.WithLabel("tonemap"),
		pass.WithProgram(s.tonemap),
		pass.WithDestination(res.Display),
		pass.WithDrawState(device.FullscreenDrawState()),
		pass.WithInput("hdr", hdrRT, attachment.ComponentColor),
		pass.WithInput("luminance", res.Target(LuminanceTarget(s.levels()-1)), attachment.ComponentColor),
		pass.WithUniforms(uniform.Bag{
			"exposure": uniform.Float(s.exposure),
			"white":    uniform.Float(s.white),
			"gamma":    uniform.Float(s.gamma),
		}),
		pass.WithDraw(s.quad, nil),
	)
	if err != nil {
		return nil, nil, err
	}
	passes = append(passes, tonemap)

	pl, err := res.Pipeline(Name, passes...)
	if err != nil {
		return nil, nil, err
	}
	return pl, uniform.Merge(s.camera.Uniforms(res.Aspect()), s.light.Uniforms()), nil
}

// FinishFrame drops the cached average after a failed frame; the reduction may not have
// written it.
func (s *hdrScene) FinishFrame(_ scene.FrameInfo, err error) {
	if err != nil {
		s.average = nil
	}
}

func (s *hdrScene) Release() {
	s.set.Release()
	if s.quad != nil {
		s.quad.Release()
	}
	s.average = nil
}
