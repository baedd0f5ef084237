package scene

import (
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/attachment"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pass"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/uniform"
)

// TargetSpec declares one offscreen render target a scene needs. The target is allocated when
// the runner initializes and recreated on every resize.
type TargetSpec struct {
	Name    string
	Kind    attachment.Kind
	Options []attachment.AttachmentBuilderOption

	// Scale sizes the target relative to the display. Zero means 1.
	Scale float32

	// Width and Height, when both non-zero, fix the size regardless of the display.
	Width, Height int
}

// Size returns the target size for a display of the given size.
func (s TargetSpec) Size(displayWidth, displayHeight int) (int, int) {
	if s.Width > 0 && s.Height > 0 {
		return s.Width, s.Height
	}
	return common.ScaledSize(displayWidth, displayHeight, s.Scale)
}

// Resources is everything the runner owns on behalf of a scene.
type Resources struct {
	Device   device.Device
	Programs device.ProgramLibrary
	Display  *target.Display
	Targets  map[string]*target.RenderTarget

	// Observer, when set, is attached to every pipeline built through Pipeline.
	Observer pipeline.PassObserver
}

// Target returns the named target and panics if the scene did not declare it.
func (r *Resources) Target(name string) *target.RenderTarget {
	rt, ok := r.Targets[name]
	if !ok {
		panic(fmt.Sprintf("scene: target %q was not declared", name))
	}
	return rt
}

// Program resolves a program from the library, annotating the error with its name.
func (r *Resources) Program(name string) (device.Program, error) {
	p, err := r.Programs.Program(name)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	return p, nil
}

// Pipeline builds a pipeline labelled after the scene, attaching the runner's pass observer.
//
// Parameters:
//   - label: the pipeline label
//   - passes: the passes in execution order
//
// Returns:
//   - pipeline.Pipeline: the validated pipeline
//   - error: an ordering error from pipeline.New
func (r *Resources) Pipeline(label string, passes ...pass.Pass) (pipeline.Pipeline, error) {
	options := []pipeline.PipelineBuilderOption{pipeline.WithLabel(label)}
	if r.Observer != nil {
		options = append(options, pipeline.WithPassObserver(r.Observer))
	}
	return pipeline.New(passes, options...)
}

// Aspect returns the display aspect ratio.
func (r *Resources) Aspect() float32 {
	return float32(r.Display.Width()) / float32(max(r.Display.Height(), 1))
}

// FrameInfo describes the frame being rendered.
type FrameInfo struct {
	Index   uint64
	Elapsed time.Duration
	Delta   time.Duration
	Width   int
	Height  int
}

// Scene is one cookbook demo. Its passes borrow the runner's render targets; a scene never
// allocates or releases targets itself.
type Scene interface {
	// Name returns the scene name used on the command line.
	Name() string

	// Targets declares the offscreen targets the scene draws into.
	Targets() []TargetSpec

	// Setup creates geometry and resolves programs. Called once after targets exist.
	//
	// Parameters:
	//   - res: the runner's resources
	//
	// Returns:
	//   - error: any setup failure
	Setup(res *Resources) error

	// Frame returns the pipeline and frame uniforms for one frame.
	//
	// Parameters:
	//   - res: the runner's resources
	//   - frame: timing and size of the frame
	//
	// Returns:
	//   - pipeline.Pipeline: the passes to run, in order
	//   - uniform.Bag: frame-level uniforms
	//   - error: any failure building the pipeline
	Frame(res *Resources, frame FrameInfo) (pipeline.Pipeline, uniform.Bag, error)

	// Release frees geometry created in Setup.
	Release()
}

// FrameFinisher is implemented by scenes that keep state across frames which is only valid
// once a frame has fully rendered. The runner calls FinishFrame after every frame it started,
// with the frame's error.
type FrameFinisher interface {
	FinishFrame(frame FrameInfo, err error)
}
