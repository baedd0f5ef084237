package scene

import "github.com/Carmen-Shannon/oxy-shade/engine/renderer/pipeline"

// RunnerBuilderOption is a functional option for configuring a Runner.
type RunnerBuilderOption func(r *runnerImpl)

// WithPassObserver attaches an observer to every pipeline the scene builds through
// Resources.Pipeline, typically the profiler's pass timer.
//
// Parameters:
//   - observer: the callback invoked after each pass
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithPassObserver(observer pipeline.PassObserver) RunnerBuilderOption {
	return func(r *runnerImpl) {
		r.res.Observer = observer
	}
}
