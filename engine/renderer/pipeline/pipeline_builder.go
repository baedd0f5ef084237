package pipeline

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithLabel sets the pipeline label used in error messages.
//
// Parameters:
//   - label: the pipeline label
//
// Returns:
//   - PipelineBuilderOption: a function that sets the label
func WithLabel(label string) PipelineBuilderOption {
	return func(p *pipeline) {
		p.label = label
	}
}

// WithPassObserver registers a callback invoked after each pass with its timing and result.
//
// Parameters:
//   - observer: the callback
//
// Returns:
//   - PipelineBuilderOption: a function that sets the observer
func WithPassObserver(observer PassObserver) PipelineBuilderOption {
	return func(p *pipeline) {
		p.observer = observer
	}
}
