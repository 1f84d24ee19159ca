package gomt

import "context"

// Pipeline runs one loaded translation model.
type Pipeline interface {
	// Translate returns the ordered result records for text. Callers use the
	// first record.
	Translate(ctx context.Context, text string) ([]Output, error)
}

// Factory creates pipelines. Loading may be slow and network dependent.
type Factory interface {
	Load(ctx context.Context, req LoadRequest) (Pipeline, error)
}

// PipelineFunc adapts a function to the Pipeline interface.
type PipelineFunc func(ctx context.Context, text string) ([]Output, error)

// Translate calls f(ctx, text).
func (f PipelineFunc) Translate(ctx context.Context, text string) ([]Output, error) {
	return f(ctx, text)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, req LoadRequest) (Pipeline, error)

// Load calls f(ctx, req).
func (f FactoryFunc) Load(ctx context.Context, req LoadRequest) (Pipeline, error) {
	return f(ctx, req)
}
