package gomt

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyInput is returned when the text to translate is empty or whitespace only.
var ErrEmptyInput = errors.New("empty input")

// UnsupportedPairError indicates that no model is mapped for a language pair.
type UnsupportedPairError struct {
	Source string
	Target string
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("Translation from %s to %s is not supported.", e.Source, e.Target)
}

// LoadError indicates that a pipeline could not be created for a model.
type LoadError struct {
	Model string
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("loading model %s: %v", e.Model, e.Cause)
	}
	return fmt.Sprintf("loading model %s", e.Model)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a backend failure while running a pipeline.
type ProviderError struct {
	Message    string
	Cause      error
	Retryable  bool          // Whether the operation can be retried
	RetryAfter time.Duration // Backend's hint for the next attempt, 0 if none
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache backend failure.
type CacheError struct {
	Op    string // Operation: "connect", "set", "prune", ...
	Key   string // Key involved, if any
	Cause error
}

func (e *CacheError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache error: %s %q: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("cache error: %s: %v", e.Op, e.Cause)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}

// EmptyOutputError indicates that a pipeline returned no result records.
type EmptyOutputError struct {
	Model string
}

func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("model %s returned no translations", e.Model)
}
