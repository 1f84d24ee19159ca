package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZaguanLabs/gomt"
)

// MockFactory is a deterministic in-memory backend for testing and dry runs.
type MockFactory struct {
	Translations map[string]string // Map of source text to translation, shared by all models
	LoadErr      error             // Returned by Load when set
	TranslateErr error             // Returned by every pipeline when set

	mu        sync.Mutex
	loads     map[string]int
	callCount int
}

// NewMockFactory creates a new mock factory with default German translations.
func NewMockFactory() *MockFactory {
	return &MockFactory{
		Translations: map[string]string{
			"Hello":        "Hallo",
			"World":        "Welt",
			"Hello World":  "Hallo Welt",
			"Good morning": "Guten Morgen",
		},
		loads: make(map[string]int),
	}
}

// Load returns a mock pipeline for the model.
func (m *MockFactory) Load(ctx context.Context, req LoadRequest) (Pipeline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loads == nil {
		m.loads = make(map[string]int)
	}
	m.loads[req.Model]++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}

	target := req.Model
	if _, code, ok := gomt.ParseOpusModel(req.Model); ok {
		target = code
	}

	return gomt.PipelineFunc(func(ctx context.Context, text string) ([]Output, error) {
		m.mu.Lock()
		defer m.mu.Unlock()

		m.callCount++
		if m.TranslateErr != nil {
			return nil, m.TranslateErr
		}
		if translation, ok := m.Translations[text]; ok {
			return []Output{{TranslationText: translation}}, nil
		}
		// Return tagged text for unknown translations
		return []Output{{TranslationText: fmt.Sprintf("[%s] %s", target, text)}}, nil
	}), nil
}

// Loads returns how many times model was loaded.
func (m *MockFactory) Loads(model string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads[model]
}

// CallCount returns the number of pipeline calls across all models.
func (m *MockFactory) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset resets the counters.
func (m *MockFactory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = make(map[string]int)
	m.callCount = 0
}

// Verify MockFactory implements Factory
var _ Factory = (*MockFactory)(nil)
