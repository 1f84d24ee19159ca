package provider

import (
	"context"
	"errors"
	"testing"
)

func TestMockFactory(t *testing.T) {
	m := NewMockFactory()

	p, err := m.Load(context.Background(), LoadRequest{Model: "Helsinki-NLP/opus-mt-en-it"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	out, err := p.Translate(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out[0].TranslationText != "Hallo" {
		t.Errorf("Expected 'Hallo', got %q", out[0].TranslationText)
	}

	out, _ = p.Translate(context.Background(), "Unknown text")
	if out[0].TranslationText != "[it] Unknown text" {
		t.Errorf("Expected '[it] Unknown text', got %q", out[0].TranslationText)
	}

	if m.Loads("Helsinki-NLP/opus-mt-en-it") != 1 {
		t.Errorf("Expected 1 load, got %d", m.Loads("Helsinki-NLP/opus-mt-en-it"))
	}
	if m.CallCount() != 2 {
		t.Errorf("Expected CallCount 2, got %d", m.CallCount())
	}

	m.Reset()
	if m.CallCount() != 0 || m.Loads("Helsinki-NLP/opus-mt-en-it") != 0 {
		t.Error("Reset should clear counters")
	}
}

func TestMockFactory_Errors(t *testing.T) {
	m := NewMockFactory()
	m.LoadErr = errors.New("offline")

	if _, err := m.Load(context.Background(), LoadRequest{Model: "m"}); err == nil {
		t.Error("Expected load error")
	}

	m.LoadErr = nil
	m.TranslateErr = errors.New("out of memory")

	p, _ := m.Load(context.Background(), LoadRequest{Model: "m"})
	if _, err := p.Translate(context.Background(), "Hello"); err == nil {
		t.Error("Expected translate error")
	}
}

func TestMockFactory_ZeroValue(t *testing.T) {
	m := &MockFactory{Translations: map[string]string{"Thanks": "Danke"}}

	p, err := m.Load(context.Background(), LoadRequest{Model: "Helsinki-NLP/opus-mt-en-de"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	out, err := p.Translate(context.Background(), "Thanks")
	if err != nil || out[0].TranslationText != "Danke" {
		t.Errorf("Translate = %v, %v", out, err)
	}
	if m.Loads("Helsinki-NLP/opus-mt-en-de") != 1 {
		t.Errorf("Expected 1 load, got %d", m.Loads("Helsinki-NLP/opus-mt-en-de"))
	}
}
