package gomt

import (
	"context"
	"fmt"
	"testing"
)

func TestTranslateAll_Order(t *testing.T) {
	factory := newMockFactory()
	translator := NewTranslator(factory)

	reqs := []Request{
		{Text: "Hello", Source: "English", Target: "German"},
		{Text: "", Source: "English", Target: "German"},
		{Text: "Hello", Source: "English", Target: "Klingon"},
		{Text: "World", Source: "English", Target: "German"},
		{Text: "Cheese", Source: "English", Target: "French"},
	}

	results := translator.TranslateAll(context.Background(), reqs, 3)

	if len(results) != len(reqs) {
		t.Fatalf("Expected %d results, got %d", len(reqs), len(results))
	}

	expected := []Status{StatusDone, StatusEmptyInput, StatusUnsupported, StatusDone, StatusDone}
	for i, res := range results {
		if res.Status != expected[i] {
			t.Errorf("Result %d: expected %s, got %s", i, expected[i], res.Status)
		}
	}

	if results[0].Text != "Hallo" || results[3].Text != "Welt" {
		t.Errorf("Results out of order: %q, %q", results[0].Text, results[3].Text)
	}
	if results[4].Text != "[Helsinki-NLP/opus-mt-en-fr] Cheese" {
		t.Errorf("Unexpected French result: %q", results[4].Text)
	}
}

func TestTranslateAll_SharedLoad(t *testing.T) {
	factory := newMockFactory()
	translator := NewTranslator(factory)

	reqs := make([]Request, 50)
	for i := range reqs {
		reqs[i] = Request{Text: fmt.Sprintf("line %d", i), Source: "English", Target: "Italian"}
	}

	results := translator.TranslateAll(context.Background(), reqs, 8)

	for i, res := range results {
		if !res.OK() {
			t.Errorf("Result %d failed: %v", i, res.Err)
		}
	}

	if got := factory.loadCount("Helsinki-NLP/opus-mt-en-it"); got != 1 {
		t.Errorf("Expected 1 load across workers, got %d", got)
	}
}

func TestTranslateAll_Empty(t *testing.T) {
	translator := NewTranslator(newMockFactory())

	if results := translator.TranslateAll(context.Background(), nil, 0); len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestTranslateAll_DefaultWorkers(t *testing.T) {
	translator := NewTranslator(newMockFactory())

	results := translator.TranslateAll(context.Background(), []Request{
		{Text: "Hello", Source: "English", Target: "German"},
	}, 0)

	if len(results) != 1 || !results[0].OK() {
		t.Errorf("Unexpected results: %+v", results)
	}
}
