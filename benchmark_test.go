package gomt_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/ZaguanLabs/gomt"
	"github.com/ZaguanLabs/gomt/cache"
	"github.com/ZaguanLabs/gomt/processor"
	"github.com/ZaguanLabs/gomt/provider"
)

func BenchmarkHashText(b *testing.B) {
	for i := 0; i < b.N; i++ {
		gomt.HashText("  The quick brown fox jumps over the lazy dog.\n")
	}
}

func BenchmarkCacheKey(b *testing.B) {
	hash := gomt.HashText("Hello World")
	for i := 0; i < b.N; i++ {
		gomt.CacheKey(hash, "Helsinki-NLP/opus-mt-en-de")
	}
}

func BenchmarkPairTable_Resolve(b *testing.B) {
	pairs := gomt.DefaultPairTable()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pairs.Resolve("English", "Dutch")
	}
}

func BenchmarkInMemoryCache_Get(b *testing.B) {
	c := cache.NewInMemoryCache(3600)
	c.Set("test-key", "test-value")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("test-key")
	}
}

func BenchmarkInMemoryCache_SetEvicting(b *testing.B) {
	c := cache.NewBoundedInMemoryCache(0, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
}

func BenchmarkHTMLProcessor_Extract(b *testing.B) {
	proc := processor.NewHTMLProcessor()
	html := `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<nav><a href="/">Home</a><a href="/about">About</a></nav>
	<main>
		<h1>Welcome to Our Site</h1>
		<p>This is a paragraph with some text.</p>
		<ul>
			<li>Item one</li>
			<li>Item two</li>
		</ul>
	</main>
</body>
</html>`
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Extract(html)
	}
}

func BenchmarkTranslator_Translate_Cached(b *testing.B) {
	t := gomt.NewTranslator(provider.NewMockFactory(),
		gomt.WithCache(cache.NewInMemoryCache(3600)),
	)
	req := gomt.Request{Text: "Hello", Source: "English", Target: "German"}
	ctx := context.Background()

	// Warm up loader and cache
	t.Translate(ctx, req)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t.Translate(ctx, req)
	}
}

func BenchmarkTranslator_Translate_Uncached(b *testing.B) {
	t := gomt.NewTranslator(provider.NewMockFactory())
	req := gomt.Request{Text: "Hello", Source: "English", Target: "German"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t.Translate(ctx, req)
	}
}

func BenchmarkTranslator_TranslateAll(b *testing.B) {
	t := gomt.NewTranslator(provider.NewMockFactory())
	reqs := make([]gomt.Request, 50)
	targets := t.Pairs().Targets()
	for i := range reqs {
		reqs[i] = gomt.Request{Text: fmt.Sprintf("Line %d", i), Source: "English", Target: targets[i%len(targets)]}
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t.TranslateAll(ctx, reqs, gomt.DefaultWorkers)
	}
}

func BenchmarkGetDirection(b *testing.B) {
	for i := 0; i < b.N; i++ {
		gomt.GetDirection("ar")
	}
}

func BenchmarkLanguageCode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		gomt.LanguageCode("German")
	}
}
