// Package gomt provides machine translation over pretrained language-pair models.
//
// Gomt resolves a (source, target) language pair to a model identifier,
// loads a translation pipeline for that model once per process, and runs
// user text through it. Every request ends in an explicit Result rather
// than a panic or an unhandled error.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "fmt"
//	    "os"
//
//	    "github.com/ZaguanLabs/gomt"
//	    "github.com/ZaguanLabs/gomt/cache"
//	    "github.com/ZaguanLabs/gomt/provider"
//	)
//
//	func main() {
//	    // Create a pipeline factory
//	    f := provider.NewHuggingFaceFactory(provider.HuggingFaceConfig{
//	        Token: os.Getenv("HF_API_TOKEN"),
//	    })
//
//	    // Create translator
//	    t := gomt.NewTranslator(f,
//	        gomt.WithCache(cache.NewInMemoryCache(3600)),
//	    )
//
//	    // Translate
//	    res := t.Translate(context.Background(), gomt.Request{
//	        Text:   "Hello World",
//	        Source: "English",
//	        Target: "German",
//	    })
//	    fmt.Println(res.Message()) // Translation completed!
//	    fmt.Println(res.Text)      // Hallo Welt
//	}
package gomt
