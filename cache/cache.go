// Package cache provides translation result caches keyed by text hash and
// model identifier: in-memory, Redis and SQLite.
package cache

import "github.com/ZaguanLabs/gomt"

// TranslationCache is an alias to the main package interface.
type TranslationCache = gomt.TranslationCache
