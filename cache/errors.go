package cache

import "github.com/ZaguanLabs/gomt"

// CacheError is an alias to the main package error type.
type CacheError = gomt.CacheError
