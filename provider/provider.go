// Package provider defines translation pipeline backends.
package provider

import "github.com/ZaguanLabs/gomt"

// Factory is an alias to the main package interface for convenience.
type Factory = gomt.Factory

// Pipeline is an alias to the main package interface.
type Pipeline = gomt.Pipeline

// LoadRequest is an alias to the main package type.
type LoadRequest = gomt.LoadRequest

// Output is an alias to the main package type.
type Output = gomt.Output
