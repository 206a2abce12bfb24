package engine

import "github.com/cockroachdb/errors"

// Errors returned by New are marked with one of these, test with errors.Is.
var (
	// ErrConfiguration means a requested layer or extension is missing or
	// the Config is invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrNoSuitableAdapter means no adapter has a queue family doing both
	// graphics and presentation.
	ErrNoSuitableAdapter = errors.New("no suitable adapter")

	// ErrSurfaceCreation means creating the surface, the swapchain or its
	// image views failed.
	ErrSurfaceCreation = errors.New("surface or swapchain creation failed")
)
