// Package logging assembles the structured slog loggers used across shelf.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with stages and correlation IDs. Prefer these constructors over
// hand-rolled slog setup so every component emits the same shape.
package logging
