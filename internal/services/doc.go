// Package services provides the error taxonomy and context plumbing shared
// by the pipeline stages and the API surface.
package services
