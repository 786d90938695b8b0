// Package oracle wraps the external LLM completion service used to derive
// structured metadata from file paths. The service enforces no schema on its
// side, so the package also owns the defensive extraction of JSON object
// arrays from free text responses.
package oracle
