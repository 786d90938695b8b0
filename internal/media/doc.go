// Package media defines the typed video variants the library manages and
// the static per-variant configuration (table name, staging subdirectory,
// extension allow-list, field schema) that the rest of the pipeline derives
// its behavior from.
//
// Unknown values are represented structurally: numeric fields are nil
// pointers and string fields are empty until something fills them. The
// "-1"/"placeholder" sentinels the extraction oracle emits are normalized
// away at decode boundaries and never stored or compared elsewhere.
package media
