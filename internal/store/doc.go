// Package store provides SQLite-backed persistence for the three lifecycle
// zones. Each zone owns an independent database holding one table per media
// variant; tables are provisioned on demand from the variant's static schema
// descriptor.
package store
