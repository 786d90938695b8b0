package testsupport

import (
	"testing"

	"shelf/internal/config"
	"shelf/internal/store"
)

// MustOpenZones opens the three zone stores for tests and registers cleanup.
func MustOpenZones(t testing.TB, cfg *config.Config) *store.Zones {
	t.Helper()

	zones, err := store.OpenZones(cfg)
	if err != nil {
		t.Fatalf("store.OpenZones: %v", err)
	}
	t.Cleanup(func() {
		zones.Close()
	})
	return zones
}

// MustOpenStore opens a single zone store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config, zone store.Zone) *store.Store {
	t.Helper()

	s, err := store.Open(zone, store.DBPath(cfg, zone))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
