package store

import (
	"fmt"
	"path/filepath"

	"shelf/internal/config"
)

// Zones bundles the three lifecycle databases.
type Zones struct {
	Staging    *Store
	Production *Store
	Rejection  *Store
}

// DBPath returns the database file location for a zone under the configured
// database directory.
func DBPath(cfg *config.Config, zone Zone) string {
	return filepath.Join(cfg.Paths.DBDir, string(zone)+".db")
}

// DirFor returns the zone's directory tree root.
func DirFor(cfg *config.Config, zone Zone) string {
	switch zone {
	case ZoneStaging:
		return cfg.Paths.StagingDir
	case ZoneProduction:
		return cfg.Paths.ProductionDir
	case ZoneRejection:
		return cfg.Paths.RejectionDir
	default:
		return ""
	}
}

// OpenZones opens all three zone databases, ensuring directories exist first.
func OpenZones(cfg *config.Config) (*Zones, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	zones := &Zones{}
	for _, zone := range []Zone{ZoneStaging, ZoneProduction, ZoneRejection} {
		s, err := Open(zone, DBPath(cfg, zone))
		if err != nil {
			_ = zones.Close()
			return nil, fmt.Errorf("open %s database: %w", zone, err)
		}
		switch zone {
		case ZoneStaging:
			zones.Staging = s
		case ZoneProduction:
			zones.Production = s
		case ZoneRejection:
			zones.Rejection = s
		}
	}
	return zones, nil
}

// ForZone resolves the store backing a zone.
func (z *Zones) ForZone(zone Zone) *Store {
	switch zone {
	case ZoneStaging:
		return z.Staging
	case ZoneProduction:
		return z.Production
	case ZoneRejection:
		return z.Rejection
	default:
		return nil
	}
}

// Close closes every open zone database.
func (z *Zones) Close() error {
	var firstErr error
	for _, s := range []*Store{z.Staging, z.Production, z.Rejection} {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
