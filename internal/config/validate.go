package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the normalized configuration for contradictions that would
// corrupt zone state at runtime.
func (c *Config) Validate() error {
	var problems []string

	zones := []struct {
		name string
		dir  string
	}{
		{"staging_dir", c.Paths.StagingDir},
		{"production_dir", c.Paths.ProductionDir},
		{"rejection_dir", c.Paths.RejectionDir},
	}
	seen := map[string]string{}
	for _, zone := range zones {
		name, dir := zone.name, zone.dir
		if strings.TrimSpace(dir) == "" {
			problems = append(problems, fmt.Sprintf("%s must be set", name))
			continue
		}
		if other, dup := seen[dir]; dup {
			problems = append(problems, fmt.Sprintf("%s and %s must be distinct directories", other, name))
			continue
		}
		seen[dir] = name
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging format %q is not supported", c.Logging.Format))
	}

	if c.Backup.Enabled && strings.TrimSpace(c.Paths.BackupDir) == "" {
		problems = append(problems, "backup_dir must be set when backups are enabled")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}

// RequireLLM verifies the oracle credentials needed for ingestion runs.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return errors.New("llm api_key is required for ingestion; set [llm] api_key in the config file")
	}
	return nil
}
