package config

import "strings"

// normalize expands filesystem paths and backfills defaults for fields left
// empty by the loaded file.
func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(valueOr(c.Paths.StagingDir, defaultStagingDir)); err != nil {
		return err
	}
	if c.Paths.ProductionDir, err = expandPath(valueOr(c.Paths.ProductionDir, defaultProductionDir)); err != nil {
		return err
	}
	if c.Paths.RejectionDir, err = expandPath(valueOr(c.Paths.RejectionDir, defaultRejectionDir)); err != nil {
		return err
	}
	if c.Paths.DBDir, err = expandPath(valueOr(c.Paths.DBDir, defaultDBDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}
	if c.Paths.BackupDir, err = expandPath(valueOr(c.Paths.BackupDir, defaultBackupDir)); err != nil {
		return err
	}

	c.Paths.APIBind = valueOr(c.Paths.APIBind, defaultAPIBind)
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)

	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = valueOr(c.LLM.BaseURL, defaultLLMBaseURL)
	c.LLM.Model = valueOr(c.LLM.Model, defaultLLMModel)
	c.LLM.Referer = valueOr(c.LLM.Referer, defaultLLMReferer)
	c.LLM.Title = valueOr(c.LLM.Title, defaultLLMTitle)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}

	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = defaultIngestBatchSize
	}

	if c.Backup.IntervalHours <= 0 {
		c.Backup.IntervalHours = defaultBackupIntervalHours
	}
	if c.Backup.Keep <= 0 {
		c.Backup.Keep = defaultBackupKeep
	}

	c.Logging.Format = strings.ToLower(valueOr(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(valueOr(c.Logging.Level, defaultLogLevel))

	return nil
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
