package config

const (
	defaultStagingDir    = "~/.local/share/shelf/staging"
	defaultProductionDir = "~/library"
	defaultRejectionDir  = "~/.local/share/shelf/rejected"
	defaultDBDir         = "~/.local/share/shelf/db"
	defaultLogDir        = "~/.local/share/shelf/logs"
	defaultBackupDir     = "~/.local/share/shelf/backups"
	defaultAPIBind       = "127.0.0.1:7489"

	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMReferer        = "https://github.com/shelf/shelf"
	defaultLLMTitle          = "Shelf Metadata Extractor"
	defaultLLMTimeoutSeconds = 60

	defaultIngestBatchSize = 30

	defaultBackupIntervalHours = 24
	defaultBackupKeep          = 7

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:    defaultStagingDir,
			ProductionDir: defaultProductionDir,
			RejectionDir:  defaultRejectionDir,
			DBDir:         defaultDBDir,
			LogDir:        defaultLogDir,
			BackupDir:     defaultBackupDir,
			APIBind:       defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Ingest: Ingest{
			BatchSize: defaultIngestBatchSize,
		},
		Backup: Backup{
			Enabled:       false,
			IntervalHours: defaultBackupIntervalHours,
			Keep:          defaultBackupKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
