package config

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func NewDefaultConfig() *NodesConfig {
	return &NodesConfig{
		General: GeneralConfig{
			LogDirectory: "-",
			LogColors:    false,
			JsonLogs:     false,
			LogLevel:     "info",
		},
		Paths: PathsConfig{
			InputDirectory:  "./input",
			OutputDirectory: "./output",
			TempDirectory:   "", // os.TempDir()
		},
		Downloads: DownloadsConfig{
			NumWorkers:         10,
			UserAgent:          DefaultUserAgent,
			RetryBackoffMs:     1000,
			ChunkSizeBytes:     8192,
			MaxSizeBytes:       0, // unlimited
			UnsafeCertificates: false,
			TimeoutSeconds: PerKindConfig{
				Image:    10,
				Audio:    60,
				Resource: 10,
				Video:    300, // 5 minutes
			},
			MaxRetries: PerKindConfig{
				Image:    0,
				Audio:    2,
				Resource: 0,
				Video:    0,
			},
		},
		Audio: AudioConfig{
			TargetSampleRate: 16000,
		},
		Uploads: UploadsConfig{
			UseSsl:         false,
			TimeoutSeconds: 300,
		},
		Metrics: MetricsConfig{
			Enabled:     false,
			BindAddress: "localhost",
			Port:        9000,
		},
		Sentry: SentryConfig{
			Enabled:     false,
			Dsn:         "not supplied",
			Environment: "",
			Debug:       false,
		},
	}
}
