package config

type NodesConfig struct {
	General   GeneralConfig   `yaml:"general"`
	Paths     PathsConfig     `yaml:"paths"`
	Downloads DownloadsConfig `yaml:"downloads"`
	Audio     AudioConfig     `yaml:"audio"`
	Uploads   UploadsConfig   `yaml:"uploads"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Sentry    SentryConfig    `yaml:"sentry"`
}

type GeneralConfig struct {
	LogDirectory string `yaml:"logDirectory"`
	LogColors    bool   `yaml:"logColors"`
	JsonLogs     bool   `yaml:"jsonLogs"`
	LogLevel     string `yaml:"logLevel"`
}

type PathsConfig struct {
	InputDirectory  string `yaml:"inputDirectory"`
	OutputDirectory string `yaml:"outputDirectory"`
	TempDirectory   string `yaml:"tempDirectory"`
}

type DownloadsConfig struct {
	NumWorkers         int           `yaml:"numWorkers"`
	UserAgent          string        `yaml:"userAgent"`
	RetryBackoffMs     int           `yaml:"retryBackoffMs"`
	ChunkSizeBytes     int           `yaml:"chunkSizeBytes"`
	MaxSizeBytes       int64         `yaml:"maxSizeBytes"`
	UnsafeCertificates bool          `yaml:"unsafeCertificates"`
	TimeoutSeconds     PerKindConfig `yaml:"timeoutSeconds"`
	MaxRetries         PerKindConfig `yaml:"maxRetries"`
}

// PerKindConfig holds one value per loader node family.
type PerKindConfig struct {
	Image    int `yaml:"image"`
	Audio    int `yaml:"audio"`
	Resource int `yaml:"resource"`
	Video    int `yaml:"video"`
}

type AudioConfig struct {
	TargetSampleRate int `yaml:"targetSampleRate"`
}

type UploadsConfig struct {
	UseSsl         bool `yaml:"useSsl"`
	TimeoutSeconds int  `yaml:"timeoutSeconds"`
}

type MetricsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	BindAddress string `yaml:"bindAddress"`
	Port        int    `yaml:"port"`
}

type SentryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dsn         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
}
