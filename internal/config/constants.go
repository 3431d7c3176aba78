package config

// Storage drivers accepted by STORAGE_DRIVER
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Defaults applied when a variable is unset or unparsable
const (
	DefaultPort                  = 8080
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "text"
	DefaultLogDir                = "logs"
	DefaultEnvironment           = "dev"
	DefaultServiceName           = "dine-together"
	DefaultVersion               = "dev"
	DefaultDBName                = "dine_together"
	DefaultDBMaxConns            = 20
	DefaultDefaultTimezone       = "UTC"
	DefaultEventMaxRetries       = 5
	DefaultEventDeadLetterPath   = "logs/event_deadletter.jsonl"
	DefaultSummaryCacheSize      = 1000
	DefaultWorkerCount           = 4
	DefaultEventLogRetentionDays = 30
)

// Placeholder values shipped in .env.example
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)
