// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Server
	EnvPort            = "CAMILA_PORT"
	EnvLogLevel        = "CAMILA_LOG_LEVEL"
	EnvShutdownTimeout = "CAMILA_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir     = "CAMILA_DATA_DIR"
	EnvCatalogPath = "CAMILA_CATALOG_PATH"

	// WhatsApp
	EnvDeviceName = "CAMILA_DEVICE_NAME"

	// LLM
	EnvLLMProvider    = "CAMILA_LLM_PROVIDER"
	EnvLLMModel       = "CAMILA_LLM_MODEL"
	EnvLLMTemperature = "CAMILA_LLM_TEMPERATURE"
	EnvLLMTimeout     = "CAMILA_LLM_TIMEOUT"
	EnvLLMMaxPerHour  = "CAMILA_LLM_MAX_PER_HOUR"
	EnvOpenAIAPIKey   = "CAMILA_OPENAI_API_KEY"
	EnvGeminiAPIKey   = "CAMILA_GEMINI_API_KEY"

	// Metrics Auth
	EnvMetricsUsername = "CAMILA_METRICS_USERNAME"
	EnvMetricsPassword = "CAMILA_METRICS_PASSWORD"

	// Better Stack
	EnvBetterStackToken    = "CAMILA_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "CAMILA_BETTERSTACK_ENDPOINT"

	// Sentry (Better Stack Errors)
	EnvSentryToken       = "CAMILA_SENTRY_TOKEN"
	EnvSentryHost        = "CAMILA_SENTRY_HOST"
	EnvSentryEnvironment = "CAMILA_SENTRY_ENVIRONMENT"
)
