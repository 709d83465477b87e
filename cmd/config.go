package cmd

type Config struct {
	HTTPPort string

	AggregatorBaseURL string
	AggregatorAPIKey  string

	BackendBaseURL string
	BackendToken   string

	SessionIdleTTLMinutes string
}
