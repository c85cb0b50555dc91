package events

// Config holds the sync event stream settings. No brokers disables publishing.
type Config struct {
	// Brokers is a comma-separated list of Kafka broker addresses.
	Brokers string `mapstructure:"brokers" default:""`
	// Topic receives one message per run marker and per applied action.
	Topic string `mapstructure:"topic" default:"autosync-events"`
	// TimeoutSeconds bounds each write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
