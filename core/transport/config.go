package transport

// Config holds HTTP transport settings shared by the source and catalog clients.
type Config struct {
	// TimeoutSeconds bounds a single request (not a whole run).
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxAttempts is the retry ceiling for catalog calls.
	MaxAttempts int `mapstructure:"max_attempts" default:"15"`
	// SourceMaxAttempts is the retry ceiling for the source feed fetch.
	SourceMaxAttempts int `mapstructure:"source_max_attempts" default:"50"`
	// BackoffMillis is the initial retry delay.
	BackoffMillis int `mapstructure:"backoff_millis" default:"500"`
	// MaxBackoffSeconds caps the retry delay.
	MaxBackoffSeconds int `mapstructure:"max_backoff_seconds" default:"10"`
}

// Policy builds the retry policy described by the configuration.
func (c Config) Policy() Policy {
	p := DefaultPolicy()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	if c.BackoffMillis > 0 {
		maxBackoff := 10
		if c.MaxBackoffSeconds > 0 {
			maxBackoff = c.MaxBackoffSeconds
		}
		p.Backoff = ExponentialBackoff(millis(c.BackoffMillis), seconds(maxBackoff))
	}
	return p
}
