package report

// Config represents report configuration.
type Config struct {
	// URL is the report file location; any afs scheme works.
	URL string `json:"url" yaml:"url"`
}

// DefaultConfig returns the default report configuration.
func DefaultConfig() Config {
	return Config{URL: "report.log"}
}
