package journal

// Config represents journal configuration.
type Config struct {
	// Path is the journal file location; empty disables the file sink.
	Path string `json:"path" yaml:"path"`

	// Level filters entries: debug, info, warn or error.
	Level string `json:"level" yaml:"level"`

	// Console mirrors every entry to stderr.
	Console bool `json:"console" yaml:"console"`

	// Rotation limits, lumberjack semantics.
	MaxSizeMB  int `json:"maxSizeMB" yaml:"maxSizeMB"`
	MaxBackups int `json:"maxBackups" yaml:"maxBackups"`
	MaxAgeDays int `json:"maxAgeDays" yaml:"maxAgeDays"`
}

// DefaultConfig returns the default journal configuration.
func DefaultConfig() Config {
	return Config{
		Path:       "tower.log",
		Level:      "info",
		MaxSizeMB:  32,
		MaxBackups: 1,
	}
}
