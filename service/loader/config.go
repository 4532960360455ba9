package loader

// Config represents loader configuration.
type Config struct {
	// BaseURL locates the data directory; any afs scheme works
	// (plain path, file://, embed://, mem://).
	BaseURL string `json:"baseURL" yaml:"baseURL"`

	// FlightsFile and RunwaysFile name the CSV files under BaseURL.
	FlightsFile string `json:"flightsFile" yaml:"flightsFile"`
	RunwaysFile string `json:"runwaysFile" yaml:"runwaysFile"`
}

// DefaultConfig returns the default loader configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "data",
		FlightsFile: "flights.csv",
		RunwaysFile: "runways.csv",
	}
}
