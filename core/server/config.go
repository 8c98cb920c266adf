package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Platform selects the cooked data folder (Windows, Mac, Linux, ...).
	Platform string `mapstructure:"platform" default:"Windows"`
	// Language is the language loaded at startup, by name.
	Language string `mapstructure:"language" default:"English(US)"`
}

const (
	PlatformWindows = "Windows"
	PlatformMac     = "Mac"
	PlatformLinux   = "Linux"
	PlatformAndroid = "Android"
	PlatformIOS     = "iOS"
)

// Platforms lists the platforms cooked data is produced for.
var Platforms = []string{PlatformWindows, PlatformMac, PlatformLinux, PlatformAndroid, PlatformIOS}

// IsValidPlatform checks if the configured platform is known.
func (c Config) IsValidPlatform() bool {
	for _, p := range Platforms {
		if strings.EqualFold(c.Platform, p) {
			return true
		}
	}
	return false
}

// NormalizedPlatform returns the platform with its canonical casing, which is
// also the name of its folder in storage.
func (c Config) NormalizedPlatform() string {
	for _, p := range Platforms {
		if strings.EqualFold(c.Platform, p) {
			return p
		}
	}
	return c.Platform
}
