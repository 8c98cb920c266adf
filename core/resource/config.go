package resource

// Config holds configuration for the resource manager.
type Config struct {
	// BasePath is the storage prefix the platform folders live under.
	BasePath string `mapstructure:"base_path" default:"cooked"`
	// LanguagePolicy is applied when the language changes (manual, immediate, safe).
	LanguagePolicy string `mapstructure:"language_policy" default:"safe"`
}

// Policy parses LanguagePolicy.
func (c Config) Policy() (LanguagePolicy, error) {
	return ParseLanguagePolicy(c.LanguagePolicy)
}
