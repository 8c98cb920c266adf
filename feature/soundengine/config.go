package soundengine

import "time"

// Config holds configuration for the sound engine I/O.
type Config struct {
	// MaxConcurrentIO caps the number of files read at the same time.
	MaxConcurrentIO int `mapstructure:"max_concurrent_io" default:"8"`
	// FrameIntervalMs is the duration of one engine frame in milliseconds.
	FrameIntervalMs int `mapstructure:"frame_interval_ms" default:"16"`
	// TimeoutSeconds bounds a single file read.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}

func (c Config) frameInterval() time.Duration {
	if c.FrameIntervalMs <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

func (c Config) maxConcurrentIO() int64 {
	if c.MaxConcurrentIO <= 0 {
		return 8
	}
	return int64(c.MaxConcurrentIO)
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
