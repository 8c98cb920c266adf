package resource

import (
	"audio-loader/core/cooked"
	"audio-loader/core/future"
)

// SoundBankIO loads and unloads bank files. Unload must be idempotent and
// must always complete.
type SoundBankIO interface {
	LoadSoundBank(bank *cooked.SoundBank, basePath string) *future.Future[bool]
	UnloadSoundBank(bank *cooked.SoundBank, basePath string) *future.Future[struct{}]
}

// MediaIO loads and unloads standalone media files.
type MediaIO interface {
	LoadMedia(media *cooked.Media, basePath string) *future.Future[bool]
	UnloadMedia(media *cooked.Media, basePath string) *future.Future[struct{}]
}

// ExternalSourceIO loads and unloads external source files.
type ExternalSourceIO interface {
	LoadExternalSource(source *cooked.ExternalSource, basePath string) *future.Future[bool]
	UnloadExternalSource(source *cooked.ExternalSource, basePath string) *future.Future[struct{}]
}

// Engine is the part of the sound engine the language swap needs.
type Engine interface {
	// StopAll stops every playing sound.
	StopAll()
	// NextFrame resolves when the engine finished its next processing frame.
	NextFrame() *future.Future[struct{}]
}

// Backends groups the physical I/O implementations. A missing backend is a
// configuration error: loads of that kind fail and are logged.
type Backends struct {
	SoundBanks      SoundBankIO
	Media           MediaIO
	ExternalSources ExternalSourceIO
	Engine          Engine
}
