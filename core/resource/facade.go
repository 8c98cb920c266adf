package resource

import (
	"context"

	"audio-loader/core/cooked"
	"audio-loader/core/future"
)

// LoadAuxBus loads an aux bus. A nil override follows the manager's
// language.
// The future resolves with nil on failure, on the execution queue: a
// continuation that blocks or calls a Sync method must use ThenAsync.
func (m *Manager) LoadAuxBus(record *cooked.AuxBus, override *cooked.Language) *future.Future[*AuxBusHandle] {
	return load(m, record, override)
}

// UnloadAuxBus unloads the handle f resolves with.
func (m *Manager) UnloadAuxBus(f *future.Future[*AuxBusHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadAuxBusSync blocks on LoadAuxBus.
func (m *Manager) LoadAuxBusSync(ctx context.Context, record *cooked.AuxBus, override *cooked.Language) (*AuxBusHandle, error) {
	return waitHandle(ctx, m, m.LoadAuxBus(record, override))
}

// UnloadAuxBusSync blocks on UnloadAuxBus.
func (m *Manager) UnloadAuxBusSync(ctx context.Context, h *AuxBusHandle) error {
	return waitUnload(ctx, m, h)
}

// LoadEvent loads an event, its switch container leaves and the group
// values it requires. A nil override follows the manager's language.
// The future resolves with nil on failure, on the execution queue: a
// continuation that blocks or calls a Sync method must use ThenAsync.
func (m *Manager) LoadEvent(record *cooked.Event, override *cooked.Language) *future.Future[*EventHandle] {
	return load(m, record, override)
}

// UnloadEvent unloads the handle f resolves with.
func (m *Manager) UnloadEvent(f *future.Future[*EventHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadEventSync blocks on LoadEvent.
func (m *Manager) LoadEventSync(ctx context.Context, record *cooked.Event, override *cooked.Language) (*EventHandle, error) {
	return waitHandle(ctx, m, m.LoadEvent(record, override))
}

// UnloadEventSync blocks on UnloadEvent.
func (m *Manager) UnloadEventSync(ctx context.Context, h *EventHandle) error {
	return waitUnload(ctx, m, h)
}

// LoadExternalSource loads an external source. A nil override follows the
// manager's language.
// The future resolves with nil on failure, on the execution queue: a
// continuation that blocks or calls a Sync method must use ThenAsync.
func (m *Manager) LoadExternalSource(record *cooked.ExternalSource, override *cooked.Language) *future.Future[*ExternalSourceHandle] {
	return load(m, record, override)
}

// UnloadExternalSource unloads the handle f resolves with.
func (m *Manager) UnloadExternalSource(f *future.Future[*ExternalSourceHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadExternalSourceSync blocks on LoadExternalSource.
func (m *Manager) LoadExternalSourceSync(ctx context.Context, record *cooked.ExternalSource, override *cooked.Language) (*ExternalSourceHandle, error) {
	return waitHandle(ctx, m, m.LoadExternalSource(record, override))
}

// UnloadExternalSourceSync blocks on UnloadExternalSource.
func (m *Manager) UnloadExternalSourceSync(ctx context.Context, h *ExternalSourceHandle) error {
	return waitUnload(ctx, m, h)
}

// LoadGroupValue loads a switch or state value. A nil override follows the
// manager's language.
// The future resolves with nil on failure, on the execution queue: a
// continuation that blocks or calls a Sync method must use ThenAsync.
func (m *Manager) LoadGroupValue(record *cooked.GroupValue, override *cooked.Language) *future.Future[*GroupValueHandle] {
	return load(m, record, override)
}

// UnloadGroupValue unloads the handle f resolves with.
func (m *Manager) UnloadGroupValue(f *future.Future[*GroupValueHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadGroupValueSync blocks on LoadGroupValue.
func (m *Manager) LoadGroupValueSync(ctx context.Context, record *cooked.GroupValue, override *cooked.Language) (*GroupValueHandle, error) {
	return waitHandle(ctx, m, m.LoadGroupValue(record, override))
}

// UnloadGroupValueSync blocks on UnloadGroupValue.
func (m *Manager) UnloadGroupValueSync(ctx context.Context, h *GroupValueHandle) error {
	return waitUnload(ctx, m, h)
}

// LoadInitBank loads the init bank. A nil override follows the manager's
// language.
// The future resolves with nil on failure, on the execution queue: a
// continuation that blocks or calls a Sync method must use ThenAsync.
func (m *Manager) LoadInitBank(record *cooked.InitBank, override *cooked.Language) *future.Future[*InitBankHandle] {
	return load(m, record, override)
}

// UnloadInitBank unloads the handle f resolves with.
func (m *Manager) UnloadInitBank(f *future.Future[*InitBankHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadInitBankSync blocks on LoadInitBank.
func (m *Manager) LoadInitBankSync(ctx context.Context, record *cooked.InitBank, override *cooked.Language) (*InitBankHandle, error) {
	return waitHandle(ctx, m, m.LoadInitBank(record, override))
}

// UnloadInitBankSync blocks on UnloadInitBank.
func (m *Manager) UnloadInitBankSync(ctx context.Context, h *InitBankHandle) error {
	return waitUnload(ctx, m, h)
}

// LoadMedia loads a media file. A nil override follows the manager's
// language.
// The future resolves with nil on failure, on the execution queue: a
// continuation that blocks or calls a Sync method must use ThenAsync.
func (m *Manager) LoadMedia(record *cooked.Media, override *cooked.Language) *future.Future[*MediaHandle] {
	return load(m, record, override)
}

// UnloadMedia unloads the handle f resolves with.
func (m *Manager) UnloadMedia(f *future.Future[*MediaHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadMediaSync blocks on LoadMedia.
func (m *Manager) LoadMediaSync(ctx context.Context, record *cooked.Media, override *cooked.Language) (*MediaHandle, error) {
	return waitHandle(ctx, m, m.LoadMedia(record, override))
}

// UnloadMediaSync blocks on UnloadMedia.
func (m *Manager) UnloadMediaSync(ctx context.Context, h *MediaHandle) error {
	return waitUnload(ctx, m, h)
}

// LoadShareSet loads a share set. A nil override follows the manager's
// language.
// The future resolves with nil on failure, on the execution queue: a
// continuation that blocks or calls a Sync method must use ThenAsync.
func (m *Manager) LoadShareSet(record *cooked.ShareSet, override *cooked.Language) *future.Future[*ShareSetHandle] {
	return load(m, record, override)
}

// UnloadShareSet unloads the handle f resolves with.
func (m *Manager) UnloadShareSet(f *future.Future[*ShareSetHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadShareSetSync blocks on LoadShareSet.
func (m *Manager) LoadShareSetSync(ctx context.Context, record *cooked.ShareSet, override *cooked.Language) (*ShareSetHandle, error) {
	return waitHandle(ctx, m, m.LoadShareSet(record, override))
}

// UnloadShareSetSync blocks on UnloadShareSet.
func (m *Manager) UnloadShareSetSync(ctx context.Context, h *ShareSetHandle) error {
	return waitUnload(ctx, m, h)
}

// LoadSoundBank loads a sound bank. A nil override follows the manager's
// language.
// The future resolves with nil on failure, on the execution queue: a
// continuation that blocks or calls a Sync method must use ThenAsync.
func (m *Manager) LoadSoundBank(record *cooked.LocalizedSoundBank, override *cooked.Language) *future.Future[*SoundBankHandle] {
	return load(m, record, override)
}

// UnloadSoundBank unloads the handle f resolves with.
func (m *Manager) UnloadSoundBank(f *future.Future[*SoundBankHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadSoundBankSync blocks on LoadSoundBank.
func (m *Manager) LoadSoundBankSync(ctx context.Context, record *cooked.LocalizedSoundBank, override *cooked.Language) (*SoundBankHandle, error) {
	return waitHandle(ctx, m, m.LoadSoundBank(record, override))
}

// UnloadSoundBankSync blocks on UnloadSoundBank.
func (m *Manager) UnloadSoundBankSync(ctx context.Context, h *SoundBankHandle) error {
	return waitUnload(ctx, m, h)
}

// LoadRecord loads a record whose kind is only known at run time. Its
// future resolves like LoadEvent's.
func (m *Manager) LoadRecord(record cooked.Record, override *cooked.Language) *future.Future[*RecordHandle] {
	return load(m, record, override)
}

// UnloadRecord unloads a handle returned by LoadRecord.
func (m *Manager) UnloadRecord(f *future.Future[*RecordHandle]) *future.Future[struct{}] {
	return unload(m, f)
}

// LoadRecordSync blocks on LoadRecord.
func (m *Manager) LoadRecordSync(ctx context.Context, record cooked.Record, override *cooked.Language) (*RecordHandle, error) {
	return waitHandle(ctx, m, m.LoadRecord(record, override))
}

// UnloadRecordSync blocks on UnloadRecord.
func (m *Manager) UnloadRecordSync(ctx context.Context, h *RecordHandle) error {
	return waitUnload(ctx, m, h)
}
