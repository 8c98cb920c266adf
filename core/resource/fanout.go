package resource

import (
	"audio-loader/core/cooked"
	"audio-loader/core/future"

	"go.uber.org/zap"
)

// planned is one item of a requirement list, resolved to what has to be
// acquired for it.
type planned struct {
	dep dependency
	// invalid items cannot be satisfied and fail the load.
	invalid bool
}

// plan expands req into acquire items. Media embedded in one of req's own
// banks is live once that bank is, so it pins nothing. Media embedded in any
// other bank pins that bank instead of a media file.
func plan(req *cooked.Requirements) []planned {
	items := make([]planned, 0, len(req.SoundBanks)+len(req.Media)+len(req.ExternalSources))

	own := make(map[cooked.ShortID]struct{}, len(req.SoundBanks))
	for i := range req.SoundBanks {
		bank := req.SoundBanks[i]
		own[bank.ID] = struct{}{}
		items = append(items, planned{dep: dependency{category: cooked.KindSoundBank, bank: &bank}})
	}

	for i := range req.Media {
		media := req.Media[i]
		dep := dependency{category: cooked.KindMedia, media: &media}
		switch media.Location {
		case cooked.MediaStreamed:
		case cooked.MediaInSoundBank, cooked.MediaInOtherSoundBank:
			if _, ok := own[media.SoundBankID]; ok && media.Location == cooked.MediaInSoundBank {
				dep.noop = true
				break
			}
			if media.ContainingBank == nil {
				items = append(items, planned{dep: dep, invalid: true})
				continue
			}
			bank := *media.ContainingBank
			dep.bank = &bank
		default:
			items = append(items, planned{dep: dep, invalid: true})
			continue
		}
		items = append(items, planned{dep: dep})
	}

	for i := range req.ExternalSources {
		source := req.ExternalSources[i]
		items = append(items, planned{dep: dependency{category: cooked.KindExternalSource, source: &source}})
	}
	return items
}

// loadRequirements acquires everything req declares and records each success
// in data. If any item fails, the items that succeeded are released again
// and the future resolves false with data empty. Must run on the queue.
func (m *Manager) loadRequirements(owner string, req *cooked.Requirements, data *loadedData, basePath string) *future.Future[bool] {
	items := plan(req)
	futures := make([]*future.Future[bool], 0, len(items))

	for _, item := range items {
		dep := item.dep
		switch {
		case item.invalid:
			m.logger.Error("Media has no loadable location",
				zap.String("owner", owner),
				zap.String("media", dep.media.DebugName),
				zap.String("location", string(dep.media.Location)))
			futures = append(futures, future.Resolved(false))
		case dep.noop:
			data.deps = append(data.deps, dep)
			futures = append(futures, future.Resolved(true))
		default:
			acquired := future.Map(m.physical.acquire(dep, basePath), func(ok bool) bool {
				if ok {
					data.deps = append(data.deps, dep)
				}
				return ok
			})
			futures = append(futures, acquired)
		}
	}

	result := future.NewPromise[bool]()
	future.WaitForAll(futures, func() {
		short := data.count(cooked.KindSoundBank) < len(req.SoundBanks) ||
			data.count(cooked.KindMedia) < len(req.Media) ||
			data.count(cooked.KindExternalSource) < len(req.ExternalSources)
		if !short {
			result.Resolve(true)
			return
		}

		m.logger.Warn("Could not load every dependency, rolling back",
			zap.String("owner", owner),
			zap.Int("soundbanks", data.count(cooked.KindSoundBank)),
			zap.Int("soundbanks_required", len(req.SoundBanks)),
			zap.Int("media", data.count(cooked.KindMedia)),
			zap.Int("media_required", len(req.Media)),
			zap.Int("external_sources", data.count(cooked.KindExternalSource)),
			zap.Int("external_sources_required", len(req.ExternalSources)))
		m.unloadDependencies(data).Then(func(struct{}) {
			result.Resolve(false)
		})
	})
	return result.Future()
}

// unloadDependencies releases everything recorded in data and clears it.
// It never fails. Must run on the queue.
func (m *Manager) unloadDependencies(data *loadedData) *future.Future[struct{}] {
	deps := data.deps
	data.deps = nil

	futures := make([]*future.Future[struct{}], 0, len(deps))
	for _, dep := range deps {
		if dep.noop {
			continue
		}
		futures = append(futures, m.physical.release(dep))
	}
	return future.Void(futures)
}
