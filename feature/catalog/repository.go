package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"audio-loader/core/cooked"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the catalog has no record for a lookup.
var ErrNotFound = errors.New("record not found in catalog")

// DefaultCacheTTL is how long a looked up record stays cached.
const DefaultCacheTTL = 5 * time.Minute

// Summary is the listing form of a record.
type Summary struct {
	Kind      string   `json:"kind"`
	ID        uint32   `json:"id"`
	Name      string   `json:"name"`
	Languages []string `json:"languages,omitempty"`
}

// Repository reads cooked records from the catalog database. Lookups are
// cached and concurrent lookups of the same record share one query.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
	cache  *cache.Cache
	group  singleflight.Group
}

// NewRepository creates a repository over db. A non-positive ttl uses
// DefaultCacheTTL.
func NewRepository(db *gorm.DB, logger *zap.Logger, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Repository{
		db:     db,
		logger: logger,
		cache:  cache.New(ttl, ttl*2),
	}
}

// Migrate creates or updates the catalog tables.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return nil
}

// Invalidate drops every cached record.
func (r *Repository) Invalidate() {
	r.cache.Flush()
}

// cached runs fetch once per key and caches its result.
func cached[T any](r *Repository, key string, fetch func() (T, error)) (T, error) {
	if v, ok := r.cache.Get(key); ok {
		return v.(T), nil
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		if v, ok := r.cache.Get(key); ok {
			return v, nil
		}
		res, err := fetch()
		if err != nil {
			return nil, err
		}
		r.cache.Set(key, res, cache.DefaultExpiration)
		return res, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		r.logger.Debug("Catalog lookup shared", zap.String("key", key))
	}
	return v.(T), nil
}

func notFound(err error, kind cooked.Kind, id cooked.ShortID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("failed to read %s %d: %w", kind, id, err)
}

func (r *Repository) object(ctx context.Context, kind cooked.Kind, id cooked.ShortID) (cooked.Record, error) {
	return cached(r, fmt.Sprintf("%s:%d", kind, id), func() (cooked.Record, error) {
		var row ObjectRow
		err := r.db.WithContext(ctx).
			Where("kind = ? AND short_id = ?", kind.String(), uint32(id)).
			First(&row).Error
		if err != nil {
			return nil, notFound(err, kind, id)
		}
		rec := row.toCooked()
		if rec == nil {
			return nil, fmt.Errorf("unsupported kind %s", kind)
		}
		return rec, nil
	})
}

// Event returns the event with id.
func (r *Repository) Event(ctx context.Context, id cooked.ShortID) (*cooked.Event, error) {
	rec, err := r.object(ctx, cooked.KindEvent, id)
	if err != nil {
		return nil, err
	}
	return rec.(*cooked.Event), nil
}

// AuxBus returns the aux bus with id.
func (r *Repository) AuxBus(ctx context.Context, id cooked.ShortID) (*cooked.AuxBus, error) {
	rec, err := r.object(ctx, cooked.KindAuxBus, id)
	if err != nil {
		return nil, err
	}
	return rec.(*cooked.AuxBus), nil
}

// ShareSet returns the share set with id.
func (r *Repository) ShareSet(ctx context.Context, id cooked.ShortID) (*cooked.ShareSet, error) {
	rec, err := r.object(ctx, cooked.KindShareSet, id)
	if err != nil {
		return nil, err
	}
	return rec.(*cooked.ShareSet), nil
}

// SoundBank returns the bank with id and every language variant of it.
func (r *Repository) SoundBank(ctx context.Context, id cooked.ShortID) (*cooked.LocalizedSoundBank, error) {
	return cached(r, fmt.Sprintf("%s:%d", cooked.KindSoundBank, id), func() (*cooked.LocalizedSoundBank, error) {
		var rows []SoundBankRow
		err := r.db.WithContext(ctx).
			Where("short_id = ?", uint32(id)).
			Order("language_id").
			Find(&rows).Error
		if err != nil {
			return nil, notFound(err, cooked.KindSoundBank, id)
		}
		if len(rows) == 0 {
			return nil, notFound(gorm.ErrRecordNotFound, cooked.KindSoundBank, id)
		}

		bank := &cooked.LocalizedSoundBank{ID: id, DebugName: rows[0].Name}
		for _, row := range rows {
			bank.Variants = append(bank.Variants, row.toCooked())
		}
		return bank, nil
	})
}

// Media returns the media with id.
func (r *Repository) Media(ctx context.Context, id cooked.ShortID) (*cooked.Media, error) {
	return cached(r, fmt.Sprintf("%s:%d", cooked.KindMedia, id), func() (*cooked.Media, error) {
		var row MediaRow
		if err := r.db.WithContext(ctx).Where("short_id = ?", uint32(id)).First(&row).Error; err != nil {
			return nil, notFound(err, cooked.KindMedia, id)
		}
		return row.toCooked(), nil
	})
}

// ExternalSource returns the external source with cookie.
func (r *Repository) ExternalSource(ctx context.Context, cookie cooked.ShortID) (*cooked.ExternalSource, error) {
	return cached(r, fmt.Sprintf("%s:%d", cooked.KindExternalSource, cookie), func() (*cooked.ExternalSource, error) {
		var row ExternalSourceRow
		if err := r.db.WithContext(ctx).Where("cookie = ?", uint32(cookie)).First(&row).Error; err != nil {
			return nil, notFound(err, cooked.KindExternalSource, cookie)
		}
		return &cooked.ExternalSource{Cookie: cooked.ShortID(row.Cookie), DebugName: row.Name, Path: row.Path}, nil
	})
}

// GroupValue returns the switch or state value with id.
func (r *Repository) GroupValue(ctx context.Context, id cooked.ShortID) (*cooked.GroupValue, error) {
	return cached(r, fmt.Sprintf("%s:%d", cooked.KindGroupValue, id), func() (*cooked.GroupValue, error) {
		var row GroupValueRow
		if err := r.db.WithContext(ctx).Where("short_id = ?", uint32(id)).First(&row).Error; err != nil {
			return nil, notFound(err, cooked.KindGroupValue, id)
		}
		return row.toCooked(), nil
	})
}

// InitBank returns the project's init bank.
func (r *Repository) InitBank(ctx context.Context) (*cooked.InitBank, error) {
	return cached(r, cooked.KindInitBank.String(), func() (*cooked.InitBank, error) {
		var row InitBankRow
		if err := r.db.WithContext(ctx).First(&row).Error; err != nil {
			return nil, notFound(err, cooked.KindInitBank, 0)
		}
		return row.toCooked(), nil
	})
}

// Record looks up any kind by id. The init bank ignores id.
func (r *Repository) Record(ctx context.Context, kind cooked.Kind, id cooked.ShortID) (cooked.Record, error) {
	switch kind {
	case cooked.KindEvent, cooked.KindAuxBus, cooked.KindShareSet:
		return r.object(ctx, kind, id)
	case cooked.KindSoundBank:
		return r.SoundBank(ctx, id)
	case cooked.KindMedia:
		return r.Media(ctx, id)
	case cooked.KindExternalSource:
		return r.ExternalSource(ctx, id)
	case cooked.KindGroupValue:
		return r.GroupValue(ctx, id)
	case cooked.KindInitBank:
		return r.InitBank(ctx)
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

// ByName looks up a record by its debug name.
func (r *Repository) ByName(ctx context.Context, kind cooked.Kind, name string) (cooked.Record, error) {
	db := r.db.WithContext(ctx)
	var id uint32
	var err error

	switch kind {
	case cooked.KindEvent, cooked.KindAuxBus, cooked.KindShareSet:
		var row ObjectRow
		err = db.Where("kind = ? AND name = ?", kind.String(), name).First(&row).Error
		id = row.ShortID
	case cooked.KindSoundBank:
		var row SoundBankRow
		err = db.Where("name = ?", name).First(&row).Error
		id = row.ShortID
	case cooked.KindMedia:
		var row MediaRow
		err = db.Where("name = ?", name).First(&row).Error
		id = row.ShortID
	case cooked.KindExternalSource:
		var row ExternalSourceRow
		err = db.Where("name = ?", name).First(&row).Error
		id = row.Cookie
	case cooked.KindGroupValue:
		var row GroupValueRow
		err = db.Where("name = ?", name).First(&row).Error
		id = row.ShortID
	case cooked.KindInitBank:
		return r.InitBank(ctx)
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s %q: %w", kind, name, err)
	}
	return r.Record(ctx, kind, cooked.ShortID(id))
}

// ListSummaries lists every record of kind ordered by id.
func (r *Repository) ListSummaries(ctx context.Context, kind cooked.Kind) ([]Summary, error) {
	db := r.db.WithContext(ctx)
	var out []Summary

	switch kind {
	case cooked.KindEvent, cooked.KindAuxBus, cooked.KindShareSet:
		var rows []ObjectRow
		if err := db.Where("kind = ?", kind.String()).Order("short_id").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		for _, row := range rows {
			s := Summary{Kind: kind.String(), ID: row.ShortID, Name: row.Name}
			for _, l := range row.Languages {
				s.Languages = append(s.Languages, l.Language.String())
			}
			out = append(out, s)
		}
	case cooked.KindSoundBank:
		var rows []SoundBankRow
		if err := db.Order("short_id, language_id").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		for _, row := range rows {
			language := cooked.Language{ID: cooked.ShortID(row.LanguageID), Name: row.LanguageName}.String()
			if n := len(out); n > 0 && out[n-1].ID == row.ShortID {
				out[n-1].Languages = append(out[n-1].Languages, language)
				continue
			}
			out = append(out, Summary{Kind: kind.String(), ID: row.ShortID, Name: row.Name, Languages: []string{language}})
		}
	case cooked.KindMedia:
		var rows []MediaRow
		if err := db.Order("short_id").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		for _, row := range rows {
			out = append(out, Summary{Kind: kind.String(), ID: row.ShortID, Name: row.Name})
		}
	case cooked.KindExternalSource:
		var rows []ExternalSourceRow
		if err := db.Order("cookie").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		for _, row := range rows {
			out = append(out, Summary{Kind: kind.String(), ID: row.Cookie, Name: row.Name})
		}
	case cooked.KindGroupValue:
		var rows []GroupValueRow
		if err := db.Order("short_id").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		for _, row := range rows {
			out = append(out, Summary{Kind: kind.String(), ID: row.ShortID, Name: row.Name})
		}
	case cooked.KindInitBank:
		var rows []InitBankRow
		if err := db.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", kind, err)
		}
		for _, row := range rows {
			s := Summary{Kind: kind.String(), ID: row.ShortID, Name: row.Name}
			for _, l := range row.Languages {
				s.Languages = append(s.Languages, l.String())
			}
			out = append(out, s)
		}
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
	return out, nil
}

// Files lists the storage path of every physical file the catalog knows,
// relative to the platform folder, mapped to the kind owning it.
func (r *Repository) Files(ctx context.Context) (map[string]cooked.Kind, error) {
	db := r.db.WithContext(ctx)
	files := make(map[string]cooked.Kind)

	var banks []SoundBankRow
	if err := db.Find(&banks).Error; err != nil {
		return nil, fmt.Errorf("failed to list soundbanks: %w", err)
	}
	for _, b := range banks {
		if b.Path != "" {
			files[b.Path] = cooked.KindSoundBank
		}
	}

	var media []MediaRow
	if err := db.Where("location = ?", string(cooked.MediaStreamed)).Find(&media).Error; err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	for _, m := range media {
		if m.Path != "" {
			files[m.Path] = cooked.KindMedia
		}
	}

	var sources []ExternalSourceRow
	if err := db.Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("failed to list external sources: %w", err)
	}
	for _, s := range sources {
		if s.Path != "" {
			files[s.Path] = cooked.KindExternalSource
		}
	}

	var inits []InitBankRow
	if err := db.Find(&inits).Error; err != nil {
		return nil, fmt.Errorf("failed to list init banks: %w", err)
	}
	for _, i := range inits {
		if i.Path != "" {
			files[i.Path] = cooked.KindInitBank
		}
	}
	return files, nil
}

// Replace swaps the whole catalog content for m in one transaction.
func (r *Repository) Replace(ctx context.Context, m *Manifest) (ImportSummary, error) {
	var summary ImportSummary
	if err := m.Validate(); err != nil {
		return summary, fmt.Errorf("invalid manifest: %w", err)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range Models() {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", model, err)
			}
		}

		var banks []SoundBankRow
		for _, b := range m.SoundBanks {
			banks = append(banks, soundBankRow(b))
		}
		var media []MediaRow
		for _, md := range m.Media {
			media = append(media, mediaRow(md))
		}
		var sources []ExternalSourceRow
		for _, s := range m.ExternalSources {
			sources = append(sources, ExternalSourceRow{Cookie: uint32(s.Cookie), Name: s.DebugName, Path: s.Path})
		}
		var objects []ObjectRow
		for _, e := range m.Events {
			objects = append(objects, ObjectRow{Kind: cooked.KindEvent.String(), ShortID: uint32(e.ID), Name: e.DebugName, Languages: e.Languages})
		}
		for _, a := range m.AuxBuses {
			objects = append(objects, ObjectRow{Kind: cooked.KindAuxBus.String(), ShortID: uint32(a.ID), Name: a.DebugName, Languages: a.Languages})
		}
		for _, s := range m.ShareSets {
			objects = append(objects, ObjectRow{Kind: cooked.KindShareSet.String(), ShortID: uint32(s.ID), Name: s.DebugName, Languages: s.Languages})
		}
		var values []GroupValueRow
		for _, g := range m.GroupValues {
			values = append(values, GroupValueRow{ShortID: uint32(g.ID), GroupID: uint32(g.GroupID), Type: string(g.Type), Name: g.DebugName})
		}

		if err := createAll(tx, banks); err != nil {
			return err
		}
		if err := createAll(tx, media); err != nil {
			return err
		}
		if err := createAll(tx, sources); err != nil {
			return err
		}
		if err := createAll(tx, objects); err != nil {
			return err
		}
		if err := createAll(tx, values); err != nil {
			return err
		}
		if m.InitBank != nil {
			row := InitBankRow{
				ShortID:   uint32(m.InitBank.ID),
				Name:      m.InitBank.DebugName,
				Path:      m.InitBank.Path,
				Media:     m.InitBank.Media,
				Languages: m.InitBank.Languages,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to store init bank: %w", err)
			}
		}

		summary = ImportSummary{
			SoundBanks:      len(banks),
			Media:           len(media),
			ExternalSources: len(sources),
			Objects:         len(objects),
			GroupValues:     len(values),
			InitBank:        m.InitBank != nil,
		}
		return nil
	})
	if err != nil {
		return ImportSummary{}, err
	}

	r.Invalidate()
	return summary, nil
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, 200).Error; err != nil {
		var zero T
		return fmt.Errorf("failed to store %T: %w", zero, err)
	}
	return nil
}

// Languages returns the languages the init bank declares, sorted by name.
func (r *Repository) Languages(ctx context.Context) ([]cooked.Language, error) {
	bank, err := r.InitBank(ctx)
	if err != nil {
		return nil, err
	}
	out := append([]cooked.Language(nil), bank.Languages...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
