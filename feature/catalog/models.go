package catalog

import (
	"audio-loader/core/cooked"
)

// SoundBankRow is one language variant of a bank.
type SoundBankRow struct {
	ID           uint   `gorm:"column:id;primaryKey"`
	ShortID      uint32 `gorm:"column:short_id;uniqueIndex:idx_bank_language"`
	Name         string `gorm:"column:name;index"`
	LanguageID   uint32 `gorm:"column:language_id;uniqueIndex:idx_bank_language"`
	LanguageName string `gorm:"column:language_name"`
	Path         string `gorm:"column:path"`
}

// TableName overrides the table name.
func (SoundBankRow) TableName() string { return "catalog_soundbanks" }

func (r SoundBankRow) toCooked() cooked.SoundBank {
	return cooked.SoundBank{
		ID:        cooked.ShortID(r.ShortID),
		DebugName: r.Name,
		Language:  cooked.Language{ID: cooked.ShortID(r.LanguageID), Name: r.LanguageName},
		Path:      r.Path,
	}
}

func soundBankRow(b cooked.SoundBank) SoundBankRow {
	return SoundBankRow{
		ShortID:      uint32(b.ID),
		Name:         b.DebugName,
		LanguageID:   uint32(b.Language.ID),
		LanguageName: b.Language.Name,
		Path:         b.Path,
	}
}

// MediaRow is one media file or embedded clip.
type MediaRow struct {
	ShortID      uint32            `gorm:"column:short_id;primaryKey;autoIncrement:false"`
	Name         string            `gorm:"column:name;index"`
	LanguageID   uint32            `gorm:"column:language_id"`
	LanguageName string            `gorm:"column:language_name"`
	Location     string            `gorm:"column:location;type:varchar(32)"`
	Path         string            `gorm:"column:path"`
	SoundBankID  uint32            `gorm:"column:soundbank_id"`
	Containing   *cooked.SoundBank `gorm:"column:containing_bank;serializer:json"`
}

// TableName overrides the table name.
func (MediaRow) TableName() string { return "catalog_media" }

func (r MediaRow) toCooked() *cooked.Media {
	return &cooked.Media{
		ID:             cooked.ShortID(r.ShortID),
		DebugName:      r.Name,
		Language:       cooked.Language{ID: cooked.ShortID(r.LanguageID), Name: r.LanguageName},
		Location:       cooked.MediaLocation(r.Location),
		Path:           r.Path,
		SoundBankID:    cooked.ShortID(r.SoundBankID),
		ContainingBank: r.Containing,
	}
}

func mediaRow(m cooked.Media) MediaRow {
	return MediaRow{
		ShortID:      uint32(m.ID),
		Name:         m.DebugName,
		LanguageID:   uint32(m.Language.ID),
		LanguageName: m.Language.Name,
		Location:     string(m.Location),
		Path:         m.Path,
		SoundBankID:  uint32(m.SoundBankID),
		Containing:   m.ContainingBank,
	}
}

// ExternalSourceRow is a runtime provided source.
type ExternalSourceRow struct {
	Cookie uint32 `gorm:"column:cookie;primaryKey;autoIncrement:false"`
	Name   string `gorm:"column:name;index"`
	Path   string `gorm:"column:path"`
}

// TableName overrides the table name.
func (ExternalSourceRow) TableName() string { return "catalog_external_sources" }

// ObjectRow stores events, aux buses and share sets. Their per-language
// requirements are kept as a JSON document.
type ObjectRow struct {
	Kind      string                         `gorm:"column:kind;primaryKey;type:varchar(32)"`
	ShortID   uint32                         `gorm:"column:short_id;primaryKey;autoIncrement:false"`
	Name      string                         `gorm:"column:name;index"`
	Languages []cooked.LocalizedRequirements `gorm:"column:languages;serializer:json"`
}

// TableName overrides the table name.
func (ObjectRow) TableName() string { return "catalog_objects" }

func (r ObjectRow) toCooked() cooked.Record {
	id := cooked.ShortID(r.ShortID)
	switch r.Kind {
	case cooked.KindEvent.String():
		return &cooked.Event{ID: id, DebugName: r.Name, Languages: r.Languages}
	case cooked.KindAuxBus.String():
		return &cooked.AuxBus{ID: id, DebugName: r.Name, Languages: r.Languages}
	case cooked.KindShareSet.String():
		return &cooked.ShareSet{ID: id, DebugName: r.Name, Languages: r.Languages}
	default:
		return nil
	}
}

// GroupValueRow is one switch or state value. Value ids are unique across
// groups; Manifest.Validate rejects a manifest that reuses one.
type GroupValueRow struct {
	ShortID uint32 `gorm:"column:short_id;primaryKey;autoIncrement:false"`
	GroupID uint32 `gorm:"column:group_id;index"`
	Type    string `gorm:"column:type;type:varchar(16)"`
	Name    string `gorm:"column:name;index"`
}

// TableName overrides the table name.
func (GroupValueRow) TableName() string { return "catalog_group_values" }

func (r GroupValueRow) toCooked() *cooked.GroupValue {
	return &cooked.GroupValue{
		GroupValueID: cooked.GroupValueID{
			Type:    cooked.GroupValueType(r.Type),
			GroupID: cooked.ShortID(r.GroupID),
			ID:      cooked.ShortID(r.ShortID),
		},
		DebugName: r.Name,
	}
}

// InitBankRow is the project's init bank.
type InitBankRow struct {
	ShortID   uint32            `gorm:"column:short_id;primaryKey;autoIncrement:false"`
	Name      string            `gorm:"column:name"`
	Path      string            `gorm:"column:path"`
	Media     []cooked.Media    `gorm:"column:media;serializer:json"`
	Languages []cooked.Language `gorm:"column:languages;serializer:json"`
}

// TableName overrides the table name.
func (InitBankRow) TableName() string { return "catalog_init_banks" }

func (r InitBankRow) toCooked() *cooked.InitBank {
	return &cooked.InitBank{
		SoundBank: cooked.SoundBank{ID: cooked.ShortID(r.ShortID), DebugName: r.Name, Language: cooked.SFX, Path: r.Path},
		Media:     r.Media,
		Languages: r.Languages,
	}
}

// Models lists every catalog table model, in migration order.
func Models() []any {
	return []any{
		&SoundBankRow{},
		&MediaRow{},
		&ExternalSourceRow{},
		&ObjectRow{},
		&GroupValueRow{},
		&InitBankRow{},
	}
}
