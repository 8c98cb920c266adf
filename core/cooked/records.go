package cooked

import (
	"fmt"
	"strings"
)

// Kind is the kind of a loadable object.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuxBus
	KindEvent
	KindExternalSource
	KindGroupValue
	KindInitBank
	KindMedia
	KindShareSet
	KindSoundBank
)

// Kinds lists every loadable kind.
var Kinds = []Kind{
	KindAuxBus, KindEvent, KindExternalSource, KindGroupValue,
	KindInitBank, KindMedia, KindShareSet, KindSoundBank,
}

func (k Kind) String() string {
	switch k {
	case KindAuxBus:
		return "auxbus"
	case KindEvent:
		return "event"
	case KindExternalSource:
		return "externalsource"
	case KindGroupValue:
		return "groupvalue"
	case KindInitBank:
		return "initbank"
	case KindMedia:
		return "media"
	case KindShareSet:
		return "shareset"
	case KindSoundBank:
		return "soundbank"
	default:
		return "unknown"
	}
}

// ParseKind parses the lowercase name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown resource kind %q", s)
}

// Record is the read-only cooked description of one loadable object.
type Record interface {
	Kind() Kind
	ShortID() ShortID
	Name() string
	// Localized reports whether the record has language-specific payloads.
	Localized() bool
	// Resolve picks the payload for language and returns it together with
	// the language it is actually bound to.
	Resolve(language Language) (*Requirements, Language, bool)
}

// resolveLocalized selects an exact match, then the SFX payload. A record
// with a single SFX payload always resolves to it.
func resolveLocalized(entries []LocalizedRequirements, language Language) (*Requirements, Language, bool) {
	var sfx *LocalizedRequirements
	for i := range entries {
		e := &entries[i]
		if e.Language.Equal(language) {
			return &e.Requirements, e.Language, true
		}
		if e.Language.IsSFX() && sfx == nil {
			sfx = e
		}
	}
	if sfx != nil {
		return &sfx.Requirements, SFX, true
	}
	return nil, Language{}, false
}

func anyLocalized(entries []LocalizedRequirements) bool {
	for _, e := range entries {
		if !e.Language.IsSFX() {
			return true
		}
	}
	return false
}

// Event is a logical trigger with per-language requirements.
type Event struct {
	ID        ShortID                 `yaml:"id" json:"id"`
	DebugName string                  `yaml:"name" json:"name"`
	Languages []LocalizedRequirements `yaml:"languages" json:"languages"`
}

func (e *Event) Kind() Kind       { return KindEvent }
func (e *Event) ShortID() ShortID { return e.ID }
func (e *Event) Name() string     { return e.DebugName }
func (e *Event) Localized() bool  { return anyLocalized(e.Languages) }
func (e *Event) Resolve(language Language) (*Requirements, Language, bool) {
	return resolveLocalized(e.Languages, language)
}

// AuxBus is an auxiliary send bus.
type AuxBus struct {
	ID        ShortID                 `yaml:"id" json:"id"`
	DebugName string                  `yaml:"name" json:"name"`
	Languages []LocalizedRequirements `yaml:"languages" json:"languages"`
}

func (a *AuxBus) Kind() Kind       { return KindAuxBus }
func (a *AuxBus) ShortID() ShortID { return a.ID }
func (a *AuxBus) Name() string     { return a.DebugName }
func (a *AuxBus) Localized() bool  { return anyLocalized(a.Languages) }
func (a *AuxBus) Resolve(language Language) (*Requirements, Language, bool) {
	return resolveLocalized(a.Languages, language)
}

// ShareSet holds shared effect settings.
type ShareSet struct {
	ID        ShortID                 `yaml:"id" json:"id"`
	DebugName string                  `yaml:"name" json:"name"`
	Languages []LocalizedRequirements `yaml:"languages" json:"languages"`
}

func (s *ShareSet) Kind() Kind       { return KindShareSet }
func (s *ShareSet) ShortID() ShortID { return s.ID }
func (s *ShareSet) Name() string     { return s.DebugName }
func (s *ShareSet) Localized() bool  { return anyLocalized(s.Languages) }
func (s *ShareSet) Resolve(language Language) (*Requirements, Language, bool) {
	return resolveLocalized(s.Languages, language)
}

// LocalizedSoundBank is a bank asset with one physical bank per language.
type LocalizedSoundBank struct {
	ID        ShortID     `yaml:"id" json:"id"`
	DebugName string      `yaml:"name" json:"name"`
	Variants  []SoundBank `yaml:"variants" json:"variants"`
}

func (b *LocalizedSoundBank) Kind() Kind       { return KindSoundBank }
func (b *LocalizedSoundBank) ShortID() ShortID { return b.ID }
func (b *LocalizedSoundBank) Name() string     { return b.DebugName }

func (b *LocalizedSoundBank) Localized() bool {
	for _, v := range b.Variants {
		if !v.Language.IsSFX() {
			return true
		}
	}
	return false
}

func (b *LocalizedSoundBank) Resolve(language Language) (*Requirements, Language, bool) {
	var sfx *SoundBank
	for i := range b.Variants {
		v := &b.Variants[i]
		if v.Language.Equal(language) {
			return &Requirements{SoundBanks: []SoundBank{*v}}, v.Language, true
		}
		if v.Language.IsSFX() && sfx == nil {
			sfx = v
		}
	}
	if sfx != nil {
		return &Requirements{SoundBanks: []SoundBank{*sfx}}, SFX, true
	}
	return nil, Language{}, false
}

func (m *Media) Kind() Kind       { return KindMedia }
func (m *Media) ShortID() ShortID { return m.ID }
func (m *Media) Name() string     { return m.DebugName }
func (m *Media) Localized() bool  { return false }
func (m *Media) Resolve(Language) (*Requirements, Language, bool) {
	return &Requirements{Media: []Media{*m}}, SFX, true
}

func (x *ExternalSource) Kind() Kind       { return KindExternalSource }
func (x *ExternalSource) ShortID() ShortID { return x.Cookie }
func (x *ExternalSource) Name() string     { return x.DebugName }
func (x *ExternalSource) Localized() bool  { return false }
func (x *ExternalSource) Resolve(Language) (*Requirements, Language, bool) {
	return &Requirements{ExternalSources: []ExternalSource{*x}}, SFX, true
}

// GroupValue is a loadable switch or state value. Loading it has no physical
// cost; it only activates switch container leaves.
type GroupValue struct {
	GroupValueID `yaml:",inline" json:",inline"`
	DebugName    string `yaml:"name" json:"name"`
}

func (g *GroupValue) Kind() Kind       { return KindGroupValue }
func (g *GroupValue) ShortID() ShortID { return g.ID }
func (g *GroupValue) Name() string     { return g.DebugName }
func (g *GroupValue) Localized() bool  { return false }
func (g *GroupValue) Resolve(Language) (*Requirements, Language, bool) {
	return &Requirements{}, SFX, true
}

// InitBank is the bank loaded before anything else, together with the list
// of languages the project was cooked for.
type InitBank struct {
	SoundBank `yaml:",inline" json:"soundbank"`
	Media     []Media    `yaml:"media,omitempty" json:"media,omitempty"`
	Languages []Language `yaml:"languages,omitempty" json:"languages,omitempty"`
}

func (i *InitBank) Kind() Kind       { return KindInitBank }
func (i *InitBank) ShortID() ShortID { return i.ID }
func (i *InitBank) Name() string     { return i.DebugName }
func (i *InitBank) Localized() bool  { return false }
func (i *InitBank) Resolve(Language) (*Requirements, Language, bool) {
	return &Requirements{SoundBanks: []SoundBank{i.SoundBank}, Media: i.Media}, SFX, true
}

// FindLanguage looks up a cooked language by name, case-insensitively.
func (i *InitBank) FindLanguage(name string) (Language, bool) {
	for _, l := range i.Languages {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Language{}, false
}
