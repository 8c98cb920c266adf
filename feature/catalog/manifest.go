package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"audio-loader/core/cooked"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML document the cooking step writes for one project.
type Manifest struct {
	InitBank        *cooked.InitBank        `yaml:"init_bank,omitempty"`
	SoundBanks      []cooked.SoundBank      `yaml:"soundbanks,omitempty"`
	Media           []cooked.Media          `yaml:"media,omitempty"`
	ExternalSources []cooked.ExternalSource `yaml:"external_sources,omitempty"`
	Events          []cooked.Event          `yaml:"events,omitempty"`
	AuxBuses        []cooked.AuxBus         `yaml:"aux_buses,omitempty"`
	ShareSets       []cooked.ShareSet       `yaml:"share_sets,omitempty"`
	GroupValues     []cooked.GroupValue     `yaml:"group_values,omitempty"`
}

// ImportSummary counts what an import stored.
type ImportSummary struct {
	SoundBanks      int  `json:"soundbanks"`
	Media           int  `json:"media"`
	ExternalSources int  `json:"external_sources"`
	Objects         int  `json:"objects"`
	GroupValues     int  `json:"group_values"`
	InitBank        bool `json:"init_bank"`
}

// ParseManifest decodes a manifest. Unknown keys are rejected.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	m, err := ParseManifest(f)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks ids are unique, media placement is complete and every
// localized payload uses a language the init bank declares.
func (m *Manifest) Validate() error {
	var errs []error

	declared := make(map[cooked.ShortID]struct{})
	if m.InitBank != nil {
		if m.InitBank.Path == "" {
			errs = append(errs, fmt.Errorf("init bank %d has no path", m.InitBank.ID))
		}
		for _, l := range m.InitBank.Languages {
			declared[l.ID] = struct{}{}
		}
	}
	checkLanguage := func(owner string, l cooked.Language) {
		if l.IsSFX() || len(declared) == 0 {
			return
		}
		if _, ok := declared[l.ID]; !ok {
			errs = append(errs, fmt.Errorf("%s uses undeclared language %s", owner, l))
		}
	}

	type bankKey struct{ id, language cooked.ShortID }
	banks := make(map[bankKey]struct{})
	for _, b := range m.SoundBanks {
		k := bankKey{b.ID, b.Language.ID}
		if _, dup := banks[k]; dup {
			errs = append(errs, fmt.Errorf("soundbank %d declared twice for language %s", b.ID, b.Language))
		}
		banks[k] = struct{}{}
		if b.Path == "" {
			errs = append(errs, fmt.Errorf("soundbank %d has no path", b.ID))
		}
		checkLanguage(fmt.Sprintf("soundbank %d", b.ID), b.Language)
	}

	media := make(map[cooked.ShortID]struct{})
	for _, md := range m.Media {
		if _, dup := media[md.ID]; dup {
			errs = append(errs, fmt.Errorf("media %d declared twice", md.ID))
		}
		media[md.ID] = struct{}{}
		if err := validateMedia(md); err != nil {
			errs = append(errs, err)
		}
	}

	sources := make(map[cooked.ShortID]struct{})
	for _, s := range m.ExternalSources {
		if _, dup := sources[s.Cookie]; dup {
			errs = append(errs, fmt.Errorf("external source %d declared twice", s.Cookie))
		}
		sources[s.Cookie] = struct{}{}
	}

	checkObjects := func(kind cooked.Kind, id cooked.ShortID, languages []cooked.LocalizedRequirements, seen map[cooked.ShortID]struct{}) {
		owner := fmt.Sprintf("%s %d", kind, id)
		if _, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("%s declared twice", owner))
		}
		seen[id] = struct{}{}
		for _, l := range languages {
			checkLanguage(owner, l.Language)
			for _, md := range l.Requirements.Media {
				if err := validateMedia(md); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", owner, err))
				}
			}
		}
	}
	events := make(map[cooked.ShortID]struct{})
	for _, e := range m.Events {
		checkObjects(cooked.KindEvent, e.ID, e.Languages, events)
	}
	buses := make(map[cooked.ShortID]struct{})
	for _, a := range m.AuxBuses {
		checkObjects(cooked.KindAuxBus, a.ID, a.Languages, buses)
	}
	sets := make(map[cooked.ShortID]struct{})
	for _, s := range m.ShareSets {
		checkObjects(cooked.KindShareSet, s.ID, s.Languages, sets)
	}

	values := make(map[cooked.ShortID]cooked.ShortID)
	for _, g := range m.GroupValues {
		if group, dup := values[g.ID]; dup {
			errs = append(errs, fmt.Errorf("group value %d declared twice (groups %d and %d)", g.ID, group, g.GroupID))
		}
		values[g.ID] = g.GroupID
		if g.Type != cooked.GroupValueSwitch && g.Type != cooked.GroupValueState {
			errs = append(errs, fmt.Errorf("group value %d has unknown type %q", g.ID, g.Type))
		}
	}

	return errors.Join(errs...)
}

func validateMedia(md cooked.Media) error {
	switch md.Location {
	case cooked.MediaInSoundBank, cooked.MediaInOtherSoundBank:
		if md.SoundBankID == 0 && md.ContainingBank == nil {
			return fmt.Errorf("media %d is embedded but names no soundbank", md.ID)
		}
	case cooked.MediaStreamed:
		if md.Path == "" {
			return fmt.Errorf("streamed media %d has no path", md.ID)
		}
	default:
		return fmt.Errorf("media %d has unknown location %q", md.ID, md.Location)
	}
	return nil
}

// ImportManifest loads the manifest at path and replaces the catalog
// content with it.
func ImportManifest(ctx context.Context, repo *Repository, path string) (ImportSummary, error) {
	m, err := LoadManifest(path)
	if err != nil {
		return ImportSummary{}, err
	}
	if err := repo.Migrate(ctx); err != nil {
		return ImportSummary{}, err
	}
	return repo.Replace(ctx, m)
}
