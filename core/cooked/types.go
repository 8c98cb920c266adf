package cooked

import (
	"fmt"
	"strconv"
)

// ShortID is the numeric identifier the sound engine uses for every object.
type ShortID uint32

// String formats the id in decimal.
func (id ShortID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Language identifies a localization variant. The zero value is SFX, the
// language-neutral variant.
type Language struct {
	ID   ShortID `yaml:"id" json:"id"`
	Name string  `yaml:"name" json:"name"`
}

// SFX is the language-neutral variant.
var SFX = Language{ID: 0, Name: "SFX"}

// IsSFX reports whether l is the language-neutral variant.
func (l Language) IsSFX() bool {
	return l.ID == 0
}

// Equal compares languages by id only.
func (l Language) Equal(other Language) bool {
	return l.ID == other.ID
}

func (l Language) String() string {
	if l.Name == "" {
		return l.ID.String()
	}
	return l.Name
}

// MediaLocation tells the loader where a media file physically lives.
type MediaLocation string

const (
	// MediaInSoundBank media is embedded in SoundBankID and is live as soon as
	// that bank is loaded.
	MediaInSoundBank MediaLocation = "in_soundbank"
	// MediaInOtherSoundBank media is embedded in a bank other than the one
	// that references it; that bank has to be loaded instead.
	MediaInOtherSoundBank MediaLocation = "in_other_soundbank"
	// MediaStreamed media is a standalone file loaded on its own.
	MediaStreamed MediaLocation = "streamed"
)

// SoundBank describes one physical bank file.
type SoundBank struct {
	ID        ShortID  `yaml:"id" json:"id"`
	DebugName string   `yaml:"name" json:"name"`
	Language  Language `yaml:"language" json:"language"`
	Path      string   `yaml:"path" json:"path"`
}

// Media describes one audio file or embedded clip.
type Media struct {
	ID          ShortID       `yaml:"id" json:"id"`
	DebugName   string        `yaml:"name" json:"name"`
	Language    Language      `yaml:"language" json:"language"`
	Location    MediaLocation `yaml:"location" json:"location"`
	Path        string        `yaml:"path,omitempty" json:"path,omitempty"`
	SoundBankID ShortID       `yaml:"soundbank_id,omitempty" json:"soundbank_id,omitempty"`
	// ContainingBank is the bank the media is embedded in, needed when that
	// bank is not one of the referencing object's own banks.
	ContainingBank *SoundBank `yaml:"containing_bank,omitempty" json:"containing_bank,omitempty"`
}

// ExternalSource describes a runtime-provided source addressed by cookie.
type ExternalSource struct {
	Cookie    ShortID `yaml:"cookie" json:"cookie"`
	DebugName string  `yaml:"name" json:"name"`
	Path      string  `yaml:"path" json:"path"`
}

// GroupValueType distinguishes switch values from state values.
type GroupValueType string

const (
	GroupValueSwitch GroupValueType = "switch"
	GroupValueState  GroupValueType = "state"
)

// GroupValueID identifies one value of a switch or state group.
type GroupValueID struct {
	Type    GroupValueType `yaml:"type" json:"type"`
	GroupID ShortID        `yaml:"group_id" json:"group_id"`
	ID      ShortID        `yaml:"id" json:"id"`
}

func (g GroupValueID) String() string {
	return fmt.Sprintf("%s:%d:%d", g.Type, g.GroupID, g.ID)
}

// Requirements is what an object needs loaded for one language.
type Requirements struct {
	SoundBanks      []SoundBank      `yaml:"soundbanks,omitempty" json:"soundbanks,omitempty"`
	Media           []Media          `yaml:"media,omitempty" json:"media,omitempty"`
	ExternalSources []ExternalSource `yaml:"external_sources,omitempty" json:"external_sources,omitempty"`
	// RequiredGroupValues are considered active for as long as the owning
	// event is loaded.
	RequiredGroupValues   []GroupValueID        `yaml:"required_group_values,omitempty" json:"required_group_values,omitempty"`
	SwitchContainerLeaves []SwitchContainerLeaf `yaml:"switch_container_leaves,omitempty" json:"switch_container_leaves,omitempty"`
}

// IsEmpty reports whether nothing has to be loaded.
func (r *Requirements) IsEmpty() bool {
	return len(r.SoundBanks) == 0 && len(r.Media) == 0 && len(r.ExternalSources) == 0 &&
		len(r.RequiredGroupValues) == 0 && len(r.SwitchContainerLeaves) == 0
}

// SwitchContainerLeaf is a set of media/banks needed only while every group
// value of GroupValues is active.
type SwitchContainerLeaf struct {
	GroupValues     []GroupValueID   `yaml:"group_values" json:"group_values"`
	SoundBanks      []SoundBank      `yaml:"soundbanks,omitempty" json:"soundbanks,omitempty"`
	Media           []Media          `yaml:"media,omitempty" json:"media,omitempty"`
	ExternalSources []ExternalSource `yaml:"external_sources,omitempty" json:"external_sources,omitempty"`
}

// Requirements returns the leaf's own load requirements.
func (l SwitchContainerLeaf) Requirements() *Requirements {
	return &Requirements{
		SoundBanks:      l.SoundBanks,
		Media:           l.Media,
		ExternalSources: l.ExternalSources,
	}
}

// LocalizedRequirements binds a requirement set to a language.
type LocalizedRequirements struct {
	Language     Language     `yaml:"language" json:"language"`
	Requirements Requirements `yaml:",inline" json:"requirements"`
}
