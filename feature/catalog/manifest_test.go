package catalog

import (
	"strings"
	"testing"

	"audio-loader/core/cooked"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest("testdata/project.yaml")
	require.NoError(t, err)

	require.NotNil(t, m.InitBank)
	assert.Equal(t, "Init.bnk", m.InitBank.Path)
	assert.Len(t, m.InitBank.Languages, 2)
	assert.Len(t, m.SoundBanks, 3)
	assert.Len(t, m.Events, 2)

	footstep := m.Events[0]
	require.Len(t, footstep.Languages, 1)
	leaves := footstep.Languages[0].Requirements.SwitchContainerLeaves
	require.Len(t, leaves, 1)
	assert.Equal(t, cooked.GroupValueID{Type: cooked.GroupValueSwitch, GroupID: 3, ID: 31}, leaves[0].GroupValues[0])
	assert.Equal(t, cooked.MediaStreamed, leaves[0].Media[0].Location)

	assert.Equal(t, cooked.GroupValueState, m.GroupValues[1].Type)
	assert.Equal(t, "Underwater", m.GroupValues[1].DebugName)
}

func TestParseManifest_UnknownKey(t *testing.T) {
	_, err := ParseManifest(strings.NewReader("soundbanks: []\nbanks: []\n"))
	assert.Error(t, err)
}

func TestParseManifest_Empty(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(""))
	require.NoError(t, err)
	assert.NoError(t, m.Validate())
}

func TestManifest_Validate(t *testing.T) {
	english := cooked.Language{ID: 1, Name: "English(US)"}
	german := cooked.Language{ID: 3, Name: "German"}

	tests := []struct {
		name     string
		manifest Manifest
		wantErr  string
	}{
		{
			name: "DuplicateBankVariant",
			manifest: Manifest{SoundBanks: []cooked.SoundBank{
				{ID: 1, Path: "a.bnk", Language: english},
				{ID: 1, Path: "b.bnk", Language: english},
			}},
			wantErr: "declared twice",
		},
		{
			name:     "BankWithoutPath",
			manifest: Manifest{SoundBanks: []cooked.SoundBank{{ID: 1}}},
			wantErr:  "has no path",
		},
		{
			name:     "StreamedWithoutPath",
			manifest: Manifest{Media: []cooked.Media{{ID: 5, Location: cooked.MediaStreamed}}},
			wantErr:  "streamed media 5 has no path",
		},
		{
			name:     "EmbeddedWithoutBank",
			manifest: Manifest{Media: []cooked.Media{{ID: 5, Location: cooked.MediaInSoundBank}}},
			wantErr:  "names no soundbank",
		},
		{
			name:     "UnknownLocation",
			manifest: Manifest{Media: []cooked.Media{{ID: 5, Location: "tape"}}},
			wantErr:  "unknown location",
		},
		{
			name: "UndeclaredLanguage",
			manifest: Manifest{
				InitBank: &cooked.InitBank{SoundBank: cooked.SoundBank{ID: 9, Path: "Init.bnk"}, Languages: []cooked.Language{english}},
				Events:   []cooked.Event{{ID: 1, Languages: []cooked.LocalizedRequirements{{Language: german}}}},
			},
			wantErr: "undeclared language German",
		},
		{
			name:     "DuplicateEvent",
			manifest: Manifest{Events: []cooked.Event{{ID: 1}, {ID: 1}}},
			wantErr:  "event 1 declared twice",
		},
		{
			name: "GroupValueIDAcrossGroups",
			manifest: Manifest{GroupValues: []cooked.GroupValue{
				{GroupValueID: cooked.GroupValueID{Type: cooked.GroupValueSwitch, GroupID: 1, ID: 5}},
				{GroupValueID: cooked.GroupValueID{Type: cooked.GroupValueState, GroupID: 2, ID: 5}},
			}},
			wantErr: "group value 5 declared twice (groups 1 and 2)",
		},
		{
			name:     "UnknownGroupValueType",
			manifest: Manifest{GroupValues: []cooked.GroupValue{{GroupValueID: cooked.GroupValueID{Type: "rtpc", ID: 1}}}},
			wantErr:  "unknown type",
		},
		{
			name: "Valid",
			manifest: Manifest{
				InitBank:   &cooked.InitBank{SoundBank: cooked.SoundBank{ID: 9, Path: "Init.bnk"}, Languages: []cooked.Language{english}},
				SoundBanks: []cooked.SoundBank{{ID: 1, Path: "a.bnk", Language: english}, {ID: 1, Path: "sfx.bnk"}},
				Events:     []cooked.Event{{ID: 1, Languages: []cooked.LocalizedRequirements{{Language: english}, {Language: cooked.SFX}}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
