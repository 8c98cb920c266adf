package cooked

import (
	"slices"
	"sort"
	"strings"
)

// LeafKey identifies a switch container leaf: its group value set plus the
// files it loads. Leaves of different containers that react to the same
// group values get different keys.
type LeafKey string

// NewLeafKey builds the group value part of a key. It ignores order and
// duplicates.
func NewLeafKey(values []GroupValueID) LeafKey {
	parts := make([]string, 0, len(values))
	seen := make(map[GroupValueID]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		parts = append(parts, v.String())
	}
	sort.Strings(parts)
	return LeafKey(strings.Join(parts, ","))
}

// Key returns the leaf's key.
func (l SwitchContainerLeaf) Key() LeafKey {
	files := make([]string, 0, len(l.SoundBanks)+len(l.Media)+len(l.ExternalSources))
	for _, b := range l.SoundBanks {
		files = append(files, "bank:"+bankIdentity(b))
	}
	for _, m := range l.Media {
		id := "media:" + m.ID.String() + "@" + m.Language.ID.String() + ":" + string(m.Location) + ":" + m.SoundBankID.String()
		if m.ContainingBank != nil {
			id += ":" + bankIdentity(*m.ContainingBank)
		}
		files = append(files, id)
	}
	for _, x := range l.ExternalSources {
		files = append(files, "source:"+x.Cookie.String())
	}
	sort.Strings(files)
	files = slices.Compact(files)
	return NewLeafKey(l.GroupValues) + LeafKey("|"+strings.Join(files, ","))
}

func bankIdentity(b SoundBank) string {
	return b.ID.String() + "@" + b.Language.ID.String()
}

// UniqueGroupValues returns values without duplicates, preserving order.
func UniqueGroupValues(values []GroupValueID) []GroupValueID {
	out := make([]GroupValueID, 0, len(values))
	seen := make(map[GroupValueID]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
