// Package activation holds the frozen profile and cloud-platform decision
// used to gate which configuration contributors are considered active. It is
// computed exactly once, from a binder over the contributors that existed
// before profiles were known, and never changes afterwards.
package activation

import (
	"github.com/vk/confboot/internal/binder"
	"github.com/vk/confboot/internal/propsource"
)

// Property names consumed by profile resolution.
const (
	ActiveProfilesProperty  = "profiles.active"
	IncludeProfilesProperty = "profiles.include"
	DefaultProfilesProperty = "profiles.default"
	ProfileGroupPrefix      = "profiles.group."
)

// DefaultProfile is the profile in effect when none is activated explicitly.
const DefaultProfile = "default"

// Profiles is the resolved profile model: the expanded active list, the
// expanded default list, and the accepted-set derived from whichever of the
// two applies.
type Profiles struct {
	active   []string
	defaults []string
}

// BindProfiles resolves the profile model from the binder. additional
// profiles (from the caller) are activated after the bound ones. Group
// declarations (profiles.group.<name>) are expanded transitively; expansion
// tolerates cycles by visiting each profile once.
func BindProfiles(b *binder.Binder, additional []string) (*Profiles, error) {
	active, err := b.BindSlice(ActiveProfilesProperty)
	if err != nil {
		return nil, err
	}
	include, err := b.BindSlice(IncludeProfilesProperty)
	if err != nil {
		return nil, err
	}
	active = append(active, include...)
	active = append(active, additional...)

	defaults, err := b.BindSlice(DefaultProfilesProperty)
	if err != nil {
		return nil, err
	}
	if len(defaults) == 0 {
		defaults = []string{DefaultProfile}
	}

	expandedActive, err := expandGroups(b, active)
	if err != nil {
		return nil, err
	}
	expandedDefaults, err := expandGroups(b, defaults)
	if err != nil {
		return nil, err
	}
	return &Profiles{active: expandedActive, defaults: expandedDefaults}, nil
}

// expandGroups appends each profile's group members directly after the
// profile itself, depth-first, skipping profiles already seen.
func expandGroups(b *binder.Binder, profiles []string) ([]string, error) {
	var expanded []string
	seen := make(map[string]bool)

	var visit func(profile string) error
	visit = func(profile string) error {
		canonical := propsource.CanonicalName(profile)
		if seen[canonical] {
			return nil
		}
		seen[canonical] = true
		expanded = append(expanded, profile)
		members, err := b.BindSlice(ProfileGroupPrefix + profile)
		if err != nil {
			return err
		}
		for _, member := range members {
			if err := visit(member); err != nil {
				return err
			}
		}
		return nil
	}

	for _, profile := range profiles {
		if err := visit(profile); err != nil {
			return nil, err
		}
	}
	return expanded, nil
}

// Active returns the expanded active profiles in activation order.
func (p *Profiles) Active() []string { return p.active }

// Defaults returns the expanded default profiles.
func (p *Profiles) Defaults() []string { return p.defaults }

// Accepted returns the profiles in effect: the active list, or the default
// list when nothing was activated.
func (p *Profiles) Accepted() []string {
	if len(p.active) > 0 {
		return p.active
	}
	return p.defaults
}

// IsAccepted reports whether the named profile is in effect.
func (p *Profiles) IsAccepted(profile string) bool {
	canonical := propsource.CanonicalName(profile)
	for _, accepted := range p.Accepted() {
		if propsource.CanonicalName(accepted) == canonical {
			return true
		}
	}
	return false
}
