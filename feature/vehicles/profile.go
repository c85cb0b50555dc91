package vehicles

import (
	"fmt"
	"strings"

	"autosync/core/autogestor"
)

// Profile selects naming and equivalence rules for a storefront generation.
type Profile struct {
	// Name identifies the profile in configuration.
	Name string

	// DisplayName builds the product name of a vehicle.
	DisplayName func(v autogestor.Vehicle) string

	// CheckShortDescription requires an empty short description on the
	// product, and clears it on update.
	CheckShortDescription bool
}

// Profile names.
const (
	ProfileClassic   = "classic"
	ProfileVersioned = "versioned"
)

// ClassicProfile names products "{brand} {model} {model year}".
func ClassicProfile() Profile {
	return Profile{
		Name:                  ProfileClassic,
		DisplayName:           classicName,
		CheckShortDescription: true,
	}
}

// VersionedProfile names products after the pre-composed version when the
// feed has one, and leaves the short description alone.
func VersionedProfile() Profile {
	return Profile{
		Name: ProfileVersioned,
		DisplayName: func(v autogestor.Vehicle) string {
			if version := strings.TrimSpace(v.Version); version != "" {
				return version
			}
			return classicName(v)
		},
	}
}

// ProfileByName returns the named profile. An empty name selects classic.
func ProfileByName(name string) (Profile, error) {
	switch normalizeKey(name) {
	case "", ProfileClassic:
		return ClassicProfile(), nil
	case ProfileVersioned:
		return VersionedProfile(), nil
	default:
		return Profile{}, fmt.Errorf("unknown sync profile %q", name)
	}
}

func classicName(v autogestor.Vehicle) string {
	return fmt.Sprintf("%s %s %s", v.Brand, v.Model, v.ModelYear)
}
