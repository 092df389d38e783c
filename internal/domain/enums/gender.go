package enums

import "strings"

type Gender string

const (
	GenderMan       Gender = "man"
	GenderWoman     Gender = "woman"
	GenderNonBinary Gender = "nonbinary"
)

type GenderPreference string

const (
	PreferenceMen      GenderPreference = "men"
	PreferenceWomen    GenderPreference = "women"
	PreferenceEveryone GenderPreference = "everyone"
)

// preferenceToGender is the single source of truth for how a discovery
// preference label maps onto stored gender values. A preference label that is
// missing here matches nobody, so every new Gender constant needs an entry.
var preferenceToGender = map[GenderPreference]Gender{
	PreferenceMen:   GenderMan,
	PreferenceWomen: GenderWoman,
}

func ParseGender(raw string) (Gender, bool) {
	switch Gender(strings.ToLower(strings.TrimSpace(raw))) {
	case GenderMan:
		return GenderMan, true
	case GenderWoman:
		return GenderWoman, true
	case GenderNonBinary:
		return GenderNonBinary, true
	default:
		return "", false
	}
}

func ParseGenderPreference(raw string) (GenderPreference, bool) {
	switch GenderPreference(strings.ToLower(strings.TrimSpace(raw))) {
	case PreferenceMen:
		return PreferenceMen, true
	case PreferenceWomen:
		return PreferenceWomen, true
	case PreferenceEveryone:
		return PreferenceEveryone, true
	default:
		return "", false
	}
}

// GenderForPreference resolves a preference label to the stored gender value it
// selects. The second return is false for PreferenceEveryone, meaning no
// gender filter should be applied at all.
func GenderForPreference(pref GenderPreference) (Gender, bool) {
	gender, ok := preferenceToGender[pref]
	return gender, ok
}
