package codec

import (
	"fmt"
	"sort"

	"golang.org/x/mod/semver"
)

// ProfileVersion is the schema version written by EncodeProfile.
const ProfileVersion = "v2.0.0"

// legacyVersion is assumed for records written before versions existed.
const legacyVersion = "v1.0.0"

// migration upgrades a raw profile record in place from one schema version
// to the next.
type migration struct {
	from  string
	to    string
	apply func(rec record) error
}

var profileMigrations = []migration{
	{from: "v1.0.0", to: "v2.0.0", apply: migrateProfileV1},
}

// normalizeVersion returns a canonical semver, treating empty or invalid
// values as the legacy version.
func normalizeVersion(v string) string {
	if v == "" {
		return legacyVersion
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return legacyVersion
	}
	return semver.Canonical(v)
}

// migrate walks rec forward from version to ProfileVersion. Records newer
// than this build are left alone.
func migrate(rec record, version string) (string, error) {
	version = normalizeVersion(version)
	if semver.Compare(version, ProfileVersion) >= 0 {
		return version, nil
	}

	steps := append([]migration(nil), profileMigrations...)
	sort.Slice(steps, func(i, j int) bool {
		return semver.Compare(steps[i].from, steps[j].from) < 0
	})
	for _, m := range steps {
		if semver.Compare(version, m.to) >= 0 {
			continue
		}
		if err := m.apply(rec); err != nil {
			return version, fmt.Errorf("migrate %s -> %s: %w", m.from, m.to, err)
		}
		version = m.to
	}
	return version, nil
}
