package artifact

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/jsonvalue"
)

// Version is a schema_version tag.
type Version string

// VersionV1 is the first artifact schema generation.
const VersionV1 Version = "1.0"

// String implements fmt.Stringer.
func (v Version) String() string { return string(v) }

// SupportedVersions returns every schema version some artifact kind can
// decode, in semantic-version order.
func SupportedVersions() []Version {
	seen := make(map[Version]struct{})
	for _, vs := range [][]Version{
		versionsOf(reportDecoders),
		versionsOf(gateSummaryDecoders),
		versionsOf(driftDecoders),
		versionsOf(baselineStatsDecoders),
	} {
		for _, v := range vs {
			seen[v] = struct{}{}
		}
	}
	out := make([]Version, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sortVersions(out)
	return out
}

// versionsOf lists the keys of a per-version decoder table.
func versionsOf[T any](table map[Version]T) []Version {
	out := make([]Version, 0, len(table))
	for v := range table {
		out = append(out, v)
	}
	sortVersions(out)
	return out
}

// sortVersions orders by semantic version; tags semver cannot read sort
// after the ones it can, lexically.
func sortVersions(vs []Version) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, errA := semver.NewVersion(string(vs[i]))
		b, errB := semver.NewVersion(string(vs[j]))
		switch {
		case errA == nil && errB == nil:
			if !a.Equal(b) {
				return a.LessThan(b)
			}
			return vs[i] < vs[j]
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return vs[i] < vs[j]
		}
	})
}

// parseVersion checks schema_version against the versions listed in
// supported.
func parseVersion(v jsonvalue.Value, supported []Version) (Version, error) {
	s, err := contract.NonEmptyString(v, "schema_version")
	if err != nil {
		return "", err
	}
	for _, sv := range supported {
		if Version(s) == sv {
			return sv, nil
		}
	}
	names := make([]string, len(supported))
	for i, sv := range supported {
		names[i] = string(sv)
	}
	return "", contract.NotInSet(contract.CodeUnsupportedVersion, "schema_version", names, contract.Quote(s))
}
