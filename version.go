package querygate

import (
	"fmt"
	"strconv"
	"strings"
)

// Version identifies the protocol version spoken by a peer node.
// Versions are totally ordered; encode one as major*1_000_000 +
// minor*10_000 + patch*100 so that numeric comparison matches release
// order and two digits remain free for pre-release builds.
type Version int32

// Well-known protocol versions.
var (
	V2_4_0 = MakeVersion(2, 4, 0)
	V2_4_3 = MakeVersion(2, 4, 3)
	V5_0_0 = MakeVersion(5, 0, 0)
	V5_0_1 = MakeVersion(5, 0, 1)

	// Current is the protocol version spoken by this build.
	Current = V5_0_1
)

// MakeVersion builds a Version from its release coordinates.
func MakeVersion(major, minor, patch uint8) Version {
	return Version(int32(major)*1_000_000 + int32(minor)*10_000 + int32(patch)*100)
}

// ParseVersion parses a "major.minor.patch" string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid version %q: want major.minor.patch", s)
	}
	nums := make([]uint8, 3)
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", s, err)
		}
		nums[i] = uint8(n)
	}
	return MakeVersion(nums[0], nums[1], nums[2]), nil
}

// Before reports whether v precedes o.
func (v Version) Before(o Version) bool { return v < o }

// OnOrAfter reports whether v is o or a later version.
func (v Version) OnOrAfter(o Version) bool { return v >= o }

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v/1_000_000, v/10_000%100, v/100%100)
}
