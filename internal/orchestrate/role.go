package orchestrate

import (
	"strings"

	"github.com/driftbuild/xbuild/internal/platform"
)

// Selects which image namespace, script prefix, and mount set applies.
type Role string

const (
	RoleBuilder Role = "builder"
	RoleTester  Role = "tester"
)

// Returns the script filename prefix for this role.
func (r Role) Prefix() string {
	if r == RoleTester {
		return platform.TestPrefix
	}
	return platform.BuildPrefix
}

// Returns the container image name for a platform under this role.
//
// Platform directory names preserve case for lookups, but image names are
// lower-cased to stay valid docker references.
func (r Role) ImageName(platformName string) string {
	return string(r) + "-" + strings.ToLower(platformName)
}
