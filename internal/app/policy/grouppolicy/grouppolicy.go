// internal/app/policy/grouppolicy.go
package grouppolicy

import (
	"strings"

	"github.com/dalemusser/civichub/internal/domain/models"
)

// ValidRole reports whether role is one of the membership roles.
func ValidRole(role string) bool {
	switch role {
	case models.RoleMember, models.RoleManager, models.RoleFounder:
		return true
	}
	return false
}

// IsElevated reports whether role grants visibility into join requests,
// governance proposals and manager-only channels.
func IsElevated(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.RoleManager, models.RoleFounder:
		return true
	}
	return false
}
