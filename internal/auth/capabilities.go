package auth

import "alertautec-backend/internal/database/models"

// Capability names a single privileged action a role may perform.
type Capability string

const (
	// CapViewAll allows listing every incident, not only owned ones
	CapViewAll Capability = "view_all"
	// CapAssign allows assigning an incident to oneself
	CapAssign Capability = "assign"
	// CapAssignArbitrary allows assigning an incident to any administrator
	CapAssignArbitrary Capability = "assign_arbitrary"
	// CapChangeStatus allows moving an incident through its lifecycle
	CapChangeStatus Capability = "change_status"
	// CapEditAny allows editing incidents created by other users
	CapEditAny Capability = "edit_any"
	// CapDelete allows deleting incidents
	CapDelete Capability = "delete"
	// CapListAdmins allows listing administrator accounts
	CapListAdmins Capability = "list_admins"
	// CapViewWorkload allows reading the administrator workload ranking
	CapViewWorkload Capability = "view_workload"
)

var roleCapabilities = map[models.Role]map[Capability]bool{
	models.RoleStudent: {},
	models.RoleAdmin: {
		CapViewAll:      true,
		CapAssign:       true,
		CapChangeStatus: true,
		CapEditAny:      true,
		CapDelete:       true,
	},
	models.RoleSuperAdmin: {
		CapViewAll:         true,
		CapAssign:          true,
		CapAssignArbitrary: true,
		CapChangeStatus:    true,
		CapEditAny:         true,
		CapDelete:          true,
		CapListAdmins:      true,
		CapViewWorkload:    true,
	},
}

// HasCapability reports whether a role is granted a capability.
// Unknown roles hold no capabilities.
func HasCapability(role models.Role, cap Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	return caps[cap]
}
