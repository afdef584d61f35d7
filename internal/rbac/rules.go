package rbac

// Role is a closed enumeration; string comparison against anything outside
// this set never grants access.
type Role string

const (
	RoleAdminMaster  Role = "admin_master"
	RoleAdmin        Role = "admin"
	RoleAdminOp      Role = "admin_op"
	RoleAdminContent Role = "admin_content"
	RoleLearner      Role = "learner"
)

// Capabilities per role. Handlers check capabilities, never role names.
var RoleCapabilities = map[Role][]string{
	RoleAdminMaster: {
		"*", // everything
	},
	RoleAdmin: {
		"users:manage",
		"content:manage",
		"cohorts:manage",
		"messages:manage",
		"marketing:manage",
		"attempts:view-all",
		"notifications:view",
	},
	RoleAdminOp: {
		"users:manage",
		"cohorts:manage",
		"attempts:view-all",
		"notifications:view",
	},
	RoleAdminContent: {
		"content:manage",
	},
	RoleLearner: {
		"attempts:create",
		"attempts:view-own",
		"certificates:render-own",
	},
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := RoleCapabilities[r]
	return ok
}
