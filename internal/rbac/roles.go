package rbac

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionSettle = "settle"
)

// Policy is one allow rule: subject (role) may perform act on obj.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies grants admins everything and drivers read access to their
// own operational records. Ownership is enforced by the handlers.
var DefaultPolicies = []Policy{
	{Role: RoleAdmin, Resource: "*", Action: "*"},
	{Role: RoleDriver, Resource: "trip", Action: ActionRead},
	{Role: RoleDriver, Resource: "payroll", Action: ActionRead},
	{Role: RoleDriver, Resource: "expense", Action: ActionRead},
	{Role: RoleDriver, Resource: "advance", Action: ActionRead},
}

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleDriver
}
