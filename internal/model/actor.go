package model

// Actor is the authenticated identity the engine receives from the gateway.
// Credential verification happens upstream; the engine trusts these fields.
type Actor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	DepartmentID string `json:"department_id"`
}

// IsManager reports whether the actor holds the manager role.
func (a Actor) IsManager() bool { return a.Role == RoleManager }
