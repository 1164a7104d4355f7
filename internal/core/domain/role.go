package domain

import "fmt"

// Role identifies the department a user acts for. Every authenticated
// request carries exactly one role; workflow actions are guarded on it.
type Role string

const (
	RoleSaleCo      Role = "SALECO"
	RoleInventory   Role = "INVENTORY"
	RoleQA          Role = "QA"
	RoleManufacture Role = "MANUFACTURE"
	RoleEnvironment Role = "ENVIRONMENT"
)

// ParseRole validates a raw role string coming from a token claim or a
// create-user request.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSaleCo, RoleInventory, RoleQA, RoleManufacture, RoleEnvironment:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}
