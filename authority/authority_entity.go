package authority

import (
	"strings"
)

const (
	SystemAdminPermission = "system:admin"
	OrderCreatePermission = "order:create"
)

type Permissions []string

func (c Permissions) HasRole(role string) bool {
	for _, v := range c {
		if strings.EqualFold(v, role) {
			return true
		}
	}
	return false
}

func (c Permissions) HasAdminRole() bool {
	return c.HasRole(SystemAdminPermission)
}

func (c Permissions) HasOrderCreateRole() bool {
	return c.HasAdminRole() || c.HasRole(OrderCreatePermission)
}
