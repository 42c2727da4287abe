package session

import (
	"context"
	"time"

	"orderflow/authority"

	"github.com/fundwit/go-commons/types"
)

type Context struct {
	Token    string                `json:"token"`
	Identity Identity              `json:"identity"`
	Perms    authority.Permissions `json:"perms"`

	SigningTime time.Time `json:"-"`

	// request-scoped context, carries the tracing span
	Context context.Context `json:"-"`
}

type Identity struct {
	ID           types.ID `json:"id"`
	Name         string   `json:"name"`
	Nickname     string   `json:"nickname"`
	DepartmentID types.ID `json:"departmentId"`
}

func (c *Context) IsAdmin() bool {
	return c.Perms.HasAdminRole()
}

func (c *Context) CanCreateOrder() bool {
	return c.Perms.HasOrderCreateRole()
}
