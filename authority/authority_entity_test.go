package authority_test

import (
	"testing"

	"orderflow/authority"

	. "github.com/onsi/gomega"
)

func TestPermissions(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should match roles case insensitively", func(t *testing.T) {
		perms := authority.Permissions{"Order:Create"}
		Expect(perms.HasRole("order:create")).To(BeTrue())
		Expect(perms.HasRole("system:admin")).To(BeFalse())
	})

	t.Run("admin implies order creation", func(t *testing.T) {
		admin := authority.Permissions{authority.SystemAdminPermission}
		Expect(admin.HasAdminRole()).To(BeTrue())
		Expect(admin.HasOrderCreateRole()).To(BeTrue())

		creator := authority.Permissions{authority.OrderCreatePermission}
		Expect(creator.HasAdminRole()).To(BeFalse())
		Expect(creator.HasOrderCreateRole()).To(BeTrue())

		Expect(authority.Permissions{}.HasOrderCreateRole()).To(BeFalse())
	})
}
