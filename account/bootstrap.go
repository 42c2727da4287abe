package account

import (
	"os"

	"orderflow/common"
	"orderflow/persistence"

	"github.com/fundwit/go-commons/types"
)

// BootstrapAdmin creates the initial admin account when the users table
// is empty, so a fresh deployment can be logged into.
// ADMIN_INIT_SECRET overrides the default secret.
func BootstrapAdmin() error {
	db := persistence.ActiveDataSourceManager.GormDB(nil)

	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	secret := os.Getenv("ADMIN_INIT_SECRET")
	if secret == "" {
		secret = "admin123"
	}
	admin := User{ID: common.NextId(userIdWorker), Name: "admin", Nickname: "管理员",
		Secret: HashSha256(secret), Role: RoleAdmin, CanCreateOrder: true, CreateTime: types.CurrentTimestamp()}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	common.Log.Infof("initial admin account created: %s", admin.Name)
	return nil
}
