package account

import (
	"crypto/sha256"
	"encoding/hex"

	"orderflow/authority"
	"orderflow/bizerror"
	"orderflow/common"
	"orderflow/persistence"
	"orderflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/sony/sonyflake"
)

var (
	userIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryUsersFunc        = QueryUsers
	CreateUserFunc        = CreateUser
	LoadPermsFunc         = LoadPerms
	QueryAccountNamesFunc = QueryAccountNames
)

func HashSha256(raw string) string {
	h := sha256.New()
	h.Write([]byte(raw))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// LoadPerms derive the permissions of a user from its stored role flags
func LoadPerms(user *User) authority.Permissions {
	perms := authority.Permissions{}
	if user.Role == RoleAdmin {
		perms = append(perms, authority.SystemAdminPermission)
	}
	if user.CanCreateOrder {
		perms = append(perms, authority.OrderCreatePermission)
	}
	return perms
}

// QueryUsers list all users, the candidate assignees of a handoff
func QueryUsers(sec *session.Context) (*[]UserInfo, error) {
	var users []UserInfo
	db := persistence.ActiveDataSourceManager.GormDB(sec.Context)
	if err := db.Model(&User{}).Order("nickname ASC").Scan(&users).Error; err != nil {
		return nil, err
	}
	return &users, nil
}

func CreateUser(c *UserCreation, sec *session.Context) (*UserInfo, error) {
	if !sec.IsAdmin() {
		return nil, bizerror.ErrForbidden
	}

	role := c.Role
	if role == "" {
		role = RoleUser
	}
	user := User{ID: common.NextId(userIdWorker), Name: c.Name, Nickname: c.Nickname, Secret: HashSha256(c.Secret),
		Role: role, CanCreateOrder: c.CanCreateOrder, DepartmentID: c.DepartmentID, CreateTime: types.CurrentTimestamp()}
	if err := persistence.ActiveDataSourceManager.GormDB(sec.Context).Create(&user).Error; err != nil {
		return nil, err
	}
	return &UserInfo{ID: user.ID, Name: user.Name, Nickname: user.Nickname, DepartmentID: user.DepartmentID}, nil
}

func QueryAccountNames(ids []types.ID) (map[types.ID]string, error) {
	if len(ids) == 0 {
		return map[types.ID]string{}, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	var records []UserInfo
	if err := db.Model(&User{}).Where("id IN (?)", ids).Scan(&records).Error; err != nil {
		return nil, err
	}
	result := map[types.ID]string{}
	for _, r := range records {
		result[r.ID] = r.DisplayName()
	}
	return result, nil
}
