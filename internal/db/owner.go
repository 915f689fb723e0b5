package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// RoleAdmin 拥有后台与维护豁免权限。
	RoleAdmin = "admin"
	// RoleOwner 普通页面所有者。
	RoleOwner = "owner"
)

// Owner 定义了页面所有者模型，Handle 全局唯一。
type Owner struct {
	gorm.Model
	Handle   string `gorm:"size:60;uniqueIndex;not null"`
	Password string `gorm:"not null"`
	Role     string `gorm:"size:20;not null;default:owner"`
}

// EnsureOwner 存在性检查：若提供的 handle 与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的所有者。
func EnsureOwner(handle, password, role string) error {
	trimmedHandle := strings.TrimSpace(handle)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedHandle == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	if strings.TrimSpace(role) == "" {
		role = RoleOwner
	}

	var existing Owner
	if err := DB.Where("handle = ?", trimmedHandle).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&Owner{Handle: trimmedHandle, Password: string(hashed), Role: role}).Error
	}

	return nil
}
