package db

import "time"

// MaintenanceConfigID 单例配置固定主键。
const MaintenanceConfigID = 1

// MaintenanceConfig 是维护模式的单例配置。
// ActivePages 语义为豁免清单：维护生效期间仍可访问的路径。
type MaintenanceConfig struct {
	ID             uint     `gorm:"primaryKey"`
	Global         bool     `gorm:"not null;default:false"`
	Dashboard      bool     `gorm:"not null;default:false"`
	ActivePages    []string `gorm:"type:text;serializer:json"`
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	AllowedIPs     []string `gorm:"type:text;serializer:json"`
	AllowedRoles   []string `gorm:"type:text;serializer:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定自定义表名。
func (MaintenanceConfig) TableName() string {
	return "maintenance_configs"
}
