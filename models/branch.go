package models

import "time"

// Branch represents a gym branch (tenant). Branch IDs are issued by the
// dashboard side, so they are stored as opaque strings rather than
// auto-increment keys.
type Branch struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	APISetting *BranchAPISetting `gorm:"foreignKey:BranchID" json:"api_setting,omitempty"`
	Devices    []Device          `gorm:"foreignKey:BranchID" json:"devices,omitempty"`
}

// BranchAPISetting 分店的海康开放平台接入配置
// 每个分店至多关联一个站点（site_id/site_name）
type BranchAPISetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BranchID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"branch_id"`
	APIURL    string    `gorm:"type:varchar(255);not null" json:"api_url"`
	AppKey    string    `gorm:"type:varchar(128);not null" json:"app_key"`
	SecretKey string    `gorm:"type:varchar(128);not null" json:"-"`
	SiteID    string    `gorm:"type:varchar(64)" json:"site_id"`
	SiteName  string    `gorm:"type:varchar(100)" json:"site_name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
