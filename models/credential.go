package models

import "time"

// HikCredential stores the most recent Hikvision access token for a branch.
// 每个分店只保留一行最新凭证，以 branch_id 作为唯一键做覆盖写入。
type HikCredential struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BranchID     string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"branch_id"`
	AccessToken  string     `gorm:"type:text;not null" json:"access_token"`
	RefreshToken string     `gorm:"type:text" json:"refresh_token"`
	TokenType    string     `gorm:"type:varchar(32);default:'bearer'" json:"token_type"`
	ExpireAt     *time.Time `json:"expire_at"`
	AreaDomain   string     `gorm:"type:varchar(255)" json:"area_domain"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
