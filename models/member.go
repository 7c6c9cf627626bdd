package models

import "time"

// MemberSyncStatus 会员同步状态
type MemberSyncStatus string

const (
	MemberSyncPending MemberSyncStatus = "pending"
	MemberSyncSynced  MemberSyncStatus = "synced"
	MemberSyncFailed  MemberSyncStatus = "failed"
)

// Member links a gym member to the person registered on the Hikvision side.
// member_id 是后台会员的本地ID，hik_person_id 是海康侧返回的人员ID。
type Member struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	MemberID    string           `gorm:"type:varchar(36);uniqueIndex;not null" json:"member_id"`
	HikPersonID string           `gorm:"type:varchar(64);index" json:"hik_person_id"`
	Name        string           `gorm:"type:varchar(100);not null" json:"name"`
	Gender      string           `gorm:"type:varchar(10)" json:"gender"`
	Phone       string           `gorm:"type:varchar(20)" json:"phone"`
	Email       string           `gorm:"type:varchar(100)" json:"email"`
	BranchID    string           `gorm:"type:varchar(36);index" json:"branch_id"`
	SyncStatus  MemberSyncStatus `gorm:"type:varchar(20);default:'pending'" json:"sync_status"`
	LastSyncAt  *time.Time       `json:"last_sync_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
