package models

import "time"

// AccessPrivilege grants a Hikvision person access to one door of a device.
// (person_id, door_id) 唯一；有效期为空表示不限时段。
type AccessPrivilege struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	PersonID     string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_person_door" json:"person_id"`
	DoorID       int       `gorm:"not null;uniqueIndex:idx_person_door" json:"door_id"`
	DeviceSerial string    `gorm:"type:varchar(64);index" json:"device_serial"`
	BranchID     string    `gorm:"type:varchar(36);index" json:"branch_id"`
	ValidStart   string    `gorm:"type:varchar(32)" json:"valid_start"`
	ValidEnd     string    `gorm:"type:varchar(32)" json:"valid_end"`
	Status       string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
