package models

import "time"

// DeviceStatus represents the status of a door access device
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
	DeviceStatusFault   DeviceStatus = "fault"
)

// Device represents a Hikvision access-control device installed at a branch
type Device struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:varchar(50);not null" json:"name"`
	SerialNumber string       `gorm:"type:varchar(64);unique;not null" json:"serial_number"`
	BranchID     string       `gorm:"type:varchar(36);index;not null" json:"branch_id"`
	Location     string       `gorm:"type:varchar(100)" json:"location"`
	DoorCount    int          `gorm:"default:1" json:"door_count"`
	Status       DeviceStatus `gorm:"type:varchar(20);default:'offline'" json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
