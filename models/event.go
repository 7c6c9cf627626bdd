package models

import "time"

// AccessEvent mirrors an access-control event pushed by the Hikvision platform
// (door open, alarm, etc). Append-only; listed by event_time descending.
// event_id 唯一，重复推送的同一事件只保留一行。
type AccessEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"event_id"`
	EventType    string    `gorm:"type:varchar(64);not null" json:"event_type"`
	EventTime    time.Time `gorm:"index;not null" json:"event_time"`
	DoorID       string    `gorm:"type:varchar(32)" json:"door_id"`
	DoorName     string    `gorm:"type:varchar(100)" json:"door_name"`
	PersonID     string    `gorm:"type:varchar(64);index" json:"person_id"`
	PersonName   string    `gorm:"type:varchar(100)" json:"person_name"`
	DeviceSerial string    `gorm:"type:varchar(64)" json:"device_serial"`
	DeviceName   string    `gorm:"type:varchar(100)" json:"device_name"`
	BranchID     string    `gorm:"type:varchar(36);index" json:"branch_id"`
	Status       string    `gorm:"type:varchar(20);default:'received'" json:"status"`
	RawPayload   string    `gorm:"type:text" json:"raw_payload,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventSubscription 分店的海康事件订阅记录，每个分店至多一条
type EventSubscription struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BranchID       string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"branch_id"`
	SubscriptionID string    `gorm:"type:varchar(64)" json:"subscription_id"`
	Topics         string    `gorm:"type:varchar(255)" json:"topics"`
	Status         string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
