package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/models"
)

// ErrInvalidEvent 回调缺少必要字段或时间无法解析
var ErrInvalidEvent = errors.New("invalid event payload")

// 事件列表的默认与最大条数
const (
	defaultEventLimit = 50
	maxEventLimit     = 200
)

// InterfaceEventService defines webhook ingestion and local event queries
type InterfaceEventService interface {
	RecordIncomingEvent(payload []byte) (*models.AccessEvent, bool, error)
	ListEvents(branchID, personID string, limit int) ([]models.AccessEvent, error)
}

// EventService 处理海康事件回调的入库和本地查询
type EventService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewEventService 创建一个新的事件服务
func NewEventService(db *gorm.DB, cfg *config.Config) InterfaceEventService {
	return &EventService{
		DB:     db,
		Config: cfg,
	}
}

// eventWebhookPayload 海康事件推送的回调体
type eventWebhookPayload struct {
	EventID      string          `json:"eventId"`
	EventType    string          `json:"eventType"`
	EventTime    json.RawMessage `json:"eventTime"`
	DoorID       string          `json:"doorId"`
	DoorName     string          `json:"doorName"`
	PersonID     string          `json:"personId"`
	PersonName   string          `json:"personName"`
	DeviceSerial string          `json:"deviceSerial"`
	DeviceName   string          `json:"deviceName"`
	BranchID     string          `json:"branchId"`
	Status       string          `json:"status"`
}

// parseEventTime 解析回调里的事件时间。
// 支持 RFC3339、"2006-01-02 15:04:05" 以及毫秒时间戳。
func parseEventTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, ErrInvalidEvent
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return time.Time{}, ErrInvalidEvent
		}
		if t, err := time.Parse(time.RFC3339, text); err == nil {
			return t, nil
		}
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", text, time.Local); err == nil {
			return t, nil
		}
		if millis, err := strconv.ParseInt(text, 10, 64); err == nil {
			return time.UnixMilli(millis), nil
		}
		return time.Time{}, ErrInvalidEvent
	}

	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		return time.UnixMilli(millis), nil
	}

	return time.Time{}, ErrInvalidEvent
}

// RecordIncomingEvent 校验并入库一条事件。
// 返回值第二项表示是否新写入：同一 event_id 重复推送时为 false。
func (s *EventService) RecordIncomingEvent(payload []byte) (*models.AccessEvent, bool, error) {
	var webhook eventWebhookPayload
	if err := json.Unmarshal(payload, &webhook); err != nil {
		return nil, false, ErrInvalidEvent
	}

	if webhook.EventType == "" {
		return nil, false, ErrInvalidEvent
	}
	eventTime, err := parseEventTime(webhook.EventTime)
	if err != nil {
		return nil, false, ErrInvalidEvent
	}

	// 海康不保证推送带事件ID，缺失时生成一个，保证唯一键总是可用
	eventID := webhook.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	status := webhook.Status
	if status == "" {
		status = "received"
	}

	event := &models.AccessEvent{
		EventID:      eventID,
		EventType:    webhook.EventType,
		EventTime:    eventTime,
		DoorID:       webhook.DoorID,
		DoorName:     webhook.DoorName,
		PersonID:     webhook.PersonID,
		PersonName:   webhook.PersonName,
		DeviceSerial: webhook.DeviceSerial,
		DeviceName:   webhook.DeviceName,
		BranchID:     webhook.BranchID,
		Status:       status,
		RawPayload:   string(payload),
	}

	// 按 event_id 去重：重复推送直接忽略
	result := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if result.RowsAffected == 0 {
		config.Info("忽略重复推送的事件 event_id=%s", eventID)
		return event, false, nil
	}

	return event, true, nil
}

// ListEvents 查询本地镜像的事件，按事件时间倒序
func (s *EventService) ListEvents(branchID, personID string, limit int) ([]models.AccessEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	query := s.DB.Model(&models.AccessEvent{}).Order("event_time DESC").Limit(limit)
	if branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if personID != "" {
		query = query.Where("person_id = ?", personID)
	}

	var events []models.AccessEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
