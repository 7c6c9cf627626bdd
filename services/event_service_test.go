package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvstore/muscle-garage-gym-management/models"
)

func TestRecordIncomingEventValidation(t *testing.T) {
	svc := NewEventService(newTestDB(t), newTestConfig())

	cases := []string{
		`not json`,
		`{}`,
		`{"eventType":"door_open"}`,
		`{"eventTime":"2026-08-30T10:00:00Z"}`,
		`{"eventType":"door_open","eventTime":"yesterday"}`,
	}
	for _, payload := range cases {
		_, _, err := svc.RecordIncomingEvent([]byte(payload))
		assert.ErrorIs(t, err, ErrInvalidEvent, "payload: %s", payload)
	}
}

func TestRecordIncomingEventTimeFormats(t *testing.T) {
	svc := NewEventService(newTestDB(t), newTestConfig())

	payloads := []string{
		`{"eventId":"e-1","eventType":"door_open","eventTime":"2026-08-30T10:00:00Z"}`,
		`{"eventId":"e-2","eventType":"door_open","eventTime":"2026-08-30 10:00:00"}`,
		`{"eventId":"e-3","eventType":"door_open","eventTime":1787479200000}`,
	}
	for _, payload := range payloads {
		_, created, err := svc.RecordIncomingEvent([]byte(payload))
		require.NoError(t, err, "payload: %s", payload)
		assert.True(t, created)
	}
}

func TestRecordIncomingEventDeduplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, newTestConfig())

	payload := []byte(`{"eventId":"e-1","eventType":"door_open","eventTime":"2026-08-30T10:00:00Z","personId":"p-1"}`)

	_, created, err := svc.RecordIncomingEvent(payload)
	require.NoError(t, err)
	assert.True(t, created)

	// 重复推送同一事件只保留一行
	_, created, err = svc.RecordIncomingEvent(payload)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&models.AccessEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordIncomingEventGeneratesID(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, newTestConfig())

	event, created, err := svc.RecordIncomingEvent([]byte(`{"eventType":"door_open","eventTime":"2026-08-30T10:00:00Z"}`))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, event.EventID)
}

func TestListEventsOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewEventService(db, newTestConfig())

	for i := 0; i < 5; i++ {
		payload := fmt.Sprintf(
			`{"eventId":"e-%d","eventType":"door_open","eventTime":"2026-08-30T10:0%d:00Z","branchId":"branch-1","personId":"p-%d"}`,
			i, i, i%2,
		)
		_, _, err := svc.RecordIncomingEvent([]byte(payload))
		require.NoError(t, err)
	}

	// 按事件时间倒序
	events, err := svc.ListEvents("branch-1", "", 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "e-4", events[0].EventID)
	assert.Equal(t, "e-3", events[1].EventID)
	assert.Equal(t, "e-2", events[2].EventID)

	// 按人员过滤
	events, err = svc.ListEvents("branch-1", "p-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, event := range events {
		assert.Equal(t, "p-1", event.PersonID)
	}

	// 其他分店查不到
	events, err = svc.ListEvents("branch-2", "", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}
