package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvstore/muscle-garage-gym-management/models"
)

func TestUpsertMemberIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db, newTestConfig())

	require.NoError(t, svc.UpsertMember(&models.Member{
		MemberID:    "m-1",
		HikPersonID: "p-1",
		Name:        "张三",
		SyncStatus:  models.MemberSyncSynced,
	}))

	// 同一会员重复写入只保留一行，字段取最新值
	require.NoError(t, svc.UpsertMember(&models.Member{
		MemberID:    "m-1",
		HikPersonID: "p-2",
		Name:        "张三",
		Phone:       "13800000000",
		SyncStatus:  models.MemberSyncSynced,
	}))

	var members []models.Member
	require.NoError(t, db.Find(&members).Error)
	require.Len(t, members, 1)
	assert.Equal(t, "p-2", members[0].HikPersonID)
	assert.Equal(t, "13800000000", members[0].Phone)
}

func TestUpsertAccessPrivilegeUniquePerPersonDoor(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db, newTestConfig())

	require.NoError(t, svc.UpsertAccessPrivilege(&models.AccessPrivilege{
		PersonID: "p-1", DoorID: 1, DeviceSerial: "SN1", Status: "active",
	}))
	require.NoError(t, svc.UpsertAccessPrivilege(&models.AccessPrivilege{
		PersonID: "p-1", DoorID: 1, DeviceSerial: "SN1", ValidStart: "2026-01-01T00:00:00Z", Status: "active",
	}))
	require.NoError(t, svc.UpsertAccessPrivilege(&models.AccessPrivilege{
		PersonID: "p-1", DoorID: 2, DeviceSerial: "SN1", Status: "active",
	}))

	var privileges []models.AccessPrivilege
	require.NoError(t, db.Order("door_id").Find(&privileges).Error)
	require.Len(t, privileges, 2)
	assert.Equal(t, "2026-01-01T00:00:00Z", privileges[0].ValidStart)
	// 有效期为空表示不限时段
	assert.Empty(t, privileges[1].ValidStart)
}

func TestUpsertAPISettingAndSiteAssociation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db, newTestConfig())

	require.NoError(t, svc.UpsertAPISetting(&models.BranchAPISetting{
		BranchID: "branch-1",
		APIURL:   "https://api.hik.test",
		AppKey:   "key",
		SecretKey: "secret",
	}))

	require.NoError(t, svc.UpdateSiteAssociation("branch-1", "site-9", "总店"))

	var setting models.BranchAPISetting
	require.NoError(t, db.Where("branch_id = ?", "branch-1").First(&setting).Error)
	assert.Equal(t, "site-9", setting.SiteID)
	assert.Equal(t, "总店", setting.SiteName)

	// 配置重复写入不增加行数
	require.NoError(t, svc.UpsertAPISetting(&models.BranchAPISetting{
		BranchID: "branch-1",
		APIURL:   "https://api2.hik.test",
		AppKey:   "key2",
		SecretKey: "secret2",
	}))

	var count int64
	require.NoError(t, db.Model(&models.BranchAPISetting{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := NewSyncService(db, newTestConfig())

	require.NoError(t, svc.UpsertSubscription(&models.EventSubscription{
		BranchID: "branch-1", SubscriptionID: "sub-1", Topics: "acs.door.event", Status: "active",
	}))
	require.NoError(t, svc.UpsertSubscription(&models.EventSubscription{
		BranchID: "branch-1", SubscriptionID: "sub-2", Topics: "acs.door.event", Status: "active",
	}))

	var subs []models.EventSubscription
	require.NoError(t, db.Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-2", subs[0].SubscriptionID)
}
