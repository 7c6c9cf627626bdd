package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alvstore/muscle-garage-gym-management/internal/error/code"
	"github.com/alvstore/muscle-garage-gym-management/models"
)

// fakeVendor 模拟海康开放平台
type fakeVendor struct {
	server *httptest.Server

	requestCount int64
	// 按路径覆盖响应；未设置时使用默认成功响应
	responses map[string]string
}

func newFakeVendor(t *testing.T) *fakeVendor {
	t.Helper()

	v := &fakeVendor{responses: map[string]string{}}
	v.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&v.requestCount, 1)
		w.Header().Set("Content-Type", "application/json")

		if body, ok := v.responses[r.URL.Path]; ok {
			w.Write([]byte(body))
			return
		}

		switch r.URL.Path {
		case "/api/hpcgw/v1/token/get":
			w.Write([]byte(`{"code":"0","msg":"ok","data":{"accessToken":"at-1","refreshToken":"rt-1","tokenType":"bearer","expireTime":4102444800}}`))
		case "/api/hpcgw/v1/site/search":
			w.Write([]byte(`{"code":"0","msg":"ok","data":{"list":[]}}`))
		case "/api/hpcgw/v1/person/add":
			w.Write([]byte(`{"code":"0","msg":"ok","data":{"personId":"hik-p-1"}}`))
		case "/api/hpcgw/v1/acs/privilege/config":
			w.Write([]byte(`{"code":"0","msg":"ok","data":{}}`))
		case "/api/hpcgw/v1/site/add":
			w.Write([]byte(`{"code":"0","msg":"ok","data":{"siteId":"site-1"}}`))
		case "/api/hpcgw/v1/device/status":
			w.Write([]byte(`{"code":"0","msg":"ok","data":{"status":"online"}}`))
		case "/api/hpcgw/v1/mq/subscribe":
			w.Write([]byte(`{"code":"0","msg":"ok","data":{"subscriptionId":"sub-1"}}`))
		default:
			w.Write([]byte(`{"code":"1","msg":"unknown path"}`))
		}
	}))
	t.Cleanup(v.server.Close)
	return v
}

func (v *fakeVendor) requests() int64 {
	return atomic.LoadInt64(&v.requestCount)
}

// newHikFixture 组装一套基于内存库的海康服务
func newHikFixture(t *testing.T) (*gorm.DB, InterfaceHikvisionService, *fakeVendor) {
	db := newTestDB(t)
	vendor := newFakeVendor(t)
	tokens := NewTokenService(db, newTestConfig(), NewRedisService(nil, nil))
	mirror := NewSyncService(db, newTestConfig())
	svc := NewHikvisionService(db, newTestConfig(), tokens, mirror)
	return db, svc, vendor
}

// seedBranch 写入分店配置，可选写入凭证
func seedBranch(t *testing.T, db *gorm.DB, branchID, apiURL string, withCredential bool) {
	t.Helper()

	require.NoError(t, db.Create(&models.BranchAPISetting{
		BranchID:  branchID,
		APIURL:    apiURL,
		AppKey:    "key",
		SecretKey: "secret",
	}).Error)

	if withCredential {
		require.NoError(t, db.Create(&models.HikCredential{
			BranchID:    branchID,
			AccessToken: "at-seed",
		}).Error)
	}
}

func TestAcquireTokenStoresCredentialAndPlaceholderSite(t *testing.T) {
	db, svc, vendor := newHikFixture(t)

	result, err := svc.AcquireToken(TokenInput{
		BranchID:  "branch-1",
		APIURL:    vendor.server.URL,
		AppKey:    "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	// 凭证只保留一行
	var count int64
	require.NoError(t, db.Model(&models.HikCredential{}).Where("branch_id = ?", "branch-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, "at-1", result.Credential.AccessToken)

	// 站点搜索为空时落到占位站点
	assert.Equal(t, "0", result.SiteID)
	assert.Equal(t, "Default Site", result.SiteName)

	var setting models.BranchAPISetting
	require.NoError(t, db.Where("branch_id = ?", "branch-1").First(&setting).Error)
	assert.Equal(t, "0", setting.SiteID)
}

func TestAcquireTokenTwiceKeepsLatest(t *testing.T) {
	db, svc, vendor := newHikFixture(t)

	_, err := svc.AcquireToken(TokenInput{BranchID: "branch-1", APIURL: vendor.server.URL, AppKey: "k", SecretKey: "s"})
	require.NoError(t, err)

	vendor.responses["/api/hpcgw/v1/token/get"] = `{"code":"0","msg":"ok","data":{"accessToken":"at-2","refreshToken":"rt-2","tokenType":"bearer"}}`
	_, err = svc.AcquireToken(TokenInput{BranchID: "branch-1", APIURL: vendor.server.URL, AppKey: "k", SecretKey: "s"})
	require.NoError(t, err)

	var creds []models.HikCredential
	require.NoError(t, db.Where("branch_id = ?", "branch-1").Find(&creds).Error)
	require.Len(t, creds, 1)
	assert.Equal(t, "at-2", creds[0].AccessToken)
}

func TestAcquireTokenResolvesFirstSite(t *testing.T) {
	_, svc, vendor := newHikFixture(t)
	vendor.responses["/api/hpcgw/v1/site/search"] = `{"code":"0","msg":"ok","data":{"list":[{"siteId":"site-7","siteName":"旗舰店"},{"siteId":"site-8","siteName":"分店"}]}}`

	result, err := svc.AcquireToken(TokenInput{BranchID: "branch-1", APIURL: vendor.server.URL, AppKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "site-7", result.SiteID)
	assert.Equal(t, "旗舰店", result.SiteName)
}

func TestAcquireTokenVendorError(t *testing.T) {
	_, svc, vendor := newHikFixture(t)
	vendor.responses["/api/hpcgw/v1/token/get"] = `{"code":"EVZ0012","msg":"bad key"}`

	_, err := svc.AcquireToken(TokenInput{BranchID: "branch-1", APIURL: vendor.server.URL, AppKey: "k", SecretKey: "s"})

	var vendorErr *code.VendorError
	require.ErrorAs(t, err, &vendorErr)
	assert.Equal(t, "EVZ0012", vendorErr.VendorCode)
	assert.Equal(t, "incorrect appKey or secretKey", vendorErr.Message)
	assert.Equal(t, code.StatusUnauthorized, vendorErr.Status)
}

func TestCheckDeviceStatusRequiresCredential(t *testing.T) {
	db, svc, vendor := newHikFixture(t)
	seedBranch(t, db, "branch-1", vendor.server.URL, false)

	before := vendor.requests()
	_, err := svc.CheckDeviceStatus("branch-1", "SN1")

	var vendorErr *code.VendorError
	require.ErrorAs(t, err, &vendorErr)
	assert.Equal(t, "no valid access token", vendorErr.Message)
	assert.Equal(t, code.StatusUnauthorized, vendorErr.Status)
	// 没有凭证时不应该发起任何出站调用
	assert.Equal(t, before, vendor.requests())
}

func TestCheckDeviceStatus(t *testing.T) {
	db, svc, vendor := newHikFixture(t)
	seedBranch(t, db, "branch-1", vendor.server.URL, true)

	status, err := svc.CheckDeviceStatus("branch-1", "SN1")
	require.NoError(t, err)
	assert.Equal(t, "online", status["status"])
}

func TestRegisterPersonMirrorsMember(t *testing.T) {
	db, svc, vendor := newHikFixture(t)
	seedBranch(t, db, "branch-1", vendor.server.URL, true)

	result, err := svc.RegisterPerson(PersonInput{
		BranchID: "branch-1",
		MemberID: "m-1",
		Name:     "李四",
		Phone:    "13800000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "hik-p-1", result.PersonID)

	var member models.Member
	require.NoError(t, db.Where("member_id = ?", "m-1").First(&member).Error)
	assert.Equal(t, "hik-p-1", member.HikPersonID)
	assert.Equal(t, models.MemberSyncSynced, member.SyncStatus)
	assert.NotNil(t, member.LastSyncAt)
}

func TestRegisterPersonInvalidBody(t *testing.T) {
	db, svc, vendor := newHikFixture(t)
	seedBranch(t, db, "branch-1", vendor.server.URL, true)
	vendor.responses["/api/hpcgw/v1/person/add"] = `<html>gateway error</html>`

	_, err := svc.RegisterPerson(PersonInput{BranchID: "branch-1", MemberID: "m-1", Name: "王五"})

	var vendorErr *code.VendorError
	require.ErrorAs(t, err, &vendorErr)
	assert.Equal(t, code.StatusBadGateway, vendorErr.Status)
	assert.Contains(t, vendorErr.Message, "invalid hikvision response body")
	assert.Contains(t, vendorErr.Message, "gateway error")
}

func TestTransportFault(t *testing.T) {
	db, svc, vendor := newHikFixture(t)
	seedBranch(t, db, "branch-1", vendor.server.URL, true)
	vendor.server.Close()

	_, err := svc.SearchSites("branch-1", "", "")

	var vendorErr *code.VendorError
	require.ErrorAs(t, err, &vendorErr)
	assert.Empty(t, vendorErr.VendorCode)
	assert.Equal(t, code.StatusBadGateway, vendorErr.Status)
}

// failingDoorMirror 在指定门上注入镜像写入失败
type failingDoorMirror struct {
	InterfaceSyncService
	failDoor int
	attempts []int
}

func (m *failingDoorMirror) UpsertAccessPrivilege(privilege *models.AccessPrivilege) error {
	m.attempts = append(m.attempts, privilege.DoorID)
	if privilege.DoorID == m.failDoor {
		return errors.New("injected mirror failure")
	}
	return m.InterfaceSyncService.UpsertAccessPrivilege(privilege)
}

func TestAssignAccessPrivilegesMirrorsEachDoor(t *testing.T) {
	db := newTestDB(t)
	vendor := newFakeVendor(t)
	tokens := NewTokenService(db, newTestConfig(), NewRedisService(nil, nil))
	mirror := NewSyncService(db, newTestConfig())
	svc := NewHikvisionService(db, newTestConfig(), tokens, mirror)

	seedBranch(t, db, "branch-1", vendor.server.URL, true)
	require.NoError(t, db.Create(&models.Device{
		Name: "前门", SerialNumber: "SN1", BranchID: "branch-1", DoorCount: 3,
	}).Error)

	result, err := svc.AssignAccessPrivileges(PrivilegeInput{
		DeviceSerial: "SN1",
		PersonID:     "p-1",
		DoorList:     []int{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.DoorsConfigured)

	var count int64
	require.NoError(t, db.Model(&models.AccessPrivilege{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestAssignAccessPrivilegesPartialMirrorFailure(t *testing.T) {
	db := newTestDB(t)
	vendor := newFakeVendor(t)
	tokens := NewTokenService(db, newTestConfig(), NewRedisService(nil, nil))
	mirror := &failingDoorMirror{
		InterfaceSyncService: NewSyncService(db, newTestConfig()),
		failDoor:             2,
	}
	svc := NewHikvisionService(db, newTestConfig(), tokens, mirror)

	seedBranch(t, db, "branch-1", vendor.server.URL, true)
	require.NoError(t, db.Create(&models.Device{
		Name: "前门", SerialNumber: "SN1", BranchID: "branch-1", DoorCount: 3,
	}).Error)

	// 其中一个门的镜像失败不影响整体成功，海康侧结果为准
	result, err := svc.AssignAccessPrivileges(PrivilegeInput{
		DeviceSerial: "SN1",
		PersonID:     "p-1",
		DoorList:     []int{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.DoorsConfigured)

	// 每个门都被尝试过
	assert.Equal(t, []int{1, 2, 3}, mirror.attempts)

	// 只有失败的那个门没有落库
	var doors []int
	require.NoError(t, db.Model(&models.AccessPrivilege{}).Order("door_id").Pluck("door_id", &doors).Error)
	assert.Equal(t, []int{1, 3}, doors)
}

func TestAssignAccessPrivilegesUnknownDevice(t *testing.T) {
	_, svc, _ := newHikFixture(t)

	_, err := svc.AssignAccessPrivileges(PrivilegeInput{
		DeviceSerial: "SN-missing",
		PersonID:     "p-1",
		DoorList:     []int{1},
	})

	var vendorErr *code.VendorError
	require.ErrorAs(t, err, &vendorErr)
	assert.Equal(t, code.StatusNotFound, vendorErr.Status)
}

func TestCreateSiteUpdatesAssociation(t *testing.T) {
	db, svc, vendor := newHikFixture(t)
	seedBranch(t, db, "branch-1", vendor.server.URL, true)

	site, err := svc.CreateSite("branch-1", "新站点")
	require.NoError(t, err)
	assert.Equal(t, "site-1", site.ID)

	var setting models.BranchAPISetting
	require.NoError(t, db.Where("branch_id = ?", "branch-1").First(&setting).Error)
	assert.Equal(t, "site-1", setting.SiteID)
	assert.Equal(t, "新站点", setting.SiteName)
}

func TestSubscribeToEventsPersistsSubscription(t *testing.T) {
	db, svc, vendor := newHikFixture(t)
	seedBranch(t, db, "branch-1", vendor.server.URL, true)

	result, err := svc.SubscribeToEvents("branch-1")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", result.SubscriptionID)

	var sub models.EventSubscription
	require.NoError(t, db.Where("branch_id = ?", "branch-1").First(&sub).Error)
	assert.Equal(t, "sub-1", sub.SubscriptionID)
	assert.Equal(t, "acs.door.event", sub.Topics)
}

func TestBranchNotConfigured(t *testing.T) {
	_, svc, _ := newHikFixture(t)

	_, err := svc.SearchSites("branch-none", "", "")

	var vendorErr *code.VendorError
	require.ErrorAs(t, err, &vendorErr)
	assert.Equal(t, code.StatusBadRequest, vendorErr.Status)
}

// 确保 data 字段缺失时设备状态返回空结果而不是崩溃
func TestCheckDeviceStatusEmptyData(t *testing.T) {
	db, svc, vendor := newHikFixture(t)
	seedBranch(t, db, "branch-1", vendor.server.URL, true)
	vendor.responses["/api/hpcgw/v1/device/status"] = `{"code":"0","msg":"ok"}`

	status, err := svc.CheckDeviceStatus("branch-1", "SN1")
	require.NoError(t, err)
	assert.Empty(t, status)
}
