package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gorm.io/gorm"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/internal/error/code"
	"github.com/alvstore/muscle-garage-gym-management/models"
)

// 海康开放平台接口路径
const (
	hikPathTokenGet        = "/api/hpcgw/v1/token/get"
	hikPathDeviceStatus    = "/api/hpcgw/v1/device/status"
	hikPathPersonAdd       = "/api/hpcgw/v1/person/add"
	hikPathPrivilegeConfig = "/api/hpcgw/v1/acs/privilege/config"
	hikPathSiteAdd         = "/api/hpcgw/v1/site/add"
	hikPathSiteSearch      = "/api/hpcgw/v1/site/search"
	hikPathMQSubscribe     = "/api/hpcgw/v1/mq/subscribe"
)

// hikDoorEventTopic 门禁事件订阅主题
const hikDoorEventTopic = "acs.door.event"

// 站点解析失败或为空时使用的占位站点
const (
	placeholderSiteID   = "0"
	placeholderSiteName = "Default Site"
)

// TokenInput 获取访问令牌的入参
type TokenInput struct {
	BranchID  string
	APIURL    string
	AppKey    string
	SecretKey string
}

// TokenResult 获取访问令牌的结果：凭证加上解析出的站点
type TokenResult struct {
	Credential *models.HikCredential `json:"credential"`
	SiteID     string                `json:"site_id"`
	SiteName   string                `json:"site_name"`
}

// PersonInput 注册人员的入参，Name 为必填
type PersonInput struct {
	BranchID string
	MemberID string
	Name     string
	Gender   string
	Phone    string
	Email    string
	FaceData string // base64 人脸图片，可选
}

// PersonResult 注册人员的结果
type PersonResult struct {
	PersonID string `json:"person_id"`
}

// PrivilegeInput 下发门禁权限的入参
type PrivilegeInput struct {
	DeviceSerial string
	PersonID     string
	DoorList     []int
	ValidStart   string
	ValidEnd     string
}

// PrivilegeResult 下发门禁权限的结果
type PrivilegeResult struct {
	DeviceSerial    string `json:"device_serial"`
	PersonID        string `json:"person_id"`
	DoorsConfigured int    `json:"doors_configured"`
}

// Site 海康侧站点
type Site struct {
	ID   string `json:"siteId"`
	Name string `json:"siteName"`
}

// SubscriptionResult 事件订阅结果
type SubscriptionResult struct {
	SubscriptionID string `json:"subscription_id"`
}

// InterfaceHikvisionService defines the vendor client interface.
// 所有可分类的失败（海康错误码、未认证、配置缺失、传输故障）都以
// *code.VendorError 返回；其余错误视为未分类故障，由路由层转成500。
type InterfaceHikvisionService interface {
	AcquireToken(input TokenInput) (*TokenResult, error)
	CheckDeviceStatus(branchID, deviceSerial string) (map[string]interface{}, error)
	RegisterPerson(input PersonInput) (*PersonResult, error)
	AssignAccessPrivileges(input PrivilegeInput) (*PrivilegeResult, error)
	CreateSite(branchID, siteName string) (*Site, error)
	SearchSites(branchID, siteName, siteID string) ([]Site, error)
	SubscribeToEvents(branchID string) (*SubscriptionResult, error)
}

// HikvisionService 封装对海康开放平台的出站调用
type HikvisionService struct {
	DB     *gorm.DB
	Config *config.Config
	Tokens InterfaceTokenService
	Mirror InterfaceSyncService
	Client *http.Client
}

// NewHikvisionService 创建一个新的海康服务
func NewHikvisionService(db *gorm.DB, cfg *config.Config, tokens InterfaceTokenService, mirror InterfaceSyncService) InterfaceHikvisionService {
	timeout := 15 * time.Second
	if cfg != nil && cfg.HikTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.HikTimeoutSeconds) * time.Second
	}

	return &HikvisionService{
		DB:     db,
		Config: cfg,
		Tokens: tokens,
		Mirror: mirror,
		Client: &http.Client{Timeout: timeout},
	}
}

// hikResponse 海康开放平台的统一响应体
type hikResponse struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// truncateBody 截取响应体片段用于诊断
func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// doRequest 发送请求并按统一规则分类结果：
// 传输失败/非2xx/解析失败 -> VendorFault；code != "0" -> 按错误码表映射；
// 成功返回 data 字段原文。
func (s *HikvisionService) doRequest(req *http.Request) (json.RawMessage, error) {
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, code.NewVendorFault(fmt.Sprintf("hikvision request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, code.NewVendorFault(fmt.Sprintf("reading hikvision response failed: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, code.NewVendorFault(fmt.Sprintf("hikvision API returned status %d: %s", resp.StatusCode, truncateBody(body)))
	}

	var envelope hikResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, code.NewVendorFault("invalid hikvision response body: " + truncateBody(body))
	}

	if envelope.Code != "0" {
		return nil, code.NewVendorError(envelope.Code)
	}

	return envelope.Data, nil
}

// post 发送带可选 bearer 令牌的 POST 请求
func (s *HikvisionService) post(baseURL, path, token string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.doRequest(req)
}

// get 发送带 bearer 令牌的 GET 请求
func (s *HikvisionService) get(baseURL, path, token string, query url.Values) (json.RawMessage, error) {
	fullURL := baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.doRequest(req)
}

// resolveSettings 查询分店的接入配置
func (s *HikvisionService) resolveSettings(branchID string) (*models.BranchAPISetting, error) {
	var setting models.BranchAPISetting
	err := s.DB.Where("branch_id = ?", branchID).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &code.VendorError{
				Message: code.GetMessage(code.ErrBranchNotConfigured),
				Status:  code.GetStatus(code.ErrBranchNotConfigured),
			}
		}
		return nil, err
	}
	return &setting, nil
}

// resolveCredential 查询分店当前凭证，没有则返回固定的未认证失败
func (s *HikvisionService) resolveCredential(branchID string) (*models.HikCredential, error) {
	cred, err := s.Tokens.GetLatestCredential(branchID)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			return nil, code.NewUnauthenticated()
		}
		return nil, err
	}
	return cred, nil
}

// baseURL 选择调用地址：凭证里的专属域名优先，其次是分店配置的地址
func (s *HikvisionService) baseURL(setting *models.BranchAPISetting, cred *models.HikCredential) string {
	if cred != nil && cred.AreaDomain != "" {
		return cred.AreaDomain
	}
	if setting != nil && setting.APIURL != "" {
		return setting.APIURL
	}
	return s.Config.HikAPIURL
}

// AcquireToken 获取访问令牌并持久化，然后解析分店关联的站点。
// 站点搜索为空或失败时使用占位站点。
func (s *HikvisionService) AcquireToken(input TokenInput) (*TokenResult, error) {
	apiURL := input.APIURL
	if apiURL == "" {
		apiURL = s.Config.HikAPIURL
	}

	data, err := s.post(apiURL, hikPathTokenGet, "", map[string]string{
		"appKey":    input.AppKey,
		"secretKey": input.SecretKey,
	})
	if err != nil {
		return nil, err
	}

	var tokenData struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		TokenType    string `json:"tokenType"`
		ExpireTime   int64  `json:"expireTime"`
		AreaDomain   string `json:"areaDomain"`
	}
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return nil, code.NewVendorFault("invalid hikvision response body: " + truncateBody(data))
	}

	cred := &models.HikCredential{
		BranchID:     input.BranchID,
		AccessToken:  tokenData.AccessToken,
		RefreshToken: tokenData.RefreshToken,
		TokenType:    tokenData.TokenType,
		AreaDomain:   tokenData.AreaDomain,
	}
	if tokenData.ExpireTime > 0 {
		expireAt := time.Unix(tokenData.ExpireTime, 0)
		cred.ExpireAt = &expireAt
	}

	// 凭证必须落库，失败作为未分类故障上抛
	if err := s.Tokens.SaveCredential(cred); err != nil {
		return nil, fmt.Errorf("保存访问凭证失败: %w", err)
	}

	// 记录分店接入配置，镜像写入失败只记日志
	if err := s.Mirror.UpsertAPISetting(&models.BranchAPISetting{
		BranchID:  input.BranchID,
		APIURL:    apiURL,
		AppKey:    input.AppKey,
		SecretKey: input.SecretKey,
	}); err != nil {
		config.Warning("写入分店接入配置失败: %v", err)
	}

	// 解析分店关联的站点：取搜索结果的第一个，为空则用占位站点
	siteID, siteName := placeholderSiteID, placeholderSiteName
	sites, err := s.searchSitesWithCredential(apiURL, cred, "", "")
	if err != nil {
		config.Warning("获取令牌后搜索站点失败: %v", err)
	} else if len(sites) > 0 {
		siteID, siteName = sites[0].ID, sites[0].Name
	}

	if err := s.Mirror.UpdateSiteAssociation(input.BranchID, siteID, siteName); err != nil {
		config.Warning("更新分店站点关联失败: %v", err)
	}

	return &TokenResult{
		Credential: cred,
		SiteID:     siteID,
		SiteName:   siteName,
	}, nil
}

// CheckDeviceStatus 查询设备在海康侧的状态
func (s *HikvisionService) CheckDeviceStatus(branchID, deviceSerial string) (map[string]interface{}, error) {
	setting, err := s.resolveSettings(branchID)
	if err != nil {
		return nil, err
	}
	cred, err := s.resolveCredential(branchID)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("deviceSerial", deviceSerial)

	data, err := s.get(s.baseURL(setting, cred), hikPathDeviceStatus, cred.AccessToken, query)
	if err != nil {
		return nil, err
	}

	status := map[string]interface{}{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &status); err != nil {
			return nil, code.NewVendorFault("invalid hikvision response body: " + truncateBody(data))
		}
	}
	return status, nil
}

// RegisterPerson 在海康侧注册人员，成功后镜像会员映射
func (s *HikvisionService) RegisterPerson(input PersonInput) (*PersonResult, error) {
	setting, err := s.resolveSettings(input.BranchID)
	if err != nil {
		return nil, err
	}
	cred, err := s.resolveCredential(input.BranchID)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"name": input.Name,
	}
	if input.Gender != "" {
		payload["gender"] = input.Gender
	}
	if input.Phone != "" {
		payload["phoneNum"] = input.Phone
	}
	if input.Email != "" {
		payload["email"] = input.Email
	}
	if input.FaceData != "" {
		payload["faces"] = []map[string]string{{"faceData": input.FaceData}}
	}

	data, err := s.post(s.baseURL(setting, cred), hikPathPersonAdd, cred.AccessToken, payload)
	if err != nil {
		return nil, err
	}

	var personData struct {
		PersonID string `json:"personId"`
	}
	if err := json.Unmarshal(data, &personData); err != nil {
		return nil, code.NewVendorFault("invalid hikvision response body: " + truncateBody(data))
	}

	// 镜像会员映射，失败只记日志，不影响已经成功的注册
	now := time.Now()
	if err := s.Mirror.UpsertMember(&models.Member{
		MemberID:    input.MemberID,
		HikPersonID: personData.PersonID,
		Name:        input.Name,
		Gender:      input.Gender,
		Phone:       input.Phone,
		Email:       input.Email,
		BranchID:    input.BranchID,
		SyncStatus:  models.MemberSyncSynced,
		LastSyncAt:  &now,
	}); err != nil {
		config.Warning("镜像会员映射失败 member_id=%s: %v", input.MemberID, err)
	}

	return &PersonResult{PersonID: personData.PersonID}, nil
}

// AssignAccessPrivileges 为人员下发设备门禁权限。
// 先通过设备序列号找到所属分店，再取该分店的凭证和地址。
// 成功后逐个门做本地镜像，单个门的镜像失败只记日志。
func (s *HikvisionService) AssignAccessPrivileges(input PrivilegeInput) (*PrivilegeResult, error) {
	var device models.Device
	if err := s.DB.Where("serial_number = ?", input.DeviceSerial).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &code.VendorError{
				Message: code.GetMessage(code.ErrDeviceNotFound),
				Status:  code.GetStatus(code.ErrDeviceNotFound),
			}
		}
		return nil, err
	}

	setting, err := s.resolveSettings(device.BranchID)
	if err != nil {
		return nil, err
	}
	cred, err := s.resolveCredential(device.BranchID)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"deviceSerial": input.DeviceSerial,
		"personId":     input.PersonID,
		"doorList":     input.DoorList,
	}
	if input.ValidStart != "" {
		payload["validStartTime"] = input.ValidStart
	}
	if input.ValidEnd != "" {
		payload["validEndTime"] = input.ValidEnd
	}

	if _, err := s.post(s.baseURL(setting, cred), hikPathPrivilegeConfig, cred.AccessToken, payload); err != nil {
		return nil, err
	}

	// 每个门独立镜像，互不回滚
	for _, doorID := range input.DoorList {
		if err := s.Mirror.UpsertAccessPrivilege(&models.AccessPrivilege{
			PersonID:     input.PersonID,
			DoorID:       doorID,
			DeviceSerial: input.DeviceSerial,
			BranchID:     device.BranchID,
			ValidStart:   input.ValidStart,
			ValidEnd:     input.ValidEnd,
			Status:       "active",
		}); err != nil {
			config.Warning("镜像门禁权限失败 person=%s door=%d: %v", input.PersonID, doorID, err)
		}
	}

	return &PrivilegeResult{
		DeviceSerial:    input.DeviceSerial,
		PersonID:        input.PersonID,
		DoorsConfigured: len(input.DoorList),
	}, nil
}

// CreateSite 在海康侧创建站点并更新分店的站点关联
func (s *HikvisionService) CreateSite(branchID, siteName string) (*Site, error) {
	setting, err := s.resolveSettings(branchID)
	if err != nil {
		return nil, err
	}
	cred, err := s.resolveCredential(branchID)
	if err != nil {
		return nil, err
	}

	data, err := s.post(s.baseURL(setting, cred), hikPathSiteAdd, cred.AccessToken, map[string]string{
		"siteName": siteName,
	})
	if err != nil {
		return nil, err
	}

	var siteData struct {
		SiteID string `json:"siteId"`
	}
	if err := json.Unmarshal(data, &siteData); err != nil {
		return nil, code.NewVendorFault("invalid hikvision response body: " + truncateBody(data))
	}

	if err := s.Mirror.UpdateSiteAssociation(branchID, siteData.SiteID, siteName); err != nil {
		config.Warning("更新分店站点关联失败: %v", err)
	}

	return &Site{ID: siteData.SiteID, Name: siteName}, nil
}

// SearchSites 搜索凭证可见范围内的站点，空条件返回全部
func (s *HikvisionService) SearchSites(branchID, siteName, siteID string) ([]Site, error) {
	setting, err := s.resolveSettings(branchID)
	if err != nil {
		return nil, err
	}
	cred, err := s.resolveCredential(branchID)
	if err != nil {
		return nil, err
	}

	return s.searchSitesWithCredential(s.baseURL(setting, cred), cred, siteName, siteID)
}

// searchSitesWithCredential 使用给定凭证搜索站点，供 AcquireToken 复用
func (s *HikvisionService) searchSitesWithCredential(baseURL string, cred *models.HikCredential, siteName, siteID string) ([]Site, error) {
	if cred.AreaDomain != "" {
		baseURL = cred.AreaDomain
	}

	payload := map[string]string{}
	if siteName != "" {
		payload["siteName"] = siteName
	}
	if siteID != "" {
		payload["siteId"] = siteID
	}

	data, err := s.post(baseURL, hikPathSiteSearch, cred.AccessToken, payload)
	if err != nil {
		return nil, err
	}

	var searchData struct {
		List []Site `json:"list"`
	}
	if err := json.Unmarshal(data, &searchData); err != nil {
		return nil, code.NewVendorFault("invalid hikvision response body: " + truncateBody(data))
	}
	return searchData.List, nil
}

// SubscribeToEvents 订阅门禁事件主题并记录订阅状态
func (s *HikvisionService) SubscribeToEvents(branchID string) (*SubscriptionResult, error) {
	setting, err := s.resolveSettings(branchID)
	if err != nil {
		return nil, err
	}
	cred, err := s.resolveCredential(branchID)
	if err != nil {
		return nil, err
	}

	data, err := s.post(s.baseURL(setting, cred), hikPathMQSubscribe, cred.AccessToken, map[string]interface{}{
		"topics": []string{hikDoorEventTopic},
	})
	if err != nil {
		return nil, err
	}

	var subData struct {
		SubscriptionID string `json:"subscriptionId"`
	}
	if err := json.Unmarshal(data, &subData); err != nil {
		return nil, code.NewVendorFault("invalid hikvision response body: " + truncateBody(data))
	}

	if err := s.Mirror.UpsertSubscription(&models.EventSubscription{
		BranchID:       branchID,
		SubscriptionID: subData.SubscriptionID,
		Topics:         hikDoorEventTopic,
		Status:         "active",
	}); err != nil {
		config.Warning("记录事件订阅失败: %v", err)
	}

	return &SubscriptionResult{SubscriptionID: subData.SubscriptionID}, nil
}
