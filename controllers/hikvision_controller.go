package controllers

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/internal/error/code"
	"github.com/alvstore/muscle-garage-gym-management/internal/error/response"
	"github.com/alvstore/muscle-garage-gym-management/services"
	"github.com/alvstore/muscle-garage-gym-management/services/container"
)

// 代理端点支持的操作
const (
	ActionGetToken               = "getToken"
	ActionTestDevice             = "testDevice"
	ActionRegisterPerson         = "registerPerson"
	ActionAssignAccessPrivileges = "assignAccessPrivileges"
	ActionCreateSite             = "createSite"
	ActionSearchSites            = "searchSites"
)

// InterfaceHikvisionController 定义海康代理控制器接口
type InterfaceHikvisionController interface {
	Proxy()
}

// HikvisionController 处理发往海康开放平台的代理请求
type HikvisionController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHikvisionController 创建一个新的海康代理控制器
func NewHikvisionController(ctx *gin.Context, container *container.ServiceContainer) *HikvisionController {
	return &HikvisionController{
		Ctx:       ctx,
		Container: container,
	}
}

// ProxyRequest 代理请求体：action 选择操作，其余字段按操作取用
type ProxyRequest struct {
	Action string `json:"action"`

	// getToken
	APIURL    string `json:"apiUrl"`
	AppKey    string `json:"appKey"`
	SecretKey string `json:"secretKey"`
	BranchID  string `json:"branchId"`

	// testDevice / assignAccessPrivileges
	DeviceID string `json:"deviceId"`

	// registerPerson
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	FaceData string `json:"faceData"`

	// assignAccessPrivileges
	PersonID   string `json:"personId"`
	DoorList   []int  `json:"doorList"`
	ValidStart string `json:"validStartTime"`
	ValidEnd   string `json:"validEndTime"`

	// createSite / searchSites
	SiteName string `json:"siteName"`
	SiteID   string `json:"siteId"`
}

// HandleHikvisionFunc 返回处理海康代理请求的Gin处理函数
func HandleHikvisionFunc(container *container.ServiceContainer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHikvisionController(ctx, container)
		controller.Proxy()
	}
}

// Proxy 海康代理入口
// @Summary 海康开放平台代理
// @Description 按请求体中的 action 字段分发到对应的海康操作
// @Tags hikvision
// @Accept json
// @Produce json
// @Param body body ProxyRequest true "代理请求"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /hikvision/proxy [post]
func (c *HikvisionController) Proxy() {
	// 最外层兜底：任何未分类的故障都转成统一的500响应，
	// 请求永远不会没有应答地结束
	defer func() {
		if r := recover(); r != nil {
			cfg := c.Container.GetConfig()
			config.Error("海康代理发生未处理故障: %v\n%s", r, debug.Stack())

			message := code.GetMessage(code.ErrUnknown)
			if cfg != nil && !cfg.IsProduction() {
				message = fmt.Sprintf("%v", r)
			}
			response.ServerError(c.Ctx, message)
		}
	}()

	var req ProxyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "请求体必须是合法的JSON")
		return
	}

	switch req.Action {
	case ActionGetToken:
		c.getToken(&req)
	case ActionTestDevice:
		c.testDevice(&req)
	case ActionRegisterPerson:
		c.registerPerson(&req)
	case ActionAssignAccessPrivileges:
		c.assignAccessPrivileges(&req)
	case ActionCreateSite:
		c.createSite(&req)
	case ActionSearchSites:
		c.searchSites(&req)
	default:
		response.Fail(c.Ctx, code.ErrInvalidAction)
	}
}

// hikvisionService 从容器中取出海康服务
func (c *HikvisionController) hikvisionService() services.InterfaceHikvisionService {
	return c.Container.GetService("hikvision").(services.InterfaceHikvisionService)
}

// renderFailure 渲染服务层返回的失败：
// 可分类失败按其状态码渲染，未分类故障交给外层兜底
func (c *HikvisionController) renderFailure(err error) {
	var vendorErr *code.VendorError
	if errors.As(err, &vendorErr) {
		response.FailWithVendorError(c.Ctx, vendorErr)
		return
	}
	panic(err)
}

// getToken 获取访问令牌
func (c *HikvisionController) getToken(req *ProxyRequest) {
	if req.APIURL == "" || req.AppKey == "" || req.SecretKey == "" || req.BranchID == "" {
		response.ParamError(c.Ctx, "apiUrl, appKey, secretKey and branchId are required")
		return
	}

	result, err := c.hikvisionService().AcquireToken(services.TokenInput{
		BranchID:  req.BranchID,
		APIURL:    req.APIURL,
		AppKey:    req.AppKey,
		SecretKey: req.SecretKey,
	})
	if err != nil {
		c.renderFailure(err)
		return
	}

	response.Success(c.Ctx, result)
}

// testDevice 检测设备状态
func (c *HikvisionController) testDevice(req *ProxyRequest) {
	if req.BranchID == "" || req.DeviceID == "" {
		response.ParamError(c.Ctx, "branchId and deviceId are required")
		return
	}

	status, err := c.hikvisionService().CheckDeviceStatus(req.BranchID, req.DeviceID)
	if err != nil {
		c.renderFailure(err)
		return
	}

	response.Success(c.Ctx, status)
}

// registerPerson 注册人员
func (c *HikvisionController) registerPerson(req *ProxyRequest) {
	if req.Name == "" {
		response.ParamError(c.Ctx, "name is required")
		return
	}
	if req.BranchID == "" || req.MemberID == "" {
		response.ParamError(c.Ctx, "branchId and memberId are required")
		return
	}

	result, err := c.hikvisionService().RegisterPerson(services.PersonInput{
		BranchID: req.BranchID,
		MemberID: req.MemberID,
		Name:     req.Name,
		Gender:   req.Gender,
		Phone:    req.Phone,
		Email:    req.Email,
		FaceData: req.FaceData,
	})
	if err != nil {
		c.renderFailure(err)
		return
	}

	response.Success(c.Ctx, result)
}

// assignAccessPrivileges 下发门禁权限
func (c *HikvisionController) assignAccessPrivileges(req *ProxyRequest) {
	if req.DeviceID == "" || req.PersonID == "" || len(req.DoorList) == 0 {
		response.ParamError(c.Ctx, "deviceId, personId and doorList are required")
		return
	}

	result, err := c.hikvisionService().AssignAccessPrivileges(services.PrivilegeInput{
		DeviceSerial: req.DeviceID,
		PersonID:     req.PersonID,
		DoorList:     req.DoorList,
		ValidStart:   req.ValidStart,
		ValidEnd:     req.ValidEnd,
	})
	if err != nil {
		c.renderFailure(err)
		return
	}

	response.Success(c.Ctx, result)
}

// createSite 创建站点
func (c *HikvisionController) createSite(req *ProxyRequest) {
	if req.SiteName == "" || req.BranchID == "" {
		response.ParamError(c.Ctx, "siteName and branchId are required")
		return
	}

	site, err := c.hikvisionService().CreateSite(req.BranchID, req.SiteName)
	if err != nil {
		c.renderFailure(err)
		return
	}

	response.Success(c.Ctx, site)
}

// searchSites 搜索站点，空条件返回凭证可见的全部站点
func (c *HikvisionController) searchSites(req *ProxyRequest) {
	if req.BranchID == "" {
		response.ParamError(c.Ctx, "branchId is required")
		return
	}

	sites, err := c.hikvisionService().SearchSites(req.BranchID, req.SiteName, req.SiteID)
	if err != nil {
		c.renderFailure(err)
		return
	}

	response.Success(c.Ctx, sites)
}
