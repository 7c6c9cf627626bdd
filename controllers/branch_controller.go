package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/alvstore/muscle-garage-gym-management/internal/error/code"
	"github.com/alvstore/muscle-garage-gym-management/internal/error/response"
	"github.com/alvstore/muscle-garage-gym-management/models"
	"github.com/alvstore/muscle-garage-gym-management/services"
	"github.com/alvstore/muscle-garage-gym-management/services/container"
)

// InterfaceBranchController 定义分店控制器接口
type InterfaceBranchController interface {
	GetBranches()
	GetBranch()
	GetBranchDevices()
	GetMembers()
}

// BranchController 处理分店和会员相关的后台查询请求
type BranchController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewBranchController 创建一个新的分店控制器
func NewBranchController(ctx *gin.Context, container *container.ServiceContainer) *BranchController {
	return &BranchController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleBranchFunc 返回一个处理分店请求的Gin处理函数
func HandleBranchFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewBranchController(ctx, container)

		switch method {
		case "getBranches":
			controller.GetBranches()
		case "getBranch":
			controller.GetBranch()
		case "getBranchDevices":
			controller.GetBranchDevices()
		case "getMembers":
			controller.GetMembers()
		default:
			response.ParamError(ctx, "无效的方法")
		}
	}
}

func (c *BranchController) branchService() services.InterfaceBranchService {
	return c.Container.GetService("branch").(services.InterfaceBranchService)
}

// 1. GetBranches 获取所有分店列表
// @Summary 获取所有分店
// @Tags branch
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /branches [get]
func (c *BranchController) GetBranches() {
	branches, err := c.branchService().GetAllBranches()
	if err != nil {
		response.ServerError(c.Ctx, "获取分店列表失败: "+err.Error())
		return
	}

	response.Success(c.Ctx, branches)
}

// 2. GetBranch 获取单个分店详情
// @Summary 获取单个分店
// @Tags branch
// @Produce json
// @Security BearerAuth
// @Param id path string true "分店ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /branches/{id} [get]
func (c *BranchController) GetBranch() {
	id := c.Ctx.Param("id")

	branch, err := c.branchService().GetBranchByID(id)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.StatusNotFound, err.Error())
		return
	}

	response.Success(c.Ctx, branch)
}

// 3. GetBranchDevices 获取分店下的设备列表
// @Summary 获取分店设备
// @Tags branch
// @Produce json
// @Security BearerAuth
// @Param id path string true "分店ID"
// @Success 200 {object} response.Response
// @Router /branches/{id}/devices [get]
func (c *BranchController) GetBranchDevices() {
	id := c.Ctx.Param("id")

	devices, err := c.branchService().GetDevicesByBranch(id)
	if err != nil {
		response.ServerError(c.Ctx, "获取设备列表失败: "+err.Error())
		return
	}

	response.Success(c.Ctx, devices)
}

// 4. GetMembers 分页获取会员同步状态列表
// @Summary 获取会员列表
// @Tags member
// @Produce json
// @Security BearerAuth
// @Param branch_id query string false "分店ID"
// @Success 200 {object} response.Response
// @Router /members [get]
func (c *BranchController) GetMembers() {
	var page models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&page); err != nil {
		response.ParamError(c.Ctx, "分页参数错误")
		return
	}

	members, pagination, err := c.branchService().GetMembers(c.Ctx.Query("branch_id"), page)
	if err != nil {
		response.ServerError(c.Ctx, "获取会员列表失败: "+err.Error())
		return
	}

	response.Success(c.Ctx, gin.H{
		"members":    members,
		"pagination": pagination,
	})
}
