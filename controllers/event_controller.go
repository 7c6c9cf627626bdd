package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alvstore/muscle-garage-gym-management/internal/error/response"
	"github.com/alvstore/muscle-garage-gym-management/services"
	"github.com/alvstore/muscle-garage-gym-management/services/container"
)

// InterfaceEventController 定义事件控制器接口
type InterfaceEventController interface {
	ReceiveWebhook()
	ListEvents()
	Subscribe()
}

// EventController 处理海康事件回调和本地事件查询。
// 这是独立于代理 action 入口的一组接口。
type EventController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewEventController 创建一个新的事件控制器
func NewEventController(ctx *gin.Context, container *container.ServiceContainer) *EventController {
	return &EventController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleEventFunc 返回一个处理事件请求的Gin处理函数
func HandleEventFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewEventController(ctx, container)

		switch method {
		case "webhook":
			controller.ReceiveWebhook()
		case "listEvents":
			controller.ListEvents()
		case "subscribe":
			controller.Subscribe()
		default:
			response.ParamError(ctx, "无效的方法")
		}
	}
}

// ReceiveWebhook 接收海康事件推送
// @Summary 海康事件回调
// @Description 校验并入库海康推送的门禁事件，按事件ID去重
// @Tags event
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /hikvision/events/callback [post]
func (c *EventController) ReceiveWebhook() {
	payload, err := io.ReadAll(c.Ctx.Request.Body)
	if err != nil || len(payload) == 0 {
		response.ParamError(c.Ctx, "事件回调体为空")
		return
	}

	eventService := c.Container.GetService("event").(services.InterfaceEventService)
	event, created, err := eventService.RecordIncomingEvent(payload)
	if err != nil {
		if err == services.ErrInvalidEvent {
			response.ParamError(c.Ctx, "eventType and eventTime are required")
			return
		}
		response.ServerError(c.Ctx, "事件入库失败")
		return
	}

	c.Ctx.JSON(http.StatusOK, response.Response{
		Success: true,
		Data: gin.H{
			"event_id":  event.EventID,
			"duplicate": !created,
		},
	})
}

// ListEvents 查询本地镜像的事件列表
// @Summary 事件列表
// @Description 按事件时间倒序返回本地镜像的门禁事件，不会实时请求海康
// @Tags event
// @Produce json
// @Param branch_id query string false "分店ID"
// @Param person_id query string false "人员ID"
// @Param limit query int false "返回条数上限"
// @Success 200 {object} response.Response
// @Router /hikvision/events [get]
func (c *EventController) ListEvents() {
	branchID := c.Ctx.Query("branch_id")
	personID := c.Ctx.Query("person_id")
	limit, _ := strconv.Atoi(c.Ctx.DefaultQuery("limit", "0"))

	eventService := c.Container.GetService("event").(services.InterfaceEventService)
	events, err := eventService.ListEvents(branchID, personID, limit)
	if err != nil {
		response.ServerError(c.Ctx, "查询事件失败")
		return
	}

	response.Success(c.Ctx, events)
}

// SubscribeRequest 事件订阅请求
type SubscribeRequest struct {
	BranchID string `json:"branchId"`
}

// Subscribe 为分店订阅海康门禁事件
// @Summary 订阅门禁事件
// @Tags event
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /hikvision/events/subscribe [post]
func (c *EventController) Subscribe() {
	var req SubscribeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil || req.BranchID == "" {
		response.ParamError(c.Ctx, "branchId is required")
		return
	}

	hikService := c.Container.GetService("hikvision").(services.InterfaceHikvisionService)
	result, err := hikService.SubscribeToEvents(req.BranchID)
	if err != nil {
		renderVendorFailure(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, result)
}
