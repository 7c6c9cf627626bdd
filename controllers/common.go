package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/internal/error/code"
	"github.com/alvstore/muscle-garage-gym-management/internal/error/response"
)

// renderVendorFailure 渲染海康调用失败：可分类失败按其状态码渲染，
// 未分类故障记日志并返回500
func renderVendorFailure(ctx *gin.Context, err error) {
	var vendorErr *code.VendorError
	if errors.As(err, &vendorErr) {
		response.FailWithVendorError(ctx, vendorErr)
		return
	}

	config.Error("海康调用发生未分类故障: %v", err)
	response.ServerError(ctx, err.Error())
}
