package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:       "成功",
	ErrUnknown:       "未知错误",
	ErrBind:          "请求参数绑定错误",
	ErrValidation:    "请求参数验证错误",
	ErrTokenInvalid:  "无效的认证令牌",
	ErrInvalidAction: "Invalid action",

	// 会员相关错误码
	ErrMemberNotFound:   "会员不存在",
	ErrMemberSyncFailed: "会员同步到门禁平台失败",

	// 设备相关错误码
	ErrDeviceNotFound: "设备不存在",
	ErrDeviceOffline:  "设备当前离线",

	// 分店相关错误码
	ErrBranchNotFound:      "分店不存在",
	ErrBranchNotConfigured: "分店未配置海康接入参数",
	ErrNoCredential:        "no valid access token",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:       StatusOK,
	ErrUnknown:       StatusInternalServerError,
	ErrBind:          StatusBadRequest,
	ErrValidation:    StatusBadRequest,
	ErrTokenInvalid:  StatusUnauthorized,
	ErrInvalidAction: StatusBadRequest,

	// 会员相关错误码
	ErrMemberNotFound:   StatusNotFound,
	ErrMemberSyncFailed: StatusBadGateway,

	// 设备相关错误码
	ErrDeviceNotFound: StatusNotFound,
	ErrDeviceOffline:  StatusBadRequest,

	// 分店相关错误码
	ErrBranchNotFound:      StatusNotFound,
	ErrBranchNotConfigured: StatusBadRequest,
	ErrNoCredential:        StatusUnauthorized,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(errorCode int) string {
	if message, ok := codeMessageMap[errorCode]; ok {
		return message
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(errorCode int) int {
	if status, ok := codeStatusMap[errorCode]; ok {
		return status
	}
	return StatusInternalServerError
}
