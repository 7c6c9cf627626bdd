package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusBadGateway - 502: 上游服务异常.
	StatusBadGateway = 502
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrInvalidAction - 400: 无效的操作类型.
	ErrInvalidAction
)

// 会员相关错误码 (101xxx).
const (
	// ErrMemberNotFound - 404: 会员不存在.
	ErrMemberNotFound int = iota + 101000
	// ErrMemberSyncFailed - 502: 会员同步到门禁平台失败.
	ErrMemberSyncFailed
)

// 设备相关错误码 (102xxx).
const (
	// ErrDeviceNotFound - 404: 设备不存在.
	ErrDeviceNotFound int = iota + 102000
	// ErrDeviceOffline - 400: 设备离线.
	ErrDeviceOffline
)

// 分店相关错误码 (103xxx).
const (
	// ErrBranchNotFound - 404: 分店不存在.
	ErrBranchNotFound int = iota + 103000
	// ErrBranchNotConfigured - 400: 分店未配置海康接入参数.
	ErrBranchNotConfigured
	// ErrNoCredential - 401: 分店没有可用的访问令牌.
	ErrNoCredential
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
