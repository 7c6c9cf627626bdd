package code

import "fmt"

// VendorError 表示一次海康接口调用的结构化失败结果。
// 业务层始终以返回值而不是 panic 的方式传递它，便于路由层渲染统一响应。
type VendorError struct {
	// VendorCode 海康返回的错误码，传输层故障时为空
	VendorCode string `json:"vendor_code,omitempty"`
	// Message 可读的错误消息
	Message string `json:"message"`
	// Status 对应的HTTP状态码
	Status int `json:"status"`
}

// Error implements the error interface
func (e *VendorError) Error() string {
	if e.VendorCode != "" {
		return fmt.Sprintf("hikvision error %s: %s", e.VendorCode, e.Message)
	}
	return e.Message
}

// NewVendorError 根据海康错误码构造 VendorError
func NewVendorError(vendorCode string) *VendorError {
	message, status := LookupVendor(vendorCode)
	return &VendorError{
		VendorCode: vendorCode,
		Message:    message,
		Status:     status,
	}
}

// NewVendorFault 构造一个传输/解析类故障（没有海康错误码）
func NewVendorFault(message string) *VendorError {
	return &VendorError{
		Message: message,
		Status:  StatusBadGateway,
	}
}

// NewUnauthenticated 分店没有可用访问令牌时的固定失败
func NewUnauthenticated() *VendorError {
	return &VendorError{
		Message: GetMessage(ErrNoCredential),
		Status:  StatusUnauthorized,
	}
}

// 海康开放平台错误码消息映射
var hikMessageMap = map[string]string{
	"EVZ0012":  "incorrect appKey or secretKey",
	"EVZ10001": "invalid access token",
	"EVZ10002": "access token expired",
	"EVZ10029": "API call frequency exceeded",
	"EVZ20002": "device does not exist",
	"EVZ20006": "network anomaly between device and platform",
	"EVZ20007": "device is offline",
	"EVZ20014": "invalid device serial number",
	"EVZ20032": "channel does not exist",
	"LAP0003":  "no permission to access this resource",
	"LAP0008":  "site does not exist",
	"PMS10001": "person does not exist",
	"PMS10002": "person already registered",
	"PMS10015": "invalid face picture",
	"0x400019F1": "door privilege configuration rejected by device",
}

// 海康开放平台错误码HTTP状态码映射
var hikStatusMap = map[string]int{
	"EVZ0012":  StatusUnauthorized,
	"EVZ10001": StatusUnauthorized,
	"EVZ10002": StatusUnauthorized,
	"EVZ10029": 429,
	"EVZ20002": StatusNotFound,
	"EVZ20006": StatusBadGateway,
	"EVZ20007": StatusBadRequest,
	"EVZ20014": StatusBadRequest,
	"EVZ20032": StatusNotFound,
	"LAP0003":  StatusForbidden,
	"LAP0008":  StatusNotFound,
	"PMS10001": StatusNotFound,
	"PMS10002": StatusBadRequest,
	"PMS10015": StatusBadRequest,
	"0x400019F1": StatusBadRequest,
}

// LookupVendor 查询海康错误码对应的消息和HTTP状态码。
// 对任意输入都有返回值：未知错误码返回包含原始码的通用消息和400。
func LookupVendor(vendorCode string) (string, int) {
	message, ok := hikMessageMap[vendorCode]
	if !ok {
		return fmt.Sprintf("unknown Hikvision error (code: %s)", vendorCode), StatusBadRequest
	}

	status, ok := hikStatusMap[vendorCode]
	if !ok {
		status = StatusBadRequest
	}
	return message, status
}
