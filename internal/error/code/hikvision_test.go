package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupVendorKnownCodes(t *testing.T) {
	// 已登记的错误码必须返回表里的消息和状态码
	for vendorCode, wantMessage := range hikMessageMap {
		message, status := LookupVendor(vendorCode)
		assert.Equal(t, wantMessage, message, "code %s", vendorCode)
		assert.Equal(t, hikStatusMap[vendorCode], status, "code %s", vendorCode)
	}
}

func TestLookupVendorUnknownCode(t *testing.T) {
	for _, vendorCode := range []string{"", "BOGUS", "EVZ99999", "0xDEADBEEF", "你好"} {
		message, status := LookupVendor(vendorCode)
		assert.Contains(t, message, vendorCode)
		assert.Equal(t, StatusBadRequest, status)
	}
}

func TestNewVendorError(t *testing.T) {
	err := NewVendorError("EVZ20007")
	assert.Equal(t, "EVZ20007", err.VendorCode)
	assert.Equal(t, "device is offline", err.Message)
	assert.Equal(t, StatusBadRequest, err.Status)
	assert.Contains(t, err.Error(), "EVZ20007")
}

func TestNewVendorFault(t *testing.T) {
	err := NewVendorFault("connection refused")
	assert.Empty(t, err.VendorCode)
	assert.Equal(t, StatusBadGateway, err.Status)
	assert.Equal(t, "connection refused", err.Error())
}

func TestNewUnauthenticated(t *testing.T) {
	err := NewUnauthenticated()
	assert.Equal(t, "no valid access token", err.Message)
	assert.Equal(t, StatusUnauthorized, err.Status)
}
