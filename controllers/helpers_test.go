package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/models"
	"github.com/alvstore/muscle-garage-gym-management/routes"
)

var routerDBCounter int64

// newTestRouter 搭起完整路由栈，数据库用独立的内存库，不带Redis
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:routerdb%d?mode=memory&cache=shared", atomic.AddInt64(&routerDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Branch{},
		&models.BranchAPISetting{},
		&models.HikCredential{},
		&models.Member{},
		&models.AccessPrivilege{},
		&models.Device{},
		&models.AccessEvent{},
		&models.EventSubscription{},
		&models.Admin{},
	))

	cfg := &config.Config{
		EnvType:           "LOCAL",
		HikAPIURL:         "https://api.hik-partner.test",
		HikTimeoutSeconds: 5,
		JWTSecretKey:      "test-secret",
	}

	return routes.SetupRouter(db, cfg, nil), db
}

// envelope 统一响应信封的测试视图
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	ErrorCode string          `json:"errorCode"`
}

// doJSON 发送一个JSON请求并解析响应信封
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

// newCountingVendor 起一个只数请求次数的假海康服务端
func newCountingVendor(t *testing.T) (*httptest.Server, *int64) {
	t.Helper()

	var count int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&count, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"0","msg":"ok","data":{}}`))
	}))
	t.Cleanup(server.Close)
	return server, &count
}
