package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/models"
)

var testDBCounter int64

// newTestDB 为每个测试创建一个独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Branch{},
		&models.BranchAPISetting{},
		&models.HikCredential{},
		&models.Member{},
		&models.AccessPrivilege{},
		&models.Device{},
		&models.AccessEvent{},
		&models.EventSubscription{},
		&models.Admin{},
	); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		EnvType:           "LOCAL",
		HikAPIURL:         "https://api.hik-partner.test",
		HikTimeoutSeconds: 5,
		JWTSecretKey:      "test-secret",
	}
}
