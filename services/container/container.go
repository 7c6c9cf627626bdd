package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/services"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 海康接入服务
	tokenService     services.InterfaceTokenService
	syncService      services.InterfaceSyncService
	hikvisionService services.InterfaceHikvisionService
	eventService     services.InterfaceEventService

	// 业务服务
	adminService  services.InterfaceAdminService
	branchService services.InterfaceBranchService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
			redisClient = nil
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config, c.redis)

	// 初始化海康接入服务
	c.tokenService = services.NewTokenService(c.db, c.config, c.redisService)
	c.syncService = services.NewSyncService(c.db, c.config)
	c.hikvisionService = services.NewHikvisionService(c.db, c.config, c.tokenService, c.syncService)
	c.eventService = services.NewEventService(c.db, c.config)

	// 初始化业务服务
	c.adminService = services.NewAdminService(c.db, c.config)
	c.branchService = services.NewBranchService(c.db, c.config)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "token":
		return c.tokenService
	case "sync":
		return c.syncService
	case "hikvision":
		return c.hikvisionService
	case "event":
		return c.eventService
	case "admin":
		return c.adminService
	case "branch":
		return c.branchService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// SetService 覆盖指定名称的服务，主要用于测试替换
func (c *ServiceContainer) SetService(name string, svc interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "jwt":
		c.jwtService = svc.(services.InterfaceJWTService)
	case "redis":
		c.redisService = svc.(services.InterfaceRedisService)
	case "token":
		c.tokenService = svc.(services.InterfaceTokenService)
	case "sync":
		c.syncService = svc.(services.InterfaceSyncService)
	case "hikvision":
		c.hikvisionService = svc.(services.InterfaceHikvisionService)
	case "event":
		c.eventService = svc.(services.InterfaceEventService)
	case "admin":
		c.adminService = svc.(services.InterfaceAdminService)
	case "branch":
		c.branchService = svc.(services.InterfaceBranchService)
	}
}
