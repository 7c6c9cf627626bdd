package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/alvstore/muscle-garage-gym-management/config"
	"github.com/alvstore/muscle-garage-gym-management/controllers"
	"github.com/alvstore/muscle-garage-gym-management/middleware"
	"github.com/alvstore/muscle-garage-gym-management/services/container"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件：所有响应都带跨域头，OPTIONS 预检直接返回204
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 认证路由
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))

	// 海康代理入口：单个端点按 action 分发
	api.POST("/hikvision/proxy", controllers.HandleHikvisionFunc(container))

	// 海康事件接口：回调入库与本地查询，独立于代理入口
	api.POST("/hikvision/events/callback", controllers.HandleEventFunc(container, "webhook"))
	api.GET("/hikvision/events", controllers.HandleEventFunc(container, "listEvents"))
	api.POST("/hikvision/events/subscribe", controllers.HandleEventFunc(container, "subscribe"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateAdmin())

	// 分店路由
	auth.Group("/branches").GET("", controllers.HandleBranchFunc(container, "getBranches"))
	auth.Group("/branches").GET("/:id", controllers.HandleBranchFunc(container, "getBranch"))
	auth.Group("/branches").GET("/:id/devices", controllers.HandleBranchFunc(container, "getBranchDevices"))

	// 会员路由
	auth.Group("/members").GET("", controllers.HandleBranchFunc(container, "getMembers"))
}
