package routes

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"election-voting-backend/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server 是HTTP服务器的封装
type Server struct {
	*http.Server
}

// SetupRouter 设置和配置Gin路由
func SetupRouter(
	voting *handlers.VotingHandler,
	health *handlers.HealthHandler,
	limiter *handlers.RateLimitMiddleware,
	mode string,
) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// 配置CORS中间件
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // 生产环境中应限制为前端域名
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(limiter.Handler())

	// 健康检查端点
	router.GET("/health", health.Health)
	router.GET("/status", health.Status)
	router.GET("/ratelimit/stats", limiter.Stats)

	// 选举端点
	router.GET("/candidates", voting.Candidates)
	router.POST("/register", voting.Register)
	router.POST("/vote", voting.Vote)
	router.GET("/results", voting.Results)

	return router
}

// StartServer 启动HTTP服务器
func StartServer(router *gin.Engine, port int) *Server {
	addr := fmt.Sprintf(":%d", port)

	srv := &Server{
		&http.Server{
			Addr:    addr,
			Handler: router,
		},
	}

	// 在单独的goroutine中启动服务器
	go func() {
		log.Printf("服务器启动在 %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	return srv
}
