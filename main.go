package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"election-voting-backend/cache"
	"election-voting-backend/config"
	"election-voting-backend/database"
	"election-voting-backend/handlers"
	"election-voting-backend/notify"
	"election-voting-backend/repository"
	"election-voting-backend/routes"
	"election-voting-backend/service"
	"election-voting-backend/token"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（可选，环境变量优先）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化数据库连接
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("无法初始化数据库: %v", err)
	}
	log.Println("数据库连接初始化成功")

	// 初始化Redis连接（可选）
	rdb, err := cache.NewClient(context.Background(), &cfg.Redis)
	if err != nil {
		log.Printf("警告: Redis初始化失败，限流与分布式锁退化为进程内实现: %v", err)
		rdb = nil
	} else if rdb != nil {
		log.Println("Redis连接初始化成功")
	}

	// 令牌服务：密钥缺失直接拒绝启动
	tokens, err := token.New(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		log.Fatalf("初始化令牌服务失败: %v", err)
	}

	notifier := notify.NewEmailNotifier(&cfg.Email)
	locks := cache.NewLockService(rdb)

	// 装配仓库与服务
	userRepo := repository.NewUserRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	votingService := service.NewVotingService(
		db, userRepo, candidateRepo, voteRepo,
		tokens, notifier, locks,
		cfg.Candidates.FallbackEnabled,
	)

	if cfg.Candidates.FallbackEnabled {
		log.Println("警告: 候选人占位数据已启用，生产环境应保持关闭")
	}

	votingHandler := handlers.NewVotingHandler(votingService)
	healthHandler := handlers.NewHealthHandler(db, rdb)
	limiter := handlers.NewRateLimitMiddleware(&cfg.RateLimit, rdb)

	// 设置路由并启动服务器
	router := routes.SetupRouter(votingHandler, healthHandler, limiter, cfg.Server.Mode)
	srv := routes.StartServer(router, cfg.Server.Port)
	log.Println("服务器启动成功")

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 不接受新请求并等待现有请求完成
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器强制关闭: %v", err)
	}

	database.Close(db)
	if rdb != nil {
		_ = rdb.Close()
	}

	log.Println("服务器优雅关闭")
}
