package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"election-voting-backend/config"
	"election-voting-backend/models"
	"election-voting-backend/validation"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 建立MySQL连接并迁移三张表
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second, // 慢SQL阈值
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true, // 忽略ErrRecordNotFound错误
			ParameterizedQueries:      true, // 日志中不带参数值
		},
	)

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接池失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.SeedCandidates {
		seedCandidates(db)
	}

	return db, nil
}

// Migrate 迁移users/candidates/votes三张表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Candidate{}, &models.Vote{}); err != nil {
		return fmt.Errorf("迁移模型失败: %w", err)
	}
	return nil
}

// seedCandidates 候选人表为空时写入示例数据（仅限开发环境）
func seedCandidates(db *gorm.DB) {
	var count int64
	db.Model(&models.Candidate{}).Count(&count)
	if count > 0 {
		log.Println("候选人表已有数据，跳过示例数据创建")
		return
	}

	log.Println("创建示例候选人...")
	candidates := []models.Candidate{
		{Name: "Leo G.", Description: "Erfahrener Politiker mit Fokus auf Bildung und Innovation"},
		{Name: "Maria K.", Description: "Engagierte Aktivistin für Umweltschutz und Nachhaltigkeit"},
		{Name: "Anna S.", Description: "Expertin für Soziales und Familienpolitik mit langjähriger Erfahrung"},
	}

	for _, candidate := range candidates {
		if !validation.IsValidCandidateName(candidate.Name) || !validation.IsValidDescription(candidate.Description) {
			log.Printf("跳过非法示例候选人: %q", candidate.Name)
			continue
		}
		if err := db.Create(&candidate).Error; err != nil {
			log.Printf("创建示例候选人失败: %v", err)
			return
		}
	}
	log.Println("示例候选人创建成功")
}

// Close 关闭数据库连接
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("获取数据库连接失败: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("关闭数据库连接失败: %v", err)
	}
}
