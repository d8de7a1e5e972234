package repository

import (
	"context"
	"errors"

	"election-voting-backend/models"

	"gorm.io/gorm"
)

// UserRepository 定义选民数据访问接口
type UserRepository interface {
	// 未找到时返回 (nil, nil)，不作为错误处理
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)

	// Create 插入 token_used=false 的新行并返回生成的记录。
	// 并发插入触发邮箱唯一约束时返回持久化错误。
	Create(ctx context.Context, email string) (*models.User, error)

	// MarkTokenUsed 幂等地置 token_used=true，重复调用无额外效果
	MarkTokenUsed(ctx context.Context, id uint) error

	// 尚未投票的选民，批量发信工具使用
	FindPendingVoters(ctx context.Context) ([]models.User, error)
}

// GormUserRepository 基于gorm的实现
type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Create(ctx context.Context, email string) (*models.User, error) {
	user := models.User{Email: email, TokenUsed: false}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) MarkTokenUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("token_used", true).Error
}

func (r *GormUserRepository) FindPendingVoters(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("token_used = ?", false).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
