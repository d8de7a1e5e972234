package repository

import (
	"context"
	"errors"

	"election-voting-backend/models"
	"election-voting-backend/validation"

	"gorm.io/gorm"
)

var (
	// ErrInvalidCandidateName 名称不符合"Vorname N."格式
	ErrInvalidCandidateName = errors.New("ungültiger Kandidatenname")
	// ErrInvalidCandidateDescription 描述为空或超过140个字符
	ErrInvalidCandidateDescription = errors.New("ungültige Kandidatenbeschreibung")
)

// CandidateRepository 定义候选人数据访问接口。
// 对投票流程而言候选人是只读的，Create仅供初始化工具使用。
type CandidateRepository interface {
	// FindAll 按名称升序返回全部候选人
	FindAll(ctx context.Context) ([]models.Candidate, error)
	FindByID(ctx context.Context, id uint) (*models.Candidate, error)
	Create(ctx context.Context, candidate *models.Candidate) error
}

// GormCandidateRepository 基于gorm的实现
type GormCandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *GormCandidateRepository {
	return &GormCandidateRepository{db: db}
}

func (r *GormCandidateRepository) FindAll(ctx context.Context) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.WithContext(ctx).Order("name").Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *GormCandidateRepository) FindByID(ctx context.Context, id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.WithContext(ctx).First(&candidate, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// Create 校验后写入候选人，非法数据不落库
func (r *GormCandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	if !validation.IsValidCandidateName(candidate.Name) {
		return ErrInvalidCandidateName
	}
	if !validation.IsValidDescription(candidate.Description) {
		return ErrInvalidCandidateDescription
	}
	return r.db.WithContext(ctx).Create(candidate).Error
}
