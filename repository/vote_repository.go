package repository

import (
	"context"

	"election-voting-backend/models"

	"gorm.io/gorm"
)

// CandidateCount 单个候选人的得票数
type CandidateCount struct {
	CandidateID uint   `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int64  `json:"votes"`
}

// VoteRepository 定义选票数据访问接口。
// 选票只引用候选人，不允许任何指向选民的字段。
// 重复令牌的防护完全在服务层，这里不做检查。
type VoteRepository interface {
	Create(ctx context.Context, candidateID uint) (*models.Vote, error)
	CountByCandidate(ctx context.Context) ([]CandidateCount, error)
	CountTotal(ctx context.Context) (int64, error)
}

// GormVoteRepository 基于gorm的实现
type GormVoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *GormVoteRepository {
	return &GormVoteRepository{db: db}
}

func (r *GormVoteRepository) Create(ctx context.Context, candidateID uint) (*models.Vote, error) {
	vote := models.Vote{CandidateID: candidateID}
	if err := r.db.WithContext(ctx).Create(&vote).Error; err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *GormVoteRepository) CountByCandidate(ctx context.Context) ([]CandidateCount, error) {
	var counts []CandidateCount
	err := r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Select("candidates.id AS candidate_id, candidates.name AS name, COUNT(votes.id) AS votes").
		Joins("LEFT JOIN votes ON votes.candidate_id = candidates.id").
		Group("candidates.id, candidates.name").
		Order("candidates.name").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *GormVoteRepository) CountTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Count(&total).Error
	return total, err
}
