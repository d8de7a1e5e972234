package service

import (
	"context"
	"fmt"
	"time"

	"election-voting-backend/apperrors"
	"election-voting-backend/cache"
	"election-voting-backend/models"
	"election-voting-backend/notify"
	"election-voting-backend/repository"
	"election-voting-backend/token"
	"election-voting-backend/validation"

	"gorm.io/gorm"
)

// 面向客户端的业务提示信息
const (
	MsgInvalidEmail      = "Ungültige E-Mail-Adresse"
	MsgAlreadyVoted      = "Sie haben bereits abgestimmt"
	MsgAlreadyRegistered = "Sie sind bereits registriert. Der Wahllink wird zu gegebener Zeit per E-Mail versendet."
	MsgRegistered        = "Registrierung erfolgreich. Der Wahllink wird zu gegebener Zeit per E-Mail versendet."
	MsgTokenMissing      = "Token fehlt"
	MsgInvalidToken      = "Ungültiger oder abgelaufener Token"
	MsgUserNotFound      = "Benutzer nicht gefunden"
	MsgChooseCandidate   = "Bitte wählen Sie einen Kandidaten aus"
	MsgInvalidCandidate  = "Ungültiger Kandidat"
	MsgVoteSuccess       = "Ihre Stimme wurde erfolgreich abgegeben"
)

// RegisterResult 注册结果
type RegisterResult struct {
	Message           string `json:"message"`
	AlreadyRegistered bool   `json:"alreadyRegistered"`
}

// CastVoteResult 投票结果
type CastVoteResult struct {
	Message string `json:"message"`
}

// ElectionResults 各候选人得票统计
type ElectionResults struct {
	Total   int64                       `json:"total"`
	Results []repository.CandidateCount `json:"results"`
}

// VotingService 选举业务接口
type VotingService interface {
	RegisterVoter(ctx context.Context, email string) (*RegisterResult, error)
	CastVote(ctx context.Context, tokenStr string, candidateID uint) (*CastVoteResult, error)
	ListCandidates(ctx context.Context) ([]models.Candidate, error)
	Results(ctx context.Context) (*ElectionResults, error)
}

// VotingServiceImpl 选举业务实现
type VotingServiceImpl struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	candidateRepo repository.CandidateRepository
	voteRepo      repository.VoteRepository
	tokens        *token.Service
	notifier      notify.Notifier
	// 可选的分布式锁，nil表示未配置Redis。
	// 真正的防重复投票由事务内的条件更新保证，锁只是额外收敛并发窗口。
	locks *cache.LockService
	// 候选人表为空或查询失败时是否返回占位数据（运维显式开启）
	fallbackEnabled bool
}

// NewVotingService 创建选举服务
func NewVotingService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	candidateRepo repository.CandidateRepository,
	voteRepo repository.VoteRepository,
	tokens *token.Service,
	notifier notify.Notifier,
	locks *cache.LockService,
	fallbackEnabled bool,
) VotingService {
	return &VotingServiceImpl{
		db:              db,
		userRepo:        userRepo,
		candidateRepo:   candidateRepo,
		voteRepo:        voteRepo,
		tokens:          tokens,
		notifier:        notifier,
		locks:           locks,
		fallbackEnabled: fallbackEnabled,
	}
}

// RegisterVoter 注册选民并发送投票链接。
// 已注册未投票的邮箱静默成功且不重发邮件，防止通过反复注册枚举令牌。
func (s *VotingServiceImpl) RegisterVoter(ctx context.Context, email string) (*RegisterResult, error) {
	if email == "" || !validation.IsValidEmail(email) {
		return nil, apperrors.Validation(MsgInvalidEmail)
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.TokenUsed {
			return nil, apperrors.Conflict(MsgAlreadyVoted)
		}
		return &RegisterResult{
			Message:           MsgAlreadyRegistered,
			AlreadyRegistered: true,
		}, nil
	}

	user, err := s.userRepo.Create(ctx, email)
	if err != nil {
		return nil, err
	}

	votingToken, err := s.tokens.Issue(token.Payload{Email: user.Email, UserID: user.ID})
	if err != nil {
		return nil, err
	}

	// 发信失败直接上抛：用户行已存在，但注册对调用方而言未完成
	if err := s.notifier.SendVotingLink(user.Email, votingToken); err != nil {
		return nil, err
	}

	return &RegisterResult{
		Message:           MsgRegistered,
		AlreadyRegistered: false,
	}, nil
}

// CastVote 投出匿名选票。检查顺序固定，任一失败立即短路：
// 令牌存在 -> 令牌有效 -> 选民存在 -> 尚未投票 -> 候选人已选 -> 候选人存在。
func (s *VotingServiceImpl) CastVote(ctx context.Context, tokenStr string, candidateID uint) (*CastVoteResult, error) {
	if tokenStr == "" {
		return nil, apperrors.Validation(MsgTokenMissing)
	}

	payload := s.tokens.Verify(tokenStr)
	if payload == nil {
		return nil, apperrors.Authentication(MsgInvalidToken)
	}

	user, err := s.userRepo.FindByID(ctx, payload.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound(MsgUserNotFound)
	}

	if user.TokenUsed {
		return nil, apperrors.Conflict(MsgAlreadyVoted)
	}

	if candidateID == 0 {
		return nil, apperrors.Validation(MsgChooseCandidate)
	}

	candidate, err := s.candidateRepo.FindByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, apperrors.NotFound(MsgInvalidCandidate)
	}

	if err := s.castOnce(ctx, payload.UserID, candidateID); err != nil {
		return nil, err
	}

	return &CastVoteResult{Message: MsgVoteSuccess}, nil
}

// castOnce 在单个事务内完成"作废令牌+写入选票"。
// 条件更新只在 token_used=false 时生效，影响0行即并发请求已经投过，
// 判定为冲突而不是静默成功。选票行不含任何选民信息，两次写入
// 只是事务耦合，schema上不存在用户与选票的关联路径。
func (s *VotingServiceImpl) castOnce(ctx context.Context, userID, candidateID uint) error {
	commit := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.User{}).
				Where("id = ? AND token_used = ?", userID, false).
				Update("token_used", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperrors.Conflict(MsgAlreadyVoted)
			}
			return tx.Create(&models.Vote{CandidateID: candidateID}).Error
		})
	}

	if s.locks != nil {
		return s.locks.WithLock(fmt.Sprintf("vote:user:%d", userID), 5*time.Second, commit)
	}
	return commit()
}

// ListCandidates 返回全部候选人（按名称升序）
func (s *VotingServiceImpl) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	candidates, err := s.candidateRepo.FindAll(ctx)
	if err != nil {
		if s.fallbackEnabled {
			return fallbackCandidates(), nil
		}
		return nil, err
	}
	if len(candidates) == 0 && s.fallbackEnabled {
		return fallbackCandidates(), nil
	}
	return candidates, nil
}

// Results 各候选人得票数与总票数
func (s *VotingServiceImpl) Results(ctx context.Context) (*ElectionResults, error) {
	counts, err := s.voteRepo.CountByCandidate(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.voteRepo.CountTotal(ctx)
	if err != nil {
		return nil, err
	}
	return &ElectionResults{Total: total, Results: counts}, nil
}

// fallbackCandidates 占位候选人，仅用于演示环境
func fallbackCandidates() []models.Candidate {
	now := time.Now()
	return []models.Candidate{
		{
			ID:          1,
			Name:        "Leo G.",
			Description: "Erfahrener Politiker mit Fokus auf Bildung und Innovation. Setzt sich ein für moderne Lehrpläne und digitale Transformation in Schulen.",
			CreatedAt:   now,
		},
		{
			ID:          2,
			Name:        "Maria K.",
			Description: "Engagierte Aktivistin für Umweltschutz und Nachhaltigkeit. Kämpft für erneuerbare Energien und den Schutz natürlicher Ressourcen.",
			CreatedAt:   now,
		},
		{
			ID:          3,
			Name:        "Anna S.",
			Description: "Expertin für Soziales und Familienpolitik mit langjähriger Erfahrung. Fördert Programme für Kinderbetreuung und soziale Gerechtigkeit.",
			CreatedAt:   now,
		},
	}
}
