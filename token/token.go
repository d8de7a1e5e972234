package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret 未配置签名密钥
var ErrMissingSecret = errors.New("token: signing secret is empty")

// Payload 投票令牌载荷，绑定邮箱与用户ID
type Payload struct {
	Email  string
	UserID uint
}

type votingClaims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	UserID uint   `json:"userId"`
}

// Service 签发与校验一次性投票令牌（HS256，默认7天有效）
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New 创建令牌服务，密钥为空时直接报错
func New(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue 签发绑定 {email, userId} 的令牌
func (s *Service) Issue(p Payload) (string, error) {
	now := time.Now()
	claims := votingClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email:  p.Email,
		UserID: p.UserID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify 校验令牌。签名无效、被篡改或已过期时返回 nil，
// 调用方必须将 nil 视为"未认证"，而不是可重试的错误。
func (s *Service) Verify(tokenStr string) *Payload {
	claims := &votingClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	return &Payload{Email: claims.Email, UserID: claims.UserID}
}
