package apperrors

import (
	"errors"
	"net/http"
)

// Kind 业务错误分类，与HTTP状态码一一对应
type Kind int

const (
	KindValidation     Kind = iota + 1 // 400 请求参数非法或缺失
	KindAuthentication                 // 401 令牌无效或过期
	KindNotFound                       // 404 引用的实体不存在
	KindConflict                       // 409 状态冲突（已投票）
)

// Error 带分类的业务错误，message 会原样返回给客户端
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error     { return &Error{Kind: KindValidation, Message: msg} }
func Authentication(msg string) *Error { return &Error{Kind: KindAuthentication, Message: msg} }
func NotFound(msg string) *Error       { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error       { return &Error{Kind: KindConflict, Message: msg} }

// Status 将错误映射为HTTP状态码，未分类错误一律500
func Status(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsKind 判断错误是否属于指定分类
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
