package service

import (
	"errors"

	"uniclass/backend/internal/scheduling"
	pkgerrors "uniclass/backend/pkg/errors"
)

// ── 通用业务错误 ──

var (
	ErrNoPermission = errors.New("无权操作")
)

// ValidationError 保存前规则校验未通过，携带全部失败项。
// errors.Is(err, pkgerrors.ErrValidationFailed) 为 true。
type ValidationError struct {
	Failures scheduling.Failures
}

func (e *ValidationError) Error() string {
	return pkgerrors.ErrValidationFailed.Error() + ": " + e.Failures.Error()
}

func (e *ValidationError) Unwrap() error { return pkgerrors.ErrValidationFailed }

// AsValidationError 提取 ValidationError
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
