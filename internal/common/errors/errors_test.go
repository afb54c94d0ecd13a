// Package errors 错误码和错误处理单元测试
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		want     string
	}{
		{"无底层错误", New(1001, "参数错误"), "[1001] 参数错误"},
		{"有底层错误", Wrap(1004, "写入失败", stderrors.New("connection reset")), "[1004] 写入失败: connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.appError.Error())
		})
	}
}

func TestAppError_WithDoesNotMutateSentinel(t *testing.T) {
	cause := stderrors.New("boom")
	derived := ErrWriteFailed.WithError(cause).WithMessage("保存支付失败")

	assert.Nil(t, ErrWriteFailed.Err)
	assert.Equal(t, "写入失败", ErrWriteFailed.Message)
	assert.Equal(t, "保存支付失败", derived.Message)
	assert.Equal(t, "writeFailed", derived.Key)
	assert.ErrorIs(t, derived, cause)
}

func TestAppError_Is(t *testing.T) {
	err := fmt.Errorf("create payment: %w", ErrOrderAlreadyPaid.WithMessage("SO1 已支付"))

	assert.ErrorIs(t, err, ErrOrderAlreadyPaid)
	assert.NotErrorIs(t, err, ErrMonthlyPaymentExists)
}

func TestAppError_WithFields(t *testing.T) {
	err := ErrInvalidParams.WithFields(map[string]string{"amount": "必须大于0"})

	require.NotNil(t, err.Fields)
	assert.Equal(t, "必须大于0", err.Fields["amount"])
	assert.Nil(t, ErrInvalidParams.Fields)
}

func TestAppError_UserMessage(t *testing.T) {
	t.Run("写入错误带底层原因", func(t *testing.T) {
		err := ErrWriteFailed.WithError(stderrors.New("document already exists"))
		assert.Equal(t, "写入失败: document already exists", err.UserMessage())
	})

	t.Run("其他错误只返回消息", func(t *testing.T) {
		err := ErrOrderAlreadyPaid.WithError(stderrors.New("ignored"))
		assert.Equal(t, "该订单已支付", err.UserMessage())
	})
}

func TestGuardKeys(t *testing.T) {
	assert.Equal(t, "orderAlreadyPaid", ErrOrderAlreadyPaid.Key)
	assert.Equal(t, "monthlyPaymentExists", ErrMonthlyPaymentExists.Key)
}

func TestGetAppError(t *testing.T) {
	t.Run("应用错误原样返回", func(t *testing.T) {
		wrapped := fmt.Errorf("wrap: %w", ErrRoomNotFound)
		assert.Equal(t, ErrRoomNotFound.Code, GetAppError(wrapped).Code)
		assert.True(t, IsAppError(wrapped))
	})

	t.Run("普通错误转换为未知错误", func(t *testing.T) {
		plain := stderrors.New("plain")
		appErr := GetAppError(plain)
		assert.Equal(t, ErrUnknown.Code, appErr.Code)
		assert.Equal(t, plain, appErr.Err)
		assert.False(t, IsAppError(plain))
	})
}
