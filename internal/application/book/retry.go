package book

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/xiebiao/litshop/pkg/errors"
	"github.com/xiebiao/litshop/pkg/logger"
)

// 图书修改遇到锁竞争时的重试参数
const (
	maxLockRetries      = 3
	retryInitialBackoff = 20 * time.Millisecond
	retryMaxBackoff     = 200 * time.Millisecond
)

// retryOnContention 锁竞争(与进行中的购买争同一本书)时按指数退避重试fn
// 重试耗尽返回StorageFailure,其余错误原样返回
func retryOnContention(ctx context.Context, op string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialBackoff
	b.MaxInterval = retryMaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrLockContention) {
			logger.FromContext(ctx).Debug().Err(err).Str("op", op).Int("attempt", attempt).Msg("锁竞争,准备重试")
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(b, maxLockRetries), ctx))

	if err != nil && errors.Is(err, apperrors.ErrLockContention) {
		return apperrors.Wrap(err, "系统繁忙,请稍后重试")
	}
	return err
}
