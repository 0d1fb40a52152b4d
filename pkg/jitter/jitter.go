// Package jitter предоставляет экспоненциальные задержки со случайным разбросом
// и повтор операций, которые могут временно не выполняться (подключение к БД при старте).
package jitter

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает продолжительность в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	randMutex.Lock()
	f := globalRand.Float64()
	randMutex.Unlock()

	return d + time.Duration(f*jitterFactor*float64(d))
}

// Backoff считает задержку перед попыткой attempt (с нуля) без джиттера:
// base * 2^attempt, но не больше max.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= max {
			return max
		}
	}

	if backoff > max {
		return max
	}
	return backoff
}

// ExponentialBackoff — Backoff с применённым джиттером.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return Duration(Backoff(base, max, attempt), jitterFactor)
}

// Policy описывает политику повторов.
type Policy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
	Jitter   float64
}

// Retry выполняет fn до Attempts раз, выдерживая паузу между попытками.
// Возвращает последнюю ошибку или ошибку контекста.
func Retry(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}

	var err error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if attempt == p.Attempts-1 {
			break
		}

		select {
		case <-time.After(ExponentialBackoff(p.Base, p.Max, attempt, p.Jitter)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", p.Attempts, err)
}
