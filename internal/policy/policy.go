// Package policy defines safety limits for Seafile client operations.
// It includes request deadlines, response size caps, batch concurrency bounds and throttle handling.
// 为 Seafile 客户端操作定义安全限制, 包括请求超时、响应大小上限、批量并发上限和限流处理.
package policy

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ThrottleHeader is the response header seafile uses to announce the back-off time on a 429.
// seafile 在 429 响应中返回等待时间的 Header.
const ThrottleHeader = "X-Throttle-Wait-Seconds"

// SafetyPolicy defines safety rules for Seafile operations.
// It includes the default request deadline, the maximum accepted response size and batch concurrency.
// 定义 Seafile 操作的安全策略, 包括默认请求超时、最大响应大小和批量并发数.
type SafetyPolicy struct {
	DefaultTimeout      time.Duration // Deadline applied when a call has none / 未指定时的默认超时
	MaxResponseBytes    int64         // Maximum buffered response body / 最大缓冲响应体
	BatchConcurrency    int           // Default parallelism for batch helpers / 批量操作默认并发数
	MaxBatchConcurrency int           // Upper bound for batch parallelism / 批量操作最大并发数
	ThrottleFallback    time.Duration // Wait used when the throttle header is missing / 限流 Header 缺失时的等待时间
}

// DefaultSafetyPolicy returns the default safety policy. 返回默认安全策略.
func DefaultSafetyPolicy() SafetyPolicy {
	return SafetyPolicy{
		DefaultTimeout:      30 * time.Second,
		MaxResponseBytes:    64 << 20,
		BatchConcurrency:    8,
		MaxBatchConcurrency: 32,
		ThrottleFallback:    30 * time.Second,
	}
}

// ============ Decisions ============

// Timeout returns override when positive, otherwise the policy default.
// 返回调用级超时, 未指定时使用默认值.
func (p SafetyPolicy) Timeout(override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	if p.DefaultTimeout > 0 {
		return p.DefaultTimeout
	}
	return DefaultSafetyPolicy().DefaultTimeout
}

// Concurrency clamps a requested batch parallelism into [1, MaxBatchConcurrency].
// Zero or negative values select BatchConcurrency.
// 将批量并发数限制在 [1, MaxBatchConcurrency] 区间, 非正数使用默认值.
func (p SafetyPolicy) Concurrency(n int) int {
	if n <= 0 {
		n = p.BatchConcurrency
	}
	if p.MaxBatchConcurrency > 0 && n > p.MaxBatchConcurrency {
		n = p.MaxBatchConcurrency
	}
	if n < 1 {
		n = 1
	}
	return n
}

// maxThrottleSeconds bounds waits to what a time.Duration can hold.
const maxThrottleSeconds = float64(math.MaxInt64 / int64(time.Second))

// ThrottleWait parses the value of the throttle header.
// Absent, non-numeric, negative or out of range values yield the policy fallback.
// 解析限流 Header 的值, 缺失、非数字、负数或超出范围时返回回退时间.
func (p SafetyPolicy) ThrottleWait(value string) time.Duration {
	fallback := p.ThrottleFallback
	if fallback <= 0 {
		fallback = DefaultSafetyPolicy().ThrottleFallback
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	secs, err := strconv.ParseFloat(value, 64)
	if err != nil || secs < 0 || math.IsNaN(secs) || secs >= maxThrottleSeconds {
		return fallback
	}
	return time.Duration(secs * float64(time.Second))
}
