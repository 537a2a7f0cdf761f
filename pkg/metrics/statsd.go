// Package metrics reports seafile dispatcher observations to a dogstatsd agent.
// 将 seafile 调度器的观测数据上报到 dogstatsd.
package metrics

import (
	"strconv"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/GoFurry/seafile-sdk-go/pkg/seafile"
)

// DefaultNamespace prefixes every metric name. 所有指标名的默认前缀.
const DefaultNamespace = "seafile."

// client is the part of *statsd.Client the sink uses.
type client interface {
	Incr(name string, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Close() error
}

// Statsd implements seafile.Metrics on top of a dogstatsd client.
// 基于 dogstatsd 客户端实现 seafile.Metrics.
type Statsd struct {
	c client
}

var _ seafile.Metrics = (*Statsd)(nil)

// NewStatsd connects to a dogstatsd agent such as "localhost:8125".
// Extra tags are attached to every metric.
// 连接 dogstatsd 代理, 额外的 tags 会附加到每个指标上.
func NewStatsd(addr string, tags ...string) (*Statsd, error) {
	c, err := statsd.New(addr, statsd.WithNamespace(DefaultNamespace), statsd.WithTags(tags))
	if err != nil {
		return nil, err
	}
	return &Statsd{c: c}, nil
}

// ObserveRequest records one dispatched request as a count, a timing and, on failure, an error count.
// 将一次请求记录为计数、耗时, 失败时额外记录错误计数.
func (s *Statsd) ObserveRequest(operation string, status int, elapsed time.Duration, err error) {
	tags := []string{
		"op:" + operation,
		"status:" + strconv.Itoa(status),
		"outcome:" + Outcome(err),
	}
	_ = s.c.Incr("request.count", tags, 1)
	_ = s.c.Timing("request.duration", elapsed, tags, 1)
	if err != nil {
		_ = s.c.Incr("request.error", tags, 1)
	}
}

// Close flushes buffered metrics and closes the client. 刷新缓冲并关闭客户端.
func (s *Statsd) Close() error { return s.c.Close() }

// Outcome classifies a request error for tagging. 为标签对请求错误分类.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if seafile.IsTransport(err) {
		return "transport_error"
	}
	if kind, ok := seafile.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}
