// Package seafile provides a Go client for the Seafile web API.
// It supports library, directory and file management, uploads, downloads, sharing and groups.
// 提供 Seafile Web API 的 Go 客户端, 支持资料库、目录与文件管理、上传下载、共享及群组操作.
package seafile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/GoFurry/seafile-sdk-go/internal/policy"
	"github.com/GoFurry/seafile-sdk-go/internal/secure"
)

// NoTimeout disables the per-call deadline; the context alone bounds the call.
// 关闭调用级超时, 仅由 context 控制.
const NoTimeout time.Duration = -1

// Metrics receives one observation per dispatched request. 每次请求调度后接收一条观测数据.
type Metrics interface {
	ObserveRequest(operation string, status int, elapsed time.Duration, err error)
}

// ============ Connection ============

// Connection executes operation descriptors against a seafile server.
// It is safe for concurrent use; Close releases the underlying transport.
// 针对 seafile 服务器执行操作描述符, 可并发使用, Close 释放底层传输.
type Connection struct {
	client       *http.Client
	streamClient *http.Client
	policy       policy.SafetyPolicy
	logger       *slog.Logger
	metrics      Metrics
	userAgent    string
	closed       atomic.Bool
}

// DefaultSeafileClient creates a default HTTP client with reasonable timeouts and connection limits.
// Redirects are not followed: several operations treat 3xx as a distinct outcome.
// 创建默认 HTTP 客户端, 包含合理的超时和连接限制, 不跟随重定向.
func DefaultSeafileClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		CheckRedirect: noRedirect,
	}
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

// NewConnection creates a Connection with the default HTTP client and safety policy.
// 使用默认 HTTP 客户端和安全策略创建 Connection.
func NewConnection(opts ...Option) *Connection {
	return NewConnectionWithClient(nil, opts...)
}

// NewConnectionWithClient creates a Connection on top of a custom HTTP client.
// The client is copied; redirect following is always disabled on the copy used for API calls.
// 使用自定义 HTTP 客户端创建 Connection, 客户端会被复制, API 调用始终不跟随重定向.
func NewConnectionWithClient(client *http.Client, opts ...Option) *Connection {
	if client == nil {
		client = DefaultSeafileClient()
	}
	api := *client
	api.CheckRedirect = noRedirect
	stream := *client
	stream.CheckRedirect = nil

	c := &Connection{
		client:       &api,
		streamClient: &stream,
		policy:       policy.DefaultSafetyPolicy(),
		logger:       slog.New(slog.DiscardHandler),
		userAgent:    "seafile-sdk-go",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option defines a functional option for customizing Connection behavior.
// 定义用于定制 Connection 行为的函数选项.
type Option func(*Connection)

// WithSafetyPolicy replaces the entire safety policy (for advanced users). 替换整个安全策略.
func WithSafetyPolicy(p policy.SafetyPolicy) Option {
	return func(c *Connection) {
		c.policy = p
	}
}

// WithTimeout sets the default per-call deadline. 设置默认调用超时.
func WithTimeout(d time.Duration) Option {
	return func(c *Connection) {
		if d > 0 {
			c.policy.DefaultTimeout = d
		}
	}
}

// WithMaxResponseBytes caps the size of buffered responses. 设置缓冲响应的最大字节数.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Connection) {
		if n > 0 {
			c.policy.MaxResponseBytes = n
		}
	}
}

// WithBatchConcurrency sets the default parallelism of batch helpers. 设置批量操作默认并发数.
func WithBatchConcurrency(n int) Option {
	return func(c *Connection) {
		if n > 0 {
			c.policy.BatchConcurrency = n
		}
	}
}

// WithLogger sets the structured logger. Requests are logged at debug level, never with bodies.
// 设置结构化日志, 请求以 debug 级别记录, 从不记录请求体.
func WithLogger(l *slog.Logger) Option {
	return func(c *Connection) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics installs a metrics sink. 设置指标收集器.
func WithMetrics(m Metrics) Option {
	return func(c *Connection) {
		c.metrics = m
	}
}

// WithUserAgent sets the User-Agent header sent with every request. 设置 User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Connection) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// Policy returns the active safety policy. 返回当前安全策略.
func (c *Connection) Policy() policy.SafetyPolicy { return c.policy }

// Close releases idle transport connections; later sends fail with ErrConnectionClosed.
// 释放空闲连接, 之后的请求返回 ErrConnectionClosed.
func (c *Connection) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.client.CloseIdleConnections()
	c.streamClient.CloseIdleConnections()
	return nil
}

// Closed reports whether Close has been called. 是否已关闭.
func (c *Connection) Closed() bool { return c.closed.Load() }

// ============ Dispatch ============

// Send executes req against server with the connection's default deadline.
// 使用默认超时针对 server 执行 req.
func Send[T any](ctx context.Context, c *Connection, server *url.URL, req Request[T]) (T, error) {
	return SendWithTimeout(ctx, c, server, req, 0)
}

// SendWithTimeout executes req with an explicit deadline; zero selects the default
// and NoTimeout leaves the call bounded by ctx only.
// 使用指定超时执行 req, 0 使用默认值, NoTimeout 仅由 ctx 控制.
func SendWithTimeout[T any](ctx context.Context, c *Connection, server *url.URL, req Request[T], timeout time.Duration) (T, error) {
	var zero T
	if w, ok := req.(Wiper); ok {
		defer w.Wipe()
	}
	if c == nil {
		return zero, &ProgrammingError{Reason: "nil connection"}
	}
	if req == nil {
		return zero, &ProgrammingError{Reason: "nil request"}
	}
	if c.closed.Load() {
		return zero, ErrConnectionClosed
	}

	if timeout != NoTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.policy.Timeout(timeout))
		defer cancel()
	}

	httpReq, err := buildRequest(ctx, server, req)
	if err != nil {
		return zero, err
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	op := operationName(req)
	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		releaseBody(httpReq)
		terr := transportError(httpReq, err)
		c.observe(ctx, op, httpReq, 0, start, terr)
		return zero, terr
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, c.policy.MaxResponseBytes)
	releaseBody(httpReq)
	if err != nil {
		terr := transportError(httpReq, err)
		c.observe(ctx, op, httpReq, resp.StatusCode, start, terr)
		return zero, terr
	}

	if req.IsSuccess(resp.StatusCode, resp.Header) {
		v, err := req.ParseResponse(body)
		c.observe(ctx, op, httpReq, resp.StatusCode, start, err)
		return v, err
	}

	var failure error
	if resp.StatusCode == http.StatusTooManyRequests {
		failure = newTooManyRequests(c.policy.ThrottleWait(resp.Header.Get(policy.ThrottleHeader)))
	} else {
		failure = &APIError{Kind: req.TranslateError(resp.StatusCode), StatusCode: resp.StatusCode}
	}
	c.observe(ctx, op, httpReq, resp.StatusCode, start, failure)
	return zero, failure
}

// buildRequest turns a descriptor into exactly one wire request.
func buildRequest[T any](ctx context.Context, server *url.URL, req Request[T]) (*http.Request, error) {
	if err := checkServer(server); err != nil {
		return nil, err
	}

	m := req.Method()
	switch m {
	case MethodCustom:
		cb, ok := req.(CustomBuilder)
		if !ok {
			return nil, &ProgrammingError{Reason: fmt.Sprintf("%T declares MethodCustom without BuildRequest", req)}
		}
		r, err := cb.BuildRequest(ctx, server)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, &ProgrammingError{Reason: fmt.Sprintf("%T built a nil request", req)}
		}
		if r.Context() != ctx {
			r = r.WithContext(ctx)
		}
		return r, nil

	case MethodGet, MethodDelete, MethodPost, MethodPut:
		target, err := ResolveURL(server, req.Path())
		if err != nil {
			return nil, err
		}

		var body io.Reader
		contentType := ""
		if m == MethodPost || m == MethodPut {
			if bp, ok := req.(BodyProvider); ok {
				if body, contentType, err = bp.Body(); err != nil {
					return nil, err
				}
			} else if params := req.BodyParams(); len(params) > 0 {
				body, contentType = formBody(params), secure.ContentType
			}
		}

		r, err := http.NewRequestWithContext(ctx, m.String(), target, body)
		if err != nil {
			return nil, &ProgrammingError{Reason: err.Error()}
		}
		for _, h := range req.Headers() {
			r.Header.Add(h.Name, h.Value)
		}
		if contentType != "" {
			r.Header.Set("Content-Type", contentType)
		}
		return r, nil
	}

	return nil, &ProgrammingError{Reason: fmt.Sprintf("%T uses unsupported method %s", req, m)}
}

// ResolveURL joins a server address and a relative descriptor path.
// The server path gains exactly one trailing slash; absolute descriptor paths are rejected.
// 拼接服务器地址与相对路径, 服务器路径保证单个结尾斜杠, 拒绝绝对路径.
func ResolveURL(server *url.URL, p string) (string, error) {
	if err := checkServer(server); err != nil {
		return "", err
	}
	if strings.HasPrefix(p, "/") {
		return "", &ProgrammingError{Reason: fmt.Sprintf("descriptor path %q must be relative", p)}
	}
	ref, err := url.Parse(p)
	if err != nil {
		return "", &ProgrammingError{Reason: fmt.Sprintf("descriptor path %q: %v", p, err)}
	}
	if ref.IsAbs() || ref.Host != "" {
		return "", &ProgrammingError{Reason: fmt.Sprintf("descriptor path %q must be relative", p)}
	}

	base := *server
	base.Path = strings.TrimRight(base.Path, "/") + "/"
	base.RawPath = ""
	base.RawQuery = ""
	base.Fragment = ""
	return base.ResolveReference(ref).String(), nil
}

func checkServer(server *url.URL) error {
	if server == nil || server.Host == "" || (server.Scheme != "http" && server.Scheme != "https") {
		return fmt.Errorf("%w: server address must be an absolute http(s) URL", ErrInvalidArgument)
	}
	return nil
}

// ParseServerURL validates a user supplied server address. 校验服务器地址.
func ParseServerURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: server address: %v", ErrInvalidArgument, err)
	}
	if err := checkServer(u); err != nil {
		return nil, err
	}
	return u, nil
}

// ============ Streaming ============

// Stream performs a GET that follows redirects and returns the open response.
// It is used for one-time download URLs; statuses >= 400 are returned as an APIError.
// 执行跟随重定向的 GET 并返回打开的响应, 用于一次性下载链接, >= 400 返回 APIError.
func (c *Connection) Stream(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	if c.closed.Load() {
		return nil, ErrConnectionClosed
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: download url: %v", ErrInvalidArgument, err)
	}
	for k, vals := range header {
		for _, v := range vals {
			r.Header.Add(k, v)
		}
	}
	r.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.streamClient.Do(r)
	if err != nil {
		terr := transportError(r, err)
		c.observe(ctx, "Stream", r, 0, start, terr)
		return nil, terr
	}
	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 8<<10))
		resp.Body.Close()
		var failure error
		if resp.StatusCode == http.StatusTooManyRequests {
			failure = newTooManyRequests(c.policy.ThrottleWait(resp.Header.Get(policy.ThrottleHeader)))
		} else {
			kind := NoDetails
			if resp.StatusCode == http.StatusNotFound {
				kind = FileNotFound
			}
			failure = &APIError{Kind: kind, StatusCode: resp.StatusCode}
		}
		c.observe(ctx, "Stream", r, resp.StatusCode, start, failure)
		return nil, failure
	}
	c.observe(ctx, "Stream", r, resp.StatusCode, start, nil)
	return resp, nil
}

// ============ Internals ============

func operationName(req any) string {
	if n, ok := req.(Named); ok && n.OperationName() != "" {
		return n.OperationName()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", req), "*seafile.")
}

func (c *Connection) observe(ctx context.Context, op string, r *http.Request, status int, start time.Time, err error) {
	elapsed := time.Since(start)
	attrs := []any{
		slog.String("op", op),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Duration("elapsed", elapsed),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	c.logger.DebugContext(ctx, "seafile request", attrs...)
	if c.metrics != nil {
		c.metrics.ObserveRequest(op, status, elapsed, err)
	}
}

func transportError(r *http.Request, err error) *TransportError {
	var ue *url.Error
	if errors.As(err, &ue) {
		err = ue.Err
	}
	u := *r.URL
	u.RawQuery = ""
	return &TransportError{Method: r.Method, URL: u.String(), Err: err}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = policy.DefaultSafetyPolicy().MaxResponseBytes
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return b, nil
}

// releaseBody closes the request body once the exchange is over so one-shot
// credential bodies finish wiping before Send returns.
func releaseBody(r *http.Request) {
	if r.Body != nil && r.Body != http.NoBody {
		_ = r.Body.Close()
	}
}
