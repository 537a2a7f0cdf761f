// Package seafile provides a Go client for the Seafile web API.
// It includes the Session façade that binds a server address, an auth token and a Connection.
// 提供 Seafile Web API 的 Go 客户端, 包括绑定服务器地址、令牌与 Connection 的 Session.
package seafile

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/GoFurry/seafile-sdk-go/internal/secure"
)

// Session is an authenticated view of one seafile server.
// It is safe for concurrent use; the cached server version is refreshed by ServerInfo.
// 某个 seafile 服务器上的已认证会话, 可并发使用, ServerInfo 会刷新缓存的服务器版本.
type Session struct {
	Username  string
	ServerURL *url.URL
	AuthToken string

	conn    *Connection
	mu      sync.RWMutex
	version string
}

// ============ Establishing ============

// Establish exchanges username and password for a token.
// password is zeroed before Establish returns, whatever the outcome.
// 使用用户名和密码换取令牌, 无论结果如何, 返回前都会清零 password.
func Establish(ctx context.Context, conn *Connection, serverURL *url.URL, username string, password []byte) (*Session, error) {
	defer secure.Wipe(password)
	if conn == nil {
		return nil, fmt.Errorf("%w: connection is required", ErrInvalidArgument)
	}
	if err := requireArg("username", username); err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}

	token, err := Send(ctx, conn, serverURL, NewAuthRequest(username, password))
	if err != nil {
		return nil, fmt.Errorf("authenticate %s: %w", username, err)
	}
	s := &Session{Username: username, ServerURL: serverURL, AuthToken: token, conn: conn}
	s.loadVersion(ctx)
	return s, nil
}

// FromToken wraps an existing token after checking it against the account endpoint.
// 包装已有令牌, 并通过账户接口校验其有效性.
func FromToken(ctx context.Context, conn *Connection, serverURL *url.URL, token string) (*Session, error) {
	if conn == nil {
		return nil, fmt.Errorf("%w: connection is required", ErrInvalidArgument)
	}
	if err := requireArg("token", token); err != nil {
		return nil, err
	}
	info, err := Send(ctx, conn, serverURL, NewAccountInfoRequest(token))
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	s := &Session{Username: info.Email, ServerURL: serverURL, AuthToken: token, conn: conn}
	s.loadVersion(ctx)
	return s, nil
}

// FromTokenUnchecked wraps a token without any network round trip.
// serverVersion may be empty; it is then fetched on the first version gated call.
// 不经网络校验直接包装令牌, serverVersion 可为空, 将在首次需要时获取.
func FromTokenUnchecked(conn *Connection, serverURL *url.URL, username, token, serverVersion string) *Session {
	return &Session{Username: username, ServerURL: serverURL, AuthToken: token, conn: conn, version: serverVersion}
}

// loadVersion fetches the server version; failure only leaves the cache empty.
func (s *Session) loadVersion(ctx context.Context) {
	info, err := GetServerInfo(ctx, s.conn, s.ServerURL)
	if err != nil {
		s.conn.logger.DebugContext(ctx, "seafile server info unavailable", "error", err.Error())
		return
	}
	s.setVersion(info.Version)
}

func (s *Session) setVersion(v string) {
	s.mu.Lock()
	s.version = v
	s.mu.Unlock()
}

// ServerVersion returns the cached server version, empty when unknown. 返回缓存的服务器版本.
func (s *Session) ServerVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Connection returns the dispatcher the session sends through. 返回会话使用的 Connection.
func (s *Session) Connection() *Connection { return s.conn }

// Close closes the underlying Connection. 关闭底层 Connection.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// ============ Dispatch ============

// sessionSend applies the version gate and sends req through the session's connection.
func sessionSend[T any](ctx context.Context, s *Session, req Request[T]) (T, error) {
	return sessionSendWithTimeout(ctx, s, req, 0)
}

func sessionSendWithTimeout[T any](ctx context.Context, s *Session, req Request[T], timeout time.Duration) (T, error) {
	var zero T
	if s == nil || s.conn == nil {
		return zero, &ProgrammingError{Reason: "session without connection"}
	}
	if err := s.checkVersion(ctx, req); err != nil {
		return zero, err
	}
	return SendWithTimeout(ctx, s.conn, s.ServerURL, req, timeout)
}

// checkVersion rejects a VersionedRequest when the server is older than it requires.
// An unknown version is fetched once and cached.
func (s *Session) checkVersion(ctx context.Context, req any) error {
	vr, ok := req.(VersionedRequest)
	if !ok || vr.MinServerVersion() == "" {
		return nil
	}
	v := s.ServerVersion()
	if v == "" {
		info, err := GetServerInfo(ctx, s.conn, s.ServerURL)
		if err != nil {
			return fmt.Errorf("server version for %s: %w", operationName(req), err)
		}
		v = info.Version
		s.setVersion(v)
	}
	if !SupportedWithServerVersion(v, vr.MinServerVersion()) {
		return fmt.Errorf("%w: %s requires %s, server runs %q",
			ErrUnsupportedServerVersion, operationName(req), vr.MinServerVersion(), v)
	}
	return nil
}

// ============ Server ============

// Ping checks that a server answers, without authentication. 无需认证检查服务器是否可达.
func Ping(ctx context.Context, conn *Connection, serverURL *url.URL) (bool, error) {
	return Send(ctx, conn, serverURL, NewPingRequest())
}

// GetServerInfo fetches the version and features of a server. 获取服务器版本与功能.
func GetServerInfo(ctx context.Context, conn *Connection, serverURL *url.URL) (ServerInfo, error) {
	return Send(ctx, conn, serverURL, NewServerInfoRequest())
}

// Ping checks that the server answers and accepts the session token. 检查服务器可达且令牌有效.
func (s *Session) Ping(ctx context.Context) (bool, error) {
	return sessionSend(ctx, s, NewAuthPingRequest(s.AuthToken))
}

// ServerInfo fetches server info and refreshes the cached version. 获取服务器信息并刷新缓存版本.
func (s *Session) ServerInfo(ctx context.Context) (ServerInfo, error) {
	info, err := sessionSend(ctx, s, NewServerInfoRequest())
	if err != nil {
		return info, err
	}
	s.setVersion(info.Version)
	return info, nil
}

// ============ Account ============

// AccountInfo fetches the account of the session. 获取会话账户信息.
func (s *Session) AccountInfo(ctx context.Context) (AccountInfo, error) {
	return sessionSend(ctx, s, NewAccountInfoRequest(s.AuthToken))
}

// UserAvatar fetches the avatar of a user; size is in pixels. 获取用户头像, size 单位为像素.
func (s *Session) UserAvatar(ctx context.Context, username string, size int) (UserAvatar, error) {
	if err := requireArg("username", username); err != nil {
		return UserAvatar{}, err
	}
	if size <= 0 {
		return UserAvatar{}, fmt.Errorf("%w: avatar size must be positive", ErrInvalidArgument)
	}
	return sessionSend(ctx, s, NewUserAvatarRequest(s.AuthToken, username, size))
}
