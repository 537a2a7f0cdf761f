package seafile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/GoFurry/seafile-sdk-go/internal/secure"
)

// ============ Authentication ============

// AuthRequest exchanges a username and password for an auth token.
// The caller's password slice is zeroed once the request is built or the send returns.
// 使用用户名和密码换取令牌, 构造请求后或发送返回时清零调用方的密码切片.
type AuthRequest struct {
	baseRequest
	Username string
	password []byte
}

// NewAuthRequest keeps a reference to password so it can be wiped after use.
func NewAuthRequest(username string, password []byte) *AuthRequest {
	return &AuthRequest{
		baseRequest: newBase("Auth", map[int]ErrorKind{http.StatusBadRequest: InvalidCredentials}),
		Username:    username,
		password:    password,
	}
}

func (r *AuthRequest) Path() string   { return "api2/auth-token/" }
func (r *AuthRequest) Method() Method { return MethodCustom }

func (r *AuthRequest) Wipe() { secure.Wipe(r.password) }

func (r *AuthRequest) BuildRequest(ctx context.Context, server *url.URL) (*http.Request, error) {
	defer secure.Wipe(r.password)
	return newFormRequest(ctx, server, http.MethodPost, r.Path(), r.Headers(),
		secure.Text("username", r.Username),
		secure.Field("password", r.password),
	)
}

func (r *AuthRequest) ParseResponse(body []byte) (string, error) {
	v, err := decodeJSON[struct {
		Token string `json:"token"`
	}](body)
	if err != nil {
		return "", err
	}
	if v.Token == "" {
		return "", fmt.Errorf("%w: empty token", ErrUnexpectedResponse)
	}
	return v.Token, nil
}

// ============ Ping ============

// PingRequest checks that the server answers, without authentication. 无需认证的连通性检查.
type PingRequest struct {
	baseRequest
}

func NewPingRequest() *PingRequest {
	return &PingRequest{baseRequest: newBase("Ping", nil)}
}

func (r *PingRequest) Path() string                            { return "api2/ping/" }
func (r *PingRequest) Method() Method                          { return MethodGet }
func (r *PingRequest) ParseResponse(body []byte) (bool, error) { return parsePong(body) }

// AuthPingRequest checks that the server answers and the token is accepted. 带认证的连通性检查.
type AuthPingRequest struct {
	sessionRequest
}

func NewAuthPingRequest(token string) *AuthPingRequest {
	return &AuthPingRequest{sessionRequest: newSession("AuthPing", token, map[int]ErrorKind{
		http.StatusUnauthorized: InvalidToken,
		http.StatusForbidden:    InvalidToken,
	})}
}

func (r *AuthPingRequest) Path() string                            { return "api2/auth/ping/" }
func (r *AuthPingRequest) Method() Method                          { return MethodGet }
func (r *AuthPingRequest) ParseResponse(body []byte) (bool, error) { return parsePong(body) }

func parsePong(body []byte) (bool, error) {
	s, err := parseQuotedString(body)
	if err != nil {
		return false, err
	}
	if s != "pong" {
		return false, fmt.Errorf("%w: %q", ErrUnexpectedResponse, truncate(body, 64))
	}
	return true, nil
}

// ============ Server & Account ============

// ServerInfoRequest fetches the server version and features. 获取服务器版本与功能.
type ServerInfoRequest struct {
	baseRequest
}

func NewServerInfoRequest() *ServerInfoRequest {
	return &ServerInfoRequest{baseRequest: newBase("ServerInfo", nil)}
}

func (r *ServerInfoRequest) Path() string   { return "api2/server-info/" }
func (r *ServerInfoRequest) Method() Method { return MethodGet }
func (r *ServerInfoRequest) ParseResponse(body []byte) (ServerInfo, error) {
	return decodeJSON[ServerInfo](body)
}

// AccountInfoRequest fetches the account bound to the token. 获取令牌对应的账户信息.
type AccountInfoRequest struct {
	sessionRequest
}

func NewAccountInfoRequest(token string) *AccountInfoRequest {
	return &AccountInfoRequest{sessionRequest: newSession("AccountInfo", token, map[int]ErrorKind{
		http.StatusUnauthorized: InvalidToken,
		http.StatusForbidden:    InvalidToken,
	})}
}

func (r *AccountInfoRequest) Path() string   { return "api2/account/info/" }
func (r *AccountInfoRequest) Method() Method { return MethodGet }
func (r *AccountInfoRequest) ParseResponse(body []byte) (AccountInfo, error) {
	return decodeJSON[AccountInfo](body)
}

// UserAvatarRequest fetches the avatar of a user at a given pixel size. 获取指定尺寸的用户头像.
type UserAvatarRequest struct {
	sessionRequest
	Username string
	Size     int
}

func NewUserAvatarRequest(token, username string, size int) *UserAvatarRequest {
	return &UserAvatarRequest{
		sessionRequest: newSession("UserAvatar", token, map[int]ErrorKind{http.StatusNotFound: PathDoesNotExist}),
		Username:       username,
		Size:           size,
	}
}

func (r *UserAvatarRequest) Path() string {
	return "api2/avatars/user/" + url.PathEscape(r.Username) + "/resized/" + strconv.Itoa(r.Size) + "/"
}
func (r *UserAvatarRequest) Method() Method { return MethodGet }
func (r *UserAvatarRequest) ParseResponse(body []byte) (UserAvatar, error) {
	return decodeJSON[UserAvatar](body)
}
