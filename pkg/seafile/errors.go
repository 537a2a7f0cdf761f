// Package seafile provides a Go client for the Seafile web API.
// It defines the error taxonomy shared by every operation.
// 提供 Seafile Web API 的 Go 客户端, 并定义所有操作共用的错误类型.
package seafile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies a failed seafile response. 表示 seafile 失败响应的错误类别.
type ErrorKind int

const (
	// NoDetails is used for every status an operation does not map explicitly.
	NoDetails ErrorKind = iota
	InvalidCredentials
	PathDoesNotExist
	FileNotFound
	EncryptedLibraryPasswordRequired
	InvalidToken
	OutOfQuota
	NotEnoughPermissions
	InvalidLibraryPassword
	LibraryNotEncrypted
	TooManyRequests
)

var kindNames = [...]string{
	NoDetails:                        "NoDetails",
	InvalidCredentials:               "InvalidCredentials",
	PathDoesNotExist:                 "PathDoesNotExist",
	FileNotFound:                     "FileNotFound",
	EncryptedLibraryPasswordRequired: "EncryptedLibraryPasswordRequired",
	InvalidToken:                     "InvalidToken",
	OutOfQuota:                       "OutOfQuota",
	NotEnoughPermissions:             "NotEnoughPermissions",
	InvalidLibraryPassword:           "InvalidLibraryPassword",
	LibraryNotEncrypted:              "LibraryNotEncrypted",
	TooManyRequests:                  "TooManyRequests",
}

var kindMessages = [...]string{
	InvalidCredentials:               "the given login credentials are invalid",
	PathDoesNotExist:                 "the path does not exist",
	FileNotFound:                     "the file does not exist",
	EncryptedLibraryPasswordRequired: "the library is encrypted but no password was provided",
	InvalidToken:                     "the token is invalid",
	OutOfQuota:                       "the user ran out of quota",
	NotEnoughPermissions:             "not enough permissions to execute this request",
	InvalidLibraryPassword:           "the provided library password is invalid",
	LibraryNotEncrypted:              "the library is not encrypted",
	TooManyRequests:                  "too many requests",
}

// String returns the kind name. 返回错误类别名称.
func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Message returns the human readable description for k and a status.
// NoDetails falls back to the status text.
// 返回错误类别的可读描述, NoDetails 使用 HTTP 状态文本.
func (k ErrorKind) Message(status int) string {
	if k > NoDetails && int(k) < len(kindMessages) {
		return kindMessages[k]
	}
	if status == StatusOperationFailed {
		return "operation failed"
	}
	if txt := http.StatusText(status); txt != "" {
		return txt
	}
	return fmt.Sprintf("unexpected status %d", status)
}

// Seafile specific status codes. seafile 特有的状态码.
const (
	StatusRepoPasswordRequired      = 440
	StatusRepoPasswordMagicRequired = 441
	StatusOperationFailed           = 520
)

// ============ Sentinels ============

var (
	// ErrConnectionClosed is returned by every send after Connection.Close.
	ErrConnectionClosed = errors.New("seafile: connection closed")
	// ErrInvalidArgument reports a missing or malformed argument, detected before any I/O.
	ErrInvalidArgument = errors.New("seafile: invalid argument")
	// ErrUnsupportedServerVersion reports an operation the server is too old for.
	ErrUnsupportedServerVersion = errors.New("seafile: operation not supported by server version")
	// ErrUnexpectedResponse reports a success status whose body could not be understood.
	ErrUnexpectedResponse = errors.New("seafile: unexpected response")
	// ErrNoDefaultLibrary is returned when the account has no default library.
	ErrNoDefaultLibrary = errors.New("seafile: no default library")
)

// Kind sentinels, matched through errors.Is against any *APIError of the same kind.
// 错误类别哨兵, 通过 errors.Is 与相同类别的 *APIError 匹配.
var (
	ErrInvalidCredentials               = &APIError{Kind: InvalidCredentials}
	ErrPathDoesNotExist                 = &APIError{Kind: PathDoesNotExist}
	ErrFileNotFound                     = &APIError{Kind: FileNotFound}
	ErrEncryptedLibraryPasswordRequired = &APIError{Kind: EncryptedLibraryPasswordRequired}
	ErrInvalidToken                     = &APIError{Kind: InvalidToken}
	ErrOutOfQuota                       = &APIError{Kind: OutOfQuota}
	ErrNotEnoughPermissions             = &APIError{Kind: NotEnoughPermissions}
	ErrInvalidLibraryPassword           = &APIError{Kind: InvalidLibraryPassword}
	ErrLibraryNotEncrypted              = &APIError{Kind: LibraryNotEncrypted}
	ErrTooManyRequests                  = &APIError{Kind: TooManyRequests}
)

// ============ Domain Error ============

// APIError is a failure reported by the server: the request reached seafile and was refused.
// 表示服务器返回的失败: 请求已到达 seafile 但被拒绝.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	// RetryAfter is only set for TooManyRequests. 仅在 TooManyRequests 时设置.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("seafile: %s (status %d)", e.Kind.Message(e.StatusCode), e.StatusCode)
}

// Is matches kind sentinels: a sentinel without status matches every error of its kind.
// 与类别哨兵匹配: 未设置状态码的哨兵匹配同类别的所有错误.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.StatusCode == 0 || t.StatusCode == e.StatusCode
}

// TooManyRequestsError is returned for status 429 and carries the server's back-off time.
// 429 状态对应的错误, 携带服务器要求的等待时间.
type TooManyRequestsError struct {
	APIError
}

func (e *TooManyRequestsError) Error() string {
	return fmt.Sprintf("seafile: too many requests, retry after %s", e.RetryAfter)
}

// Unwrap exposes the embedded APIError. 暴露内嵌的 APIError.
func (e *TooManyRequestsError) Unwrap() error { return &e.APIError }

func newTooManyRequests(wait time.Duration) *TooManyRequestsError {
	return &TooManyRequestsError{APIError{Kind: TooManyRequests, StatusCode: http.StatusTooManyRequests, RetryAfter: wait}}
}

// ============ Transport & Programming Errors ============

// TransportError reports that seafile could not be reached or the exchange broke off:
// DNS, TLS, connection resets, deadlines and unreadable response bodies.
// 表示无法连接到 seafile 或通信中断: DNS、TLS、连接重置、超时及响应体读取失败.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("seafile: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline or network timeout. 是否为超时.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// ProgrammingError signals a misconfigured operation descriptor.
// It is raised before any network I/O and must never be retried.
// 表示操作描述符配置错误, 在任何网络 I/O 之前抛出, 不应重试.
type ProgrammingError struct {
	Reason string
}

func (e *ProgrammingError) Error() string { return "seafile: programming error: " + e.Reason }

// ============ Helpers ============

// KindOf returns the kind of a domain error, and false for any other error.
// 返回领域错误的类别, 其他错误返回 false.
func KindOf(err error) (ErrorKind, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return NoDetails, false
}

// RetryAfter returns the wait announced by a 429 response. 返回 429 响应要求的等待时间.
func RetryAfter(err error) (time.Duration, bool) {
	var tm *TooManyRequestsError
	if errors.As(err, &tm) {
		return tm.RetryAfter, true
	}
	return 0, false
}

// IsTransport reports whether err means the server was not reached or the exchange failed.
// 判断是否为传输层错误.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Translate resolves a failing status through an operation's override table.
// Statuses absent from the table map to NoDetails.
// 通过操作的覆盖表解析失败状态码, 表中不存在的状态码映射为 NoDetails.
func Translate(status int, overrides map[int]ErrorKind) ErrorKind {
	if k, ok := overrides[status]; ok {
		return k
	}
	return NoDetails
}
