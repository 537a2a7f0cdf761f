// Package seafile provides a Go client for the Seafile web API.
// It defines the operation descriptor contract every API call implements.
// 提供 Seafile Web API 的 Go 客户端, 并定义所有 API 调用实现的操作描述符约定.
package seafile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/GoFurry/seafile-sdk-go/internal/secure"
	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

// Method selects how the dispatcher builds the wire request. 决定调度器如何构造请求.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPost
	MethodPut
	MethodDelete
	// MethodCustom delegates request construction to the descriptor's BuildRequest.
	MethodCustom
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodDelete:
		return http.MethodDelete
	case MethodCustom:
		return "CUSTOM"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Header is one request header. 单个请求头.
type Header struct {
	Name  string
	Value string
}

// Param is one form parameter. 单个表单参数.
type Param struct {
	Name  string
	Value string
}

// ============ Descriptor Contract ============

// Request describes one seafile API call producing a T.
// 描述一次产生 T 结果的 seafile API 调用.
type Request[T any] interface {
	// Path is relative to the server address and may carry an encoded query.
	Path() string
	Method() Method
	Headers() []Header
	// BodyParams are form encoded for Post and Put; an empty slice means no body.
	BodyParams() []Param
	IsSuccess(status int, header http.Header) bool
	ParseResponse(body []byte) (T, error)
	TranslateError(status int) ErrorKind
}

// CustomBuilder is implemented by MethodCustom descriptors. 由 MethodCustom 描述符实现.
type CustomBuilder interface {
	BuildRequest(ctx context.Context, server *url.URL) (*http.Request, error)
}

// BodyProvider lets a Post or Put descriptor supply a body other than a url-encoded form.
// 允许 Post/Put 描述符提供非表单编码的请求体.
type BodyProvider interface {
	Body() (r io.Reader, contentType string, err error)
}

// VersionedRequest declares the minimum server version an operation needs.
// 声明操作所需的最低服务器版本.
type VersionedRequest interface {
	MinServerVersion() string
}

// Wiper is implemented by descriptors holding secret bytes. The dispatcher
// calls Wipe once the send returns, whichever way it exits.
// 持有敏感字节的描述符实现此接口, 调度器在发送返回后清零.
type Wiper interface {
	Wipe()
}

// Named gives a descriptor a stable operation name for logs and metrics. 日志与指标使用的操作名.
type Named interface {
	OperationName() string
}

// ============ Base Descriptors ============

// baseRequest supplies the defaults: Accept header, 2xx success, table driven errors.
type baseRequest struct {
	name      string
	overrides map[int]ErrorKind
}

func (b baseRequest) OperationName() string { return b.name }

func (b baseRequest) Headers() []Header {
	return []Header{{Name: "Accept", Value: "application/json"}}
}

func (b baseRequest) BodyParams() []Param { return nil }

func (b baseRequest) IsSuccess(status int, _ http.Header) bool { return is2xx(status) }

func (b baseRequest) TranslateError(status int) ErrorKind { return Translate(status, b.overrides) }

// sessionRequest adds the token authorization header.
type sessionRequest struct {
	baseRequest
	token string
}

func (s sessionRequest) Headers() []Header {
	return append(s.baseRequest.Headers(), Header{Name: "Authorization", Value: "Token " + s.token})
}

func newBase(name string, errs map[int]ErrorKind) baseRequest {
	return baseRequest{name: name, overrides: errs}
}

func newSession(name, token string, errs map[int]ErrorKind) sessionRequest {
	return sessionRequest{baseRequest: newBase(name, errs), token: token}
}

// ============ Response Helpers ============

func is2xx(status int) bool { return status >= 200 && status < 300 }

func decodeJSON[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return v, nil
}

// parseAck accepts the literal JSON string "success" most seafile writes answer with,
// or a JSON object newer servers send instead. {"success": false} is rejected.
func parseAck(body []byte) (bool, error) {
	trimmed := strings.TrimSpace(string(body))
	if util.TrimQuotes(trimmed) == "success" {
		return true, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			if raw, ok := obj["success"]; ok && string(raw) == "false" {
				return false, fmt.Errorf("%w: server reported failure", ErrUnexpectedResponse)
			}
			return true, nil
		}
	}
	return false, fmt.Errorf("%w: %q", ErrUnexpectedResponse, truncate(body, 128))
}

func parseQuotedString(body []byte) (string, error) {
	s := util.TrimQuotes(string(body))
	if s == "" {
		return "", fmt.Errorf("%w: empty body", ErrUnexpectedResponse)
	}
	return s, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// ============ Path Helpers ============

// apiPath renders a relative descriptor path with an encoded query.
func apiPath(p string, query url.Values) string {
	if len(query) == 0 {
		return p
	}
	return p + "?" + query.Encode()
}

// pathQuery builds the ?p= query seafile uses for in-library paths.
func pathQuery(p string, extra ...Param) url.Values {
	q := url.Values{}
	q.Set("p", p)
	for _, e := range extra {
		q.Set(e.Name, e.Value)
	}
	return q
}

func requireArg(name, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return nil
}

// newFormRequest builds a request whose url-encoded body streams from a secure.Form.
// The body has no declared length and is wiped once the transport has consumed or closed it.
func newFormRequest(ctx context.Context, server *url.URL, method, p string, headers []Header, pairs ...secure.Pair) (*http.Request, error) {
	target, err := ResolveURL(server, p)
	if err != nil {
		return nil, err
	}
	body := secure.NewForm(pairs...).Reader()
	r, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		body.Close()
		return nil, &ProgrammingError{Reason: err.Error()}
	}
	r.ContentLength = -1
	for _, h := range headers {
		r.Header.Add(h.Name, h.Value)
	}
	r.Header.Set("Content-Type", secure.ContentType)
	return r, nil
}

// formBody renders plain (non secret) params; secret ones go through internal/secure.
func formBody(params []Param) io.Reader {
	return strings.NewReader(encodeOrdered(params))
}

// encodeOrdered keeps parameter order as declared, which url.Values.Encode does not.
func encodeOrdered(params []Param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
