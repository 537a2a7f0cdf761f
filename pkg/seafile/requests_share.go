package seafile

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

const shareLinksEndpoint = "api/v2.1/share-links/"

// ListShareLinksRequest lists share links, optionally filtered by library and path.
// 列出共享链接, 可按资料库和路径过滤.
type ListShareLinksRequest struct {
	sessionRequest
	LibraryID string
	FilePath  string
}

func NewListShareLinksRequest(token, libraryID, filePath string) *ListShareLinksRequest {
	r := &ListShareLinksRequest{
		sessionRequest: newSession("ListShareLinks", token, map[int]ErrorKind{http.StatusNotFound: PathDoesNotExist}),
		LibraryID:      libraryID,
	}
	if filePath != "" {
		r.FilePath = util.NormalizePath(filePath)
	}
	return r
}

func (r *ListShareLinksRequest) Path() string {
	q := url.Values{}
	if r.LibraryID != "" {
		q.Set("repo_id", r.LibraryID)
		if r.FilePath != "" {
			q.Set("path", r.FilePath)
		}
	}
	return apiPath(shareLinksEndpoint, q)
}
func (r *ListShareLinksRequest) Method() Method { return MethodGet }
func (r *ListShareLinksRequest) ParseResponse(body []byte) ([]ShareLink, error) {
	return decodeJSON[[]ShareLink](body)
}

// CreateShareLinkRequest creates a share link; its body is JSON. 新建共享链接, 请求体为 JSON.
type CreateShareLinkRequest struct {
	sessionRequest
	LibraryID string
	FilePath  string
	Options   ShareLinkOptions
}

func NewCreateShareLinkRequest(token, libraryID, filePath string, opts ShareLinkOptions) *CreateShareLinkRequest {
	return &CreateShareLinkRequest{
		sessionRequest: newSession("CreateShareLink", token, map[int]ErrorKind{
			http.StatusBadRequest: PathDoesNotExist,
			http.StatusNotFound:   FileNotFound,
			http.StatusForbidden:  NotEnoughPermissions,
		}),
		LibraryID: libraryID,
		FilePath:  util.NormalizePath(filePath),
		Options:   opts,
	}
}

func (r *CreateShareLinkRequest) Path() string   { return shareLinksEndpoint }
func (r *CreateShareLinkRequest) Method() Method { return MethodPost }

func (r *CreateShareLinkRequest) Body() (io.Reader, string, error) {
	payload := struct {
		LibraryID   string               `json:"repo_id"`
		Path        string               `json:"path"`
		Permissions ShareLinkPermissions `json:"permissions"`
		ExpireDays  int                  `json:"expire_days,omitempty"`
	}{r.LibraryID, r.FilePath, r.Options.Permissions, r.Options.ExpireDays}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(b), "application/json", nil
}

func (r *CreateShareLinkRequest) ParseResponse(body []byte) (ShareLink, error) {
	return decodeJSON[ShareLink](body)
}

// DeleteShareLinkRequest deletes a share link by token. 按 token 删除共享链接.
type DeleteShareLinkRequest struct {
	sessionRequest
	Token string
}

func NewDeleteShareLinkRequest(token, linkToken string) *DeleteShareLinkRequest {
	return &DeleteShareLinkRequest{
		sessionRequest: newSession("DeleteShareLink", token, map[int]ErrorKind{
			http.StatusNotFound:  FileNotFound,
			http.StatusForbidden: NotEnoughPermissions,
		}),
		Token: linkToken,
	}
}

func (r *DeleteShareLinkRequest) Path() string {
	return shareLinksEndpoint + url.PathEscape(r.Token) + "/"
}
func (r *DeleteShareLinkRequest) Method() Method                          { return MethodDelete }
func (r *DeleteShareLinkRequest) ParseResponse(body []byte) (bool, error) { return parseAck(body) }
