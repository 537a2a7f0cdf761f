package seafile

import (
	"context"
	"net/http"
	"net/url"

	"github.com/GoFurry/seafile-sdk-go/internal/secure"
)

func libraryPath(id string) string { return "api2/repos/" + url.PathEscape(id) + "/" }

// ListLibrariesRequest lists the libraries the user can access. 列出用户可访问的资料库.
type ListLibrariesRequest struct {
	sessionRequest
}

func NewListLibrariesRequest(token string) *ListLibrariesRequest {
	return &ListLibrariesRequest{sessionRequest: newSession("ListLibraries", token, nil)}
}

func (r *ListLibrariesRequest) Path() string   { return "api2/repos/" }
func (r *ListLibrariesRequest) Method() Method { return MethodGet }
func (r *ListLibrariesRequest) ParseResponse(body []byte) ([]Library, error) {
	return decodeJSON[[]Library](body)
}

// ListSharedLibrariesRequest lists libraries other users shared with the user. 列出共享给用户的资料库.
type ListSharedLibrariesRequest struct {
	sessionRequest
}

func NewListSharedLibrariesRequest(token string) *ListSharedLibrariesRequest {
	return &ListSharedLibrariesRequest{sessionRequest: newSession("ListSharedLibraries", token, nil)}
}

func (r *ListSharedLibrariesRequest) Path() string   { return "api2/shared-repos/" }
func (r *ListSharedLibrariesRequest) Method() Method { return MethodGet }
func (r *ListSharedLibrariesRequest) ParseResponse(body []byte) ([]SharedLibrary, error) {
	return decodeJSON[[]SharedLibrary](body)
}

// GetLibraryInfoRequest fetches a single library. 获取单个资料库信息.
type GetLibraryInfoRequest struct {
	sessionRequest
	LibraryID string
}

func NewGetLibraryInfoRequest(token, libraryID string) *GetLibraryInfoRequest {
	return &GetLibraryInfoRequest{
		sessionRequest: newSession("GetLibraryInfo", token, map[int]ErrorKind{http.StatusNotFound: PathDoesNotExist}),
		LibraryID:      libraryID,
	}
}

func (r *GetLibraryInfoRequest) Path() string   { return libraryPath(r.LibraryID) }
func (r *GetLibraryInfoRequest) Method() Method { return MethodGet }
func (r *GetLibraryInfoRequest) ParseResponse(body []byte) (Library, error) {
	return decodeJSON[Library](body)
}

// GetDefaultLibraryRequest fetches the id of the user's default library. 获取默认资料库 id.
type GetDefaultLibraryRequest struct {
	sessionRequest
}

func NewGetDefaultLibraryRequest(token string) *GetDefaultLibraryRequest {
	return &GetDefaultLibraryRequest{sessionRequest: newSession("GetDefaultLibrary", token, nil)}
}

func (r *GetDefaultLibraryRequest) Path() string   { return "api2/default-repo/" }
func (r *GetDefaultLibraryRequest) Method() Method { return MethodGet }
func (r *GetDefaultLibraryRequest) ParseResponse(body []byte) (DefaultLibraryRef, error) {
	return decodeJSON[DefaultLibraryRef](body)
}

// CreateLibraryRequest creates a library, encrypted when a password is given.
// The password travels through a wiped credential form and the caller's slice is zeroed.
// 新建资料库, 提供密码时创建加密库, 密码通过凭据表单传输且调用方切片会被清零.
type CreateLibraryRequest struct {
	sessionRequest
	Name        string
	Description string
	password    []byte
}

func NewCreateLibraryRequest(token, name, description string, password []byte) *CreateLibraryRequest {
	return &CreateLibraryRequest{
		sessionRequest: newSession("CreateLibrary", token, nil),
		Name:           name,
		Description:    description,
		password:       password,
	}
}

// Encrypted reports whether the library will be created encrypted. 是否创建加密库.
func (r *CreateLibraryRequest) Encrypted() bool { return len(r.password) > 0 }

func (r *CreateLibraryRequest) Path() string   { return "api2/repos/" }
func (r *CreateLibraryRequest) Method() Method { return MethodCustom }

func (r *CreateLibraryRequest) Wipe() { secure.Wipe(r.password) }

func (r *CreateLibraryRequest) BuildRequest(ctx context.Context, server *url.URL) (*http.Request, error) {
	defer secure.Wipe(r.password)
	pairs := []secure.Pair{
		secure.Text("name", r.Name),
		secure.Text("desc", r.Description),
	}
	if r.Encrypted() {
		pairs = append(pairs, secure.Field("passwd", r.password))
	}
	return newFormRequest(ctx, server, http.MethodPost, r.Path(), r.Headers(), pairs...)
}

func (r *CreateLibraryRequest) ParseResponse(body []byte) (LibraryRef, error) {
	return decodeJSON[LibraryRef](body)
}

// DecryptLibraryRequest unlocks an encrypted library for the session. 为会话解锁加密资料库.
type DecryptLibraryRequest struct {
	sessionRequest
	LibraryID string
	password  []byte
}

func NewDecryptLibraryRequest(token, libraryID string, password []byte) *DecryptLibraryRequest {
	return &DecryptLibraryRequest{
		sessionRequest: newSession("DecryptLibrary", token, map[int]ErrorKind{
			http.StatusBadRequest: InvalidLibraryPassword,
			http.StatusConflict:   LibraryNotEncrypted,
		}),
		LibraryID: libraryID,
		password:  password,
	}
}

func (r *DecryptLibraryRequest) Path() string   { return libraryPath(r.LibraryID) }
func (r *DecryptLibraryRequest) Method() Method { return MethodCustom }

func (r *DecryptLibraryRequest) Wipe() { secure.Wipe(r.password) }

func (r *DecryptLibraryRequest) BuildRequest(ctx context.Context, server *url.URL) (*http.Request, error) {
	defer secure.Wipe(r.password)
	return newFormRequest(ctx, server, http.MethodPost, r.Path(), r.Headers(), secure.Field("password", r.password))
}

func (r *DecryptLibraryRequest) ParseResponse(body []byte) (bool, error) { return parseAck(body) }

// DeleteLibraryRequest deletes a library owned by the user. 删除用户拥有的资料库.
type DeleteLibraryRequest struct {
	sessionRequest
	LibraryID string
}

func NewDeleteLibraryRequest(token, libraryID string) *DeleteLibraryRequest {
	return &DeleteLibraryRequest{
		sessionRequest: newSession("DeleteLibrary", token, map[int]ErrorKind{
			http.StatusBadRequest: PathDoesNotExist,
			http.StatusForbidden:  NotEnoughPermissions,
		}),
		LibraryID: libraryID,
	}
}

func (r *DeleteLibraryRequest) Path() string                            { return libraryPath(r.LibraryID) }
func (r *DeleteLibraryRequest) Method() Method                          { return MethodDelete }
func (r *DeleteLibraryRequest) ParseResponse(body []byte) (bool, error) { return parseAck(body) }
