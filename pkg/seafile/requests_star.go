package seafile

import (
	"net/http"
	"net/url"

	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

const starredEndpoint = "api2/starredfiles/"

// ListStarredFilesRequest lists the user's starred files and directories. 列出用户收藏的文件和目录.
type ListStarredFilesRequest struct {
	sessionRequest
}

func NewListStarredFilesRequest(token string) *ListStarredFilesRequest {
	return &ListStarredFilesRequest{sessionRequest: newSession("ListStarredFiles", token, nil)}
}

func (r *ListStarredFilesRequest) Path() string   { return starredEndpoint }
func (r *ListStarredFilesRequest) Method() Method { return MethodGet }
func (r *ListStarredFilesRequest) ParseResponse(body []byte) ([]StarredFile, error) {
	return decodeJSON[[]StarredFile](body)
}

// StarFileRequest stars a file. The server answers 201 Created. 收藏文件, 服务器返回 201.
type StarFileRequest struct {
	sessionRequest
	LibraryID string
	FilePath  string
}

func NewStarFileRequest(token, libraryID, filePath string) *StarFileRequest {
	return &StarFileRequest{
		sessionRequest: newSession("StarFile", token, map[int]ErrorKind{
			http.StatusBadRequest: PathDoesNotExist,
			http.StatusNotFound:   FileNotFound,
		}),
		LibraryID: libraryID,
		FilePath:  util.NormalizePath(filePath),
	}
}

func (r *StarFileRequest) Path() string   { return starredEndpoint }
func (r *StarFileRequest) Method() Method { return MethodPost }
func (r *StarFileRequest) BodyParams() []Param {
	return []Param{{"repo_id", r.LibraryID}, {"p", r.FilePath}}
}
func (r *StarFileRequest) IsSuccess(status int, _ http.Header) bool {
	return status == http.StatusCreated
}
func (r *StarFileRequest) ParseResponse(body []byte) (bool, error) { return parseAck(body) }

// UnstarFileRequest removes a star; its parameters travel in the query. 取消收藏, 参数位于查询串中.
type UnstarFileRequest struct {
	sessionRequest
	LibraryID string
	FilePath  string
}

func NewUnstarFileRequest(token, libraryID, filePath string) *UnstarFileRequest {
	return &UnstarFileRequest{
		sessionRequest: newSession("UnstarFile", token, map[int]ErrorKind{
			http.StatusBadRequest: PathDoesNotExist,
		}),
		LibraryID: libraryID,
		FilePath:  util.NormalizePath(filePath),
	}
}

func (r *UnstarFileRequest) Path() string {
	q := url.Values{}
	q.Set("repo_id", r.LibraryID)
	q.Set("p", r.FilePath)
	return apiPath(starredEndpoint, q)
}
func (r *UnstarFileRequest) Method() Method { return MethodDelete }
func (r *UnstarFileRequest) IsSuccess(status int, _ http.Header) bool {
	return status == http.StatusOK
}
func (r *UnstarFileRequest) ParseResponse(body []byte) (bool, error) { return parseAck(body) }
