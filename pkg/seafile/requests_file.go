package seafile

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

func fileEndpoint(libraryID string) string { return libraryPath(libraryID) + "file/" }

// GetFileDetailRequest fetches the metadata of a file. 获取文件元数据.
type GetFileDetailRequest struct {
	sessionRequest
	LibraryID string
	FilePath  string
}

func NewGetFileDetailRequest(token, libraryID, filePath string) *GetFileDetailRequest {
	return &GetFileDetailRequest{
		sessionRequest: newSession("GetFileDetail", token, map[int]ErrorKind{
			http.StatusBadRequest:      PathDoesNotExist,
			http.StatusNotFound:        FileNotFound,
			StatusRepoPasswordRequired: EncryptedLibraryPasswordRequired,
		}),
		LibraryID: libraryID,
		FilePath:  util.NormalizePath(filePath),
	}
}

func (r *GetFileDetailRequest) Path() string {
	return apiPath(fileEndpoint(r.LibraryID)+"detail/", pathQuery(r.FilePath))
}
func (r *GetFileDetailRequest) Method() Method { return MethodGet }
func (r *GetFileDetailRequest) ParseResponse(body []byte) (DirEntry, error) {
	e, err := decodeJSON[DirEntry](body)
	if err != nil {
		return e, err
	}
	e.LibraryID = r.LibraryID
	e.Path = r.FilePath
	return e, nil
}

// GetFileDownloadLinkRequest fetches a download URL for a file.
// Links are single use unless Reuse is set.
// 获取文件下载链接, 除非设置 Reuse, 链接只能使用一次.
type GetFileDownloadLinkRequest struct {
	sessionRequest
	LibraryID string
	FilePath  string
	Reuse     bool
}

func NewGetFileDownloadLinkRequest(token, libraryID, filePath string) *GetFileDownloadLinkRequest {
	return &GetFileDownloadLinkRequest{
		sessionRequest: newSession("GetFileDownloadLink", token, map[int]ErrorKind{
			http.StatusBadRequest:      PathDoesNotExist,
			http.StatusNotFound:        FileNotFound,
			StatusRepoPasswordRequired: EncryptedLibraryPasswordRequired,
		}),
		LibraryID: libraryID,
		FilePath:  util.NormalizePath(filePath),
	}
}

func (r *GetFileDownloadLinkRequest) Path() string {
	var extra []Param
	if r.Reuse {
		extra = append(extra, Param{"reuse", "1"})
	}
	return apiPath(fileEndpoint(r.LibraryID), pathQuery(r.FilePath, extra...))
}
func (r *GetFileDownloadLinkRequest) Method() Method { return MethodGet }
func (r *GetFileDownloadLinkRequest) ParseResponse(body []byte) (string, error) {
	return parseQuotedString(body)
}

// ============ Rename / Move / Copy ============

// fileOperation is the shared shape of the POST file/?p= operations.
// The server answers 404 with a "not found" body even when the operation succeeded,
// and older releases redirect with 301/302; both count as success here.
type fileOperation struct {
	sessionRequest
	LibraryID string
	FilePath  string
	operation string
}

func newFileOperation(name, token, libraryID, filePath, operation string) fileOperation {
	return fileOperation{
		sessionRequest: newSession(name, token, map[int]ErrorKind{
			http.StatusBadRequest: PathDoesNotExist,
			http.StatusForbidden:  NotEnoughPermissions,
		}),
		LibraryID: libraryID,
		FilePath:  util.NormalizePath(filePath),
		operation: operation,
	}
}

func (r fileOperation) Path() string {
	return apiPath(fileEndpoint(r.LibraryID), pathQuery(r.FilePath))
}

func (r fileOperation) Method() Method { return MethodPost }

func (r fileOperation) IsSuccess(status int, _ http.Header) bool {
	switch status {
	case http.StatusNotFound, http.StatusMovedPermanently, http.StatusFound:
		return true
	}
	return is2xx(status)
}

// ParseResponse returns false, without error, for a body that is neither an
// acknowledgement nor the "not found" quirk.
func (r fileOperation) ParseResponse(body []byte) (bool, error) {
	if bytes.Contains(body, []byte("not found")) {
		return true, nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true, nil
	}
	ok, err := parseAck(body)
	if err != nil {
		return false, nil
	}
	return ok, nil
}

// RenameFileRequest renames a file in place. 重命名文件.
type RenameFileRequest struct {
	fileOperation
	NewName string
}

func NewRenameFileRequest(token, libraryID, filePath, newName string) *RenameFileRequest {
	return &RenameFileRequest{
		fileOperation: newFileOperation("RenameFile", token, libraryID, filePath, "rename"),
		NewName:       newName,
	}
}

func (r *RenameFileRequest) BodyParams() []Param {
	return []Param{{"operation", r.operation}, {"newname", r.NewName}}
}

// CopyFileRequest copies a file into a directory of any library. 复制文件到任意资料库的目录.
type CopyFileRequest struct {
	fileOperation
	TargetLibraryID string
	TargetDir       string
}

func NewCopyFileRequest(token, libraryID, filePath, targetLibraryID, targetDir string) *CopyFileRequest {
	return &CopyFileRequest{
		fileOperation:   newFileOperation("CopyFile", token, libraryID, filePath, "copy"),
		TargetLibraryID: targetLibraryID,
		TargetDir:       util.NormalizePath(targetDir),
	}
}

func (r *CopyFileRequest) BodyParams() []Param {
	return []Param{{"operation", r.operation}, {"dst_repo", r.TargetLibraryID}, {"dst_dir", r.TargetDir}}
}

// MoveFileRequest moves a file into a directory of any library. 移动文件到任意资料库的目录.
type MoveFileRequest struct {
	fileOperation
	TargetLibraryID string
	TargetDir       string
}

func NewMoveFileRequest(token, libraryID, filePath, targetLibraryID, targetDir string) *MoveFileRequest {
	return &MoveFileRequest{
		fileOperation:   newFileOperation("MoveFile", token, libraryID, filePath, "move"),
		TargetLibraryID: targetLibraryID,
		TargetDir:       util.NormalizePath(targetDir),
	}
}

func (r *MoveFileRequest) BodyParams() []Param {
	return []Param{{"operation", r.operation}, {"dst_repo", r.TargetLibraryID}, {"dst_dir", r.TargetDir}}
}

// ============ Thumbnails ============

// GetThumbnailRequest fetches a thumbnail of an image as raw bytes. 以原始字节获取图片缩略图.
type GetThumbnailRequest struct {
	sessionRequest
	LibraryID string
	FilePath  string
	Size      int
}

func NewGetThumbnailRequest(token, libraryID, filePath string, size int) *GetThumbnailRequest {
	return &GetThumbnailRequest{
		sessionRequest: newSession("GetThumbnail", token, map[int]ErrorKind{
			http.StatusBadRequest: PathDoesNotExist,
			http.StatusNotFound:   FileNotFound,
		}),
		LibraryID: libraryID,
		FilePath:  util.NormalizePath(filePath),
		Size:      size,
	}
}

func (r *GetThumbnailRequest) Path() string {
	return apiPath(libraryPath(r.LibraryID)+"thumbnail/", pathQuery(r.FilePath, Param{"size", strconv.Itoa(r.Size)}))
}
func (r *GetThumbnailRequest) Method() Method { return MethodGet }

// ParseResponse returns the image bytes unmodified.
func (r *GetThumbnailRequest) ParseResponse(body []byte) ([]byte, error) {
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
