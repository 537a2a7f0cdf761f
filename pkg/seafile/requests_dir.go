package seafile

import (
	"fmt"
	"net/http"

	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

func dirEndpoint(libraryID string) string { return libraryPath(libraryID) + "dir/" }

// ListDirectoryRequest lists a directory of a library.
// Recursive listings are only served for directories, so they require OnlyDirectories.
// 列出资料库中的目录, 递归列出仅支持目录, 需配合 OnlyDirectories 使用.
type ListDirectoryRequest struct {
	sessionRequest
	LibraryID string
	Dir       string
	Filter    DirFilter
	Recursive bool
}

func NewListDirectoryRequest(token, libraryID, dir string, filter DirFilter, recursive bool) (*ListDirectoryRequest, error) {
	if recursive && filter != OnlyDirectories {
		return nil, fmt.Errorf("%w: recursive listing requires the OnlyDirectories filter", ErrInvalidArgument)
	}
	return &ListDirectoryRequest{
		sessionRequest: newSession("ListDirectory", token, map[int]ErrorKind{
			http.StatusNotFound:        PathDoesNotExist,
			StatusRepoPasswordRequired: EncryptedLibraryPasswordRequired,
		}),
		LibraryID: libraryID,
		Dir:       util.DirPath(dir),
		Filter:    filter,
		Recursive: recursive,
	}, nil
}

func (r *ListDirectoryRequest) Path() string {
	var extra []Param
	switch {
	case r.Recursive:
		extra = []Param{{"t", "d"}, {"recursive", "1"}}
	case r.Filter == OnlyFiles:
		extra = []Param{{"t", "f"}}
	case r.Filter == OnlyDirectories:
		extra = []Param{{"t", "d"}}
	}
	return apiPath(dirEndpoint(r.LibraryID), pathQuery(r.Dir, extra...))
}

func (r *ListDirectoryRequest) Method() Method { return MethodGet }

// ParseResponse sets the library and the full in-library path on every entry.
// Recursive listings carry each entry's parent directory.
func (r *ListDirectoryRequest) ParseResponse(body []byte) ([]DirEntry, error) {
	entries, err := decodeJSON[[]DirEntry](body)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		parent := r.Dir
		if entries[i].ParentDir != "" {
			parent = entries[i].ParentDir
		}
		entries[i].LibraryID = r.LibraryID
		entries[i].Path = util.JoinEntry(parent, entries[i].Name)
	}
	return entries, nil
}

// CreateDirectoryRequest creates a directory. 新建目录.
type CreateDirectoryRequest struct {
	sessionRequest
	LibraryID string
	Dir       string
}

func NewCreateDirectoryRequest(token, libraryID, dir string) *CreateDirectoryRequest {
	return &CreateDirectoryRequest{
		sessionRequest: newSession("CreateDirectory", token, map[int]ErrorKind{
			http.StatusBadRequest:      PathDoesNotExist,
			http.StatusForbidden:       NotEnoughPermissions,
			StatusRepoPasswordRequired: EncryptedLibraryPasswordRequired,
		}),
		LibraryID: libraryID,
		Dir:       util.NormalizePath(dir),
	}
}

func (r *CreateDirectoryRequest) Path() string {
	return apiPath(dirEndpoint(r.LibraryID), pathQuery(r.Dir))
}
func (r *CreateDirectoryRequest) Method() Method      { return MethodPost }
func (r *CreateDirectoryRequest) BodyParams() []Param { return []Param{{"operation", "mkdir"}} }
func (r *CreateDirectoryRequest) ParseResponse(body []byte) (bool, error) {
	return parseAck(body)
}

// RenameDirectoryRequest renames a directory in place. 重命名目录.
type RenameDirectoryRequest struct {
	sessionRequest
	LibraryID string
	Dir       string
	NewName   string
}

func NewRenameDirectoryRequest(token, libraryID, dir, newName string) *RenameDirectoryRequest {
	return &RenameDirectoryRequest{
		sessionRequest: newSession("RenameDirectory", token, map[int]ErrorKind{
			http.StatusBadRequest: PathDoesNotExist,
			http.StatusForbidden:  NotEnoughPermissions,
		}),
		LibraryID: libraryID,
		Dir:       util.NormalizePath(dir),
		NewName:   newName,
	}
}

func (r *RenameDirectoryRequest) Path() string {
	return apiPath(dirEndpoint(r.LibraryID), pathQuery(r.Dir))
}
func (r *RenameDirectoryRequest) Method() Method { return MethodPost }
func (r *RenameDirectoryRequest) BodyParams() []Param {
	return []Param{{"operation", "rename"}, {"newname", r.NewName}}
}
func (r *RenameDirectoryRequest) ParseResponse(body []byte) (bool, error) {
	return parseAck(body)
}

// DeleteDirEntryRequest deletes a file or a directory. 删除文件或目录.
type DeleteDirEntryRequest struct {
	sessionRequest
	LibraryID string
	EntryPath string
}

func NewDeleteDirEntryRequest(token, libraryID, entryPath string) *DeleteDirEntryRequest {
	return &DeleteDirEntryRequest{
		sessionRequest: newSession("DeleteDirEntry", token, map[int]ErrorKind{
			http.StatusBadRequest: PathDoesNotExist,
			http.StatusForbidden:  NotEnoughPermissions,
		}),
		LibraryID: libraryID,
		EntryPath: util.NormalizePath(entryPath),
	}
}

func (r *DeleteDirEntryRequest) Path() string {
	return apiPath(dirEndpoint(r.LibraryID), pathQuery(r.EntryPath))
}
func (r *DeleteDirEntryRequest) Method() Method { return MethodDelete }
func (r *DeleteDirEntryRequest) ParseResponse(body []byte) (bool, error) {
	return parseAck(body)
}
