// Package seafile provides a Go client for the Seafile web API.
// It includes upload operations: one-time upload links, multi-file uploads, updates and local directory uploads.
// 提供 Seafile 的 Go 客户端, 包括上传操作: 一次性上传链接、多文件上传、更新文件及本地目录上传.
package seafile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

// GetUploadLink fetches a one-time upload URL for dir. 获取 dir 的一次性上传链接.
func (s *Session) GetUploadLink(ctx context.Context, libraryID, dir string) (string, error) {
	if err := requireLibraryPath(libraryID, dir); err != nil {
		return "", err
	}
	return sessionSend(ctx, s, NewGetUploadLinkRequest(s.AuthToken, libraryID, dir))
}

// GetUpdateLink fetches a one-time update URL for dir. 获取 dir 的一次性更新链接.
func (s *Session) GetUpdateLink(ctx context.Context, libraryID, dir string) (string, error) {
	if err := requireLibraryPath(libraryID, dir); err != nil {
		return "", err
	}
	return sessionSend(ctx, s, NewGetUpdateLinkRequest(s.AuthToken, libraryID, dir))
}

// Upload fetches an upload link for dir and posts files through it.
// The transfer is bounded by ctx only, not by the connection's default deadline.
// 获取 dir 的上传链接并上传文件, 传输仅受 ctx 控制, 不受默认超时限制.
func (s *Session) Upload(ctx context.Context, libraryID, dir string, progress ProgressFunc, files ...UploadFile) (bool, error) {
	return s.uploadTo(ctx, libraryID, dir, "", progress, files...)
}

func (s *Session) uploadTo(ctx context.Context, libraryID, dir, relative string, progress ProgressFunc, files ...UploadFile) (bool, error) {
	if err := validateFiles(files); err != nil {
		return false, err
	}
	link, err := s.GetUploadLink(ctx, libraryID, dir)
	if err != nil {
		return false, fmt.Errorf("upload link for %s: %w", dir, err)
	}
	req, err := NewUploadRequest(s.AuthToken, link, dir, progress, files...)
	if err != nil {
		return false, err
	}
	req.RelativePath = relative
	return sessionSendWithTimeout(ctx, s, req, NoTimeout)
}

// Update replaces the content of targetFile. size may be -1 when unknown.
// 替换 targetFile 的内容, size 未知时可为 -1.
func (s *Session) Update(ctx context.Context, libraryID, targetFile string, content io.Reader, size int64, progress ProgressFunc) (bool, error) {
	if err := requireLibraryPath(libraryID, targetFile); err != nil {
		return false, err
	}
	target := util.NormalizePath(targetFile)
	link, err := s.GetUpdateLink(ctx, libraryID, path.Dir(target))
	if err != nil {
		return false, fmt.Errorf("update link for %s: %w", target, err)
	}
	req, err := NewUpdateRequest(s.AuthToken, link, target, progress, content, size)
	if err != nil {
		return false, err
	}
	return sessionSendWithTimeout(ctx, s, req, NoTimeout)
}

// UploadLocalFile uploads a local file into dir, keeping its base name.
// 上传本地文件到 dir, 保留原文件名.
func (s *Session) UploadLocalFile(ctx context.Context, libraryID, dir, localPath string, progress ProgressFunc) (bool, error) {
	return s.uploadLocal(ctx, libraryID, dir, "", localPath, progress)
}

func (s *Session) uploadLocal(ctx context.Context, libraryID, dir, relative, localPath string, progress ProgressFunc) (bool, error) {
	size, err := LocalFileSize(localPath)
	if err != nil {
		return false, err
	}
	f, err := os.Open(localPath)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return s.uploadTo(ctx, libraryID, dir, relative, progress,
		UploadFile{Name: filepath.Base(localPath), Content: f, Size: size})
}

// UploadLocalDir uploads the files below localDir into dir, recreating subdirectories.
// include is a doublestar pattern matched against slash separated relative paths; empty means all.
// It returns the error of each relative path.
// 上传 localDir 下的文件到 dir 并重建子目录, include 为匹配相对路径的 doublestar 模式, 为空表示全部.
func (s *Session) UploadLocalDir(ctx context.Context, libraryID, dir, localDir, include string, recursive bool, concurrency int) (map[string]error, error) {
	if include != "" && !doublestar.ValidatePattern(include) {
		return nil, fmt.Errorf("%w: bad pattern %q", ErrInvalidArgument, include)
	}
	files, err := ListFilesInDir(localDir, recursive)
	if err != nil {
		return nil, err
	}

	results := make(map[string]error, len(files))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.conn.policy.Concurrency(concurrency))
	for _, rel := range files {
		if include != "" {
			if ok, _ := doublestar.Match(include, rel); !ok {
				continue
			}
		}
		g.Go(func() error {
			sub := path.Dir(rel)
			if sub == "." {
				sub = ""
			}
			_, err := s.uploadLocal(ctx, libraryID, dir, sub, filepath.Join(localDir, filepath.FromSlash(rel)), nil)
			mu.Lock()
			results[rel] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}
