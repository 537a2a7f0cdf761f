// Package seafile provides a Go client for the Seafile web API.
// It includes file metadata operations such as detail, exists, thumbnails and download links.
// 提供 Seafile 的 Go 客户端, 包括文件元数据操作, 如详情、存在性检查、缩略图和下载链接.
package seafile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FileDetail fetches the metadata of a file. 获取文件元数据.
func (s *Session) FileDetail(ctx context.Context, libraryID, filePath string) (DirEntry, error) {
	if err := requireLibraryPath(libraryID, filePath); err != nil {
		return DirEntry{}, err
	}
	return sessionSend(ctx, s, NewGetFileDetailRequest(s.AuthToken, libraryID, filePath))
}

// FileDetails fetches the metadata of several files concurrently.
// ignoreErrors skips failing paths instead of aborting; concurrency <= 0 uses the batch default.
// 并发获取多个文件的元数据, ignoreErrors 时跳过失败的路径, concurrency <= 0 使用默认并发数.
func (s *Session) FileDetails(ctx context.Context, libraryID string, paths []string, ignoreErrors bool, concurrency int) (map[string]DirEntry, error) {
	result := make(map[string]DirEntry, len(paths))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.conn.policy.Concurrency(concurrency))

	for _, p := range paths {
		g.Go(func() error {
			e, err := s.FileDetail(gctx, libraryID, p)
			if err != nil {
				if ignoreErrors {
					return nil
				}
				return fmt.Errorf("detail %s: %w", p, err)
			}
			mu.Lock()
			result[p] = e
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Exists reports whether a file exists. Missing files are not an error.
// 检查文件是否存在, 文件不存在不视为错误.
func (s *Session) Exists(ctx context.Context, libraryID, filePath string) (bool, error) {
	_, err := s.FileDetail(ctx, libraryID, filePath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrPathDoesNotExist):
		return false, nil
	}
	return false, err
}

// ExistsBatch checks several files concurrently.
// ignoreErrors reports false for paths whose check failed instead of aborting.
// 并发检查多个文件是否存在, ignoreErrors 时检查失败的路径记为 false.
func (s *Session) ExistsBatch(ctx context.Context, libraryID string, paths []string, ignoreErrors bool, concurrency int) (map[string]bool, error) {
	result := make(map[string]bool, len(paths))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.conn.policy.Concurrency(concurrency))

	for _, p := range paths {
		g.Go(func() error {
			ok, err := s.Exists(gctx, libraryID, p)
			if err != nil && !ignoreErrors {
				return fmt.Errorf("exists %s: %w", p, err)
			}
			mu.Lock()
			result[p] = ok
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// DownloadLink fetches a download URL for a file. Unless reuse is set the link works once.
// 获取文件下载链接, 未设置 reuse 时链接只能使用一次.
func (s *Session) DownloadLink(ctx context.Context, libraryID, filePath string, reuse bool) (string, error) {
	if err := requireLibraryPath(libraryID, filePath); err != nil {
		return "", err
	}
	req := NewGetFileDownloadLinkRequest(s.AuthToken, libraryID, filePath)
	req.Reuse = reuse
	return sessionSend(ctx, s, req)
}

// Thumbnail fetches a thumbnail of an image file; size is the edge length in pixels.
// 获取图片文件的缩略图, size 为边长像素.
func (s *Session) Thumbnail(ctx context.Context, libraryID, filePath string, size int) ([]byte, error) {
	if err := requireLibraryPath(libraryID, filePath); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: thumbnail size must be positive", ErrInvalidArgument)
	}
	return sessionSend(ctx, s, NewGetThumbnailRequest(s.AuthToken, libraryID, filePath, size))
}
