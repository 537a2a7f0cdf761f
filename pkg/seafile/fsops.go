// Package seafile provides a Go client for the Seafile web API.
// It includes file system operations such as mkdir, delete, move, copy, and listing directories.
// 提供 Seafile 的 Go 客户端, 包括文件系统操作, 如创建目录、删除、移动、复制及列出目录.
package seafile

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

func requireLibraryPath(libraryID, p string) error {
	if err := requireArg("library id", libraryID); err != nil {
		return err
	}
	return requireArg("path", p)
}

// ============ Directories ============

// Mkdir creates a directory in a library. 在资料库中创建目录.
func (s *Session) Mkdir(ctx context.Context, libraryID, dir string) (bool, error) {
	if err := requireLibraryPath(libraryID, dir); err != nil {
		return false, err
	}
	if util.NormalizePath(dir) == "/" {
		return false, fmt.Errorf("%w: cannot create the library root", ErrInvalidArgument)
	}
	return sessionSend(ctx, s, NewCreateDirectoryRequest(s.AuthToken, libraryID, dir))
}

// RenameDirectory renames a directory in place. 重命名目录.
func (s *Session) RenameDirectory(ctx context.Context, libraryID, dir, newName string) (bool, error) {
	if err := requireLibraryPath(libraryID, dir); err != nil {
		return false, err
	}
	if err := requireName(newName); err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewRenameDirectoryRequest(s.AuthToken, libraryID, dir, newName))
}

// ListDirectory lists every entry of a directory. 列出目录下所有条目.
func (s *Session) ListDirectory(ctx context.Context, libraryID, dir string) ([]DirEntry, error) {
	return s.ListDirectoryFiltered(ctx, libraryID, dir, FilesAndDirectories)
}

// ListDirectoryFiltered lists a directory keeping only files or only directories.
// 列出目录, 仅保留文件或仅保留目录.
func (s *Session) ListDirectoryFiltered(ctx context.Context, libraryID, dir string, filter DirFilter) ([]DirEntry, error) {
	return s.listDirectory(ctx, libraryID, dir, filter, false)
}

// ListDirectoriesRecursive lists every directory below dir in one request.
// 一次请求递归列出 dir 下的所有目录.
func (s *Session) ListDirectoriesRecursive(ctx context.Context, libraryID, dir string) ([]DirEntry, error) {
	return s.listDirectory(ctx, libraryID, dir, OnlyDirectories, true)
}

func (s *Session) listDirectory(ctx context.Context, libraryID, dir string, filter DirFilter, recursive bool) ([]DirEntry, error) {
	if err := requireArg("library id", libraryID); err != nil {
		return nil, err
	}
	if dir == "" {
		dir = "/"
	}
	req, err := NewListDirectoryRequest(s.AuthToken, libraryID, dir, filter, recursive)
	if err != nil {
		return nil, err
	}
	return sessionSend(ctx, s, req)
}

// ListDirectoryMatching lists a directory and filters entry names with doublestar globs.
// An empty include keeps every name; exclude removes matches after include has applied.
// 列出目录并用 doublestar 通配符过滤条目名, include 为空保留全部, exclude 在 include 之后生效.
func (s *Session) ListDirectoryMatching(ctx context.Context, libraryID, dir, include, exclude string) ([]DirEntry, error) {
	for _, p := range []string{include, exclude} {
		if p != "" && !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad pattern %q", ErrInvalidArgument, p)
		}
	}
	entries, err := s.ListDirectory(ctx, libraryID, dir)
	if err != nil {
		return nil, err
	}
	out := entries[:0]
	for _, e := range entries {
		if matchName(e.Name, include, exclude) {
			out = append(out, e)
		}
	}
	return out, nil
}

func matchName(name, include, exclude string) bool {
	if include != "" {
		if ok, _ := doublestar.Match(include, name); !ok {
			return false
		}
	}
	if exclude != "" {
		if ok, _ := doublestar.Match(exclude, name); ok {
			return false
		}
	}
	return true
}

// ListTree walks a directory tree level by level, listing sibling directories concurrently.
// concurrency <= 0 uses the connection's batch default. Entries are sorted by path.
// 逐层遍历目录树, 同层目录并发列出, concurrency <= 0 使用默认并发数, 结果按路径排序.
func (s *Session) ListTree(ctx context.Context, libraryID, dir string, concurrency int) ([]DirEntry, error) {
	if err := requireArg("library id", libraryID); err != nil {
		return nil, err
	}
	limit := s.conn.policy.Concurrency(concurrency)

	var (
		all   []DirEntry
		mu    sync.Mutex
		level = []string{util.DirPath(dir)}
	)
	for len(level) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		var next []string
		for _, d := range level {
			g.Go(func() error {
				entries, err := s.ListDirectory(gctx, libraryID, d)
				if err != nil {
					return fmt.Errorf("list %s: %w", d, err)
				}
				mu.Lock()
				defer mu.Unlock()
				for _, e := range entries {
					all = append(all, e)
					if e.IsDir() {
						next = append(next, util.DirPath(e.Path))
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		level = next
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })
	return all, nil
}

// ============ Delete ============

// Delete removes a file or directory. 删除文件或目录.
func (s *Session) Delete(ctx context.Context, libraryID, entryPath string) (bool, error) {
	if err := requireLibraryPath(libraryID, entryPath); err != nil {
		return false, err
	}
	if util.NormalizePath(entryPath) == "/" {
		return false, fmt.Errorf("%w: refusing to delete the library root", ErrInvalidArgument)
	}
	return sessionSend(ctx, s, NewDeleteDirEntryRequest(s.AuthToken, libraryID, entryPath))
}

// DeleteBatch deletes several entries with bounded concurrency and returns the error of each path.
// ignoreErrors records nil for every path; concurrency <= 0 uses the connection's batch default.
// 以受限并发批量删除条目, 返回每个路径的错误, ignoreErrors 时全部记录为 nil.
func (s *Session) DeleteBatch(ctx context.Context, libraryID string, paths []string, ignoreErrors bool, concurrency int) map[string]error {
	results := make(map[string]error, len(paths))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.conn.policy.Concurrency(concurrency))

	for _, p := range paths {
		g.Go(func() error {
			_, err := s.Delete(ctx, libraryID, p)
			if ignoreErrors {
				err = nil
			}
			mu.Lock()
			results[p] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// ============ Rename / Move / Copy ============

// RenameFile renames a file in place. 重命名文件.
func (s *Session) RenameFile(ctx context.Context, libraryID, filePath, newName string) (bool, error) {
	if err := requireLibraryPath(libraryID, filePath); err != nil {
		return false, err
	}
	if err := requireName(newName); err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewRenameFileRequest(s.AuthToken, libraryID, filePath, newName))
}

// Move moves a file into targetDir of targetLibraryID; an empty target library keeps the source one.
// 将文件移动到目标资料库的 targetDir, 目标资料库为空时使用源资料库.
func (s *Session) Move(ctx context.Context, libraryID, filePath, targetLibraryID, targetDir string) (bool, error) {
	targetLibraryID, err := checkTransfer(libraryID, filePath, targetLibraryID, targetDir, true)
	if err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewMoveFileRequest(s.AuthToken, libraryID, filePath, targetLibraryID, targetDir))
}

// Copy copies a file into targetDir of targetLibraryID; an empty target library keeps the source one.
// 将文件复制到目标资料库的 targetDir, 目标资料库为空时使用源资料库.
func (s *Session) Copy(ctx context.Context, libraryID, filePath, targetLibraryID, targetDir string) (bool, error) {
	targetLibraryID, err := checkTransfer(libraryID, filePath, targetLibraryID, targetDir, false)
	if err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewCopyFileRequest(s.AuthToken, libraryID, filePath, targetLibraryID, targetDir))
}

// checkTransfer fills in the target library; moving a file onto its own directory is refused.
func checkTransfer(libraryID, filePath, targetLibraryID, targetDir string, move bool) (string, error) {
	if err := requireLibraryPath(libraryID, filePath); err != nil {
		return "", err
	}
	if err := requireArg("target dir", targetDir); err != nil {
		return "", err
	}
	if targetLibraryID == "" {
		targetLibraryID = libraryID
	}
	if move && targetLibraryID == libraryID && path.Dir(util.NormalizePath(filePath)) == path.Clean(util.NormalizePath(targetDir)) {
		return "", fmt.Errorf("%w: source and target directory are the same", ErrInvalidArgument)
	}
	return targetLibraryID, nil
}

func requireName(name string) error {
	if err := requireArg("name", name); err != nil {
		return err
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: name %q must not contain a path separator", ErrInvalidArgument, name)
	}
	return nil
}
