// Package seafile provides a Go client for the Seafile web API.
// It includes file download operations, including ranged and concurrent downloads.
// 提供 Seafile 的 Go 客户端, 包括文件下载操作, 支持范围下载和并发下载.
package seafile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// minChunkSize keeps concurrent downloads from splitting small files.
const minChunkSize = 5 << 20

// Download opens a file for reading through a one-time download link.
// The caller must close the returned body.
// 通过一次性下载链接打开文件, 调用方需关闭返回的 body.
func (s *Session) Download(ctx context.Context, libraryID, filePath string) (io.ReadCloser, http.Header, error) {
	link, err := s.DownloadLink(ctx, libraryID, filePath, false)
	if err != nil {
		return nil, nil, err
	}
	resp, err := s.conn.Stream(ctx, link, nil)
	if err != nil {
		return nil, nil, err
	}
	return resp.Body, resp.Header, nil
}

// DownloadRange downloads the byte range [start, end] of a file; end < 0 reads to the end.
// 下载文件的指定字节范围 [start, end], end < 0 表示读到末尾.
func (s *Session) DownloadRange(ctx context.Context, libraryID, filePath string, start, end int64) (io.ReadCloser, http.Header, int, error) {
	link, err := s.DownloadLink(ctx, libraryID, filePath, false)
	if err != nil {
		return nil, nil, 0, err
	}
	return s.downloadRange(ctx, link, start, end)
}

func (s *Session) downloadRange(ctx context.Context, link string, start, end int64) (io.ReadCloser, http.Header, int, error) {
	if start < 0 {
		return nil, nil, 0, fmt.Errorf("%w: invalid range start %d", ErrInvalidArgument, start)
	}
	if end >= 0 && end < start {
		return nil, nil, 0, fmt.Errorf("%w: invalid range: end < start", ErrInvalidArgument)
	}

	rangeValue := fmt.Sprintf("bytes=%d-", start)
	if end >= 0 {
		rangeValue = fmt.Sprintf("bytes=%d-%d", start, end)
	}
	resp, err := s.conn.Stream(ctx, link, http.Header{"Range": {rangeValue}})
	if err != nil {
		return nil, nil, 0, err
	}
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, nil, resp.StatusCode, fmt.Errorf("%w: download status %d", ErrUnexpectedResponse, resp.StatusCode)
	}
	return resp.Body, resp.Header, resp.StatusCode, nil
}

// DownloadToFile downloads a file to dstPath, reporting progress against the response length.
// A partially written file is removed on failure.
// 下载文件到 dstPath, 按响应长度报告进度, 失败时删除未写完的文件.
func (s *Session) DownloadToFile(ctx context.Context, libraryID, filePath, dstPath string, progress ProgressFunc) error {
	link, err := s.DownloadLink(ctx, libraryID, filePath, false)
	if err != nil {
		return err
	}
	resp, err := s.conn.Stream(ctx, link, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if progress != nil {
		body = &progressReader{r: resp.Body, p: &progressState{total: resp.ContentLength, fn: progress}}
	}
	return writeFile(dstPath, body)
}

func writeFile(dstPath string, r io.Reader) error {
	f, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(dstPath)
		return err
	}
	return f.Close()
}

// DownloadChunkError represents an error for a specific chunk during concurrent download. 表示并发下载中某个分块的错误.
type DownloadChunkError struct {
	File string
	Err  error
}

func (e DownloadChunkError) Error() string {
	return fmt.Sprintf("chunk %s download failed: %v", e.File, e.Err)
}

func (e DownloadChunkError) Unwrap() error { return e.Err }

// DownloadConcurrent downloads a file in ranged chunks through a reusable link and
// returns the chunk files it wrote, each mapped to its error. Join them in order with MergeFiles.
// Small files and chunkCount <= 1 are written directly to dstPath; larger counts
// are capped by the connection's batch concurrency limit.
// 通过可复用链接分块并发下载文件, 返回分块文件到错误的映射, 使用 MergeFiles 按顺序合并.
// 小文件或 chunkCount <= 1 时直接写入 dstPath, 较大的分块数受连接的并发上限约束.
func (s *Session) DownloadConcurrent(ctx context.Context, libraryID, filePath, dstPath string, chunkCount int, progress ProgressFunc) map[string]error {
	result := make(map[string]error)

	detail, err := s.FileDetail(ctx, libraryID, filePath)
	if err != nil {
		result[dstPath] = fmt.Errorf("detail failed: %w", err)
		return result
	}
	size := detail.Size

	if chunkCount > 1 {
		chunkCount = s.conn.policy.Concurrency(chunkCount)
	}
	if chunkCount <= 1 || size < int64(chunkCount)*minChunkSize {
		result[dstPath] = s.DownloadToFile(ctx, libraryID, filePath, dstPath, progress)
		return result
	}

	link, err := s.DownloadLink(ctx, libraryID, filePath, true)
	if err != nil {
		result[dstPath] = err
		return result
	}

	var (
		mu   sync.Mutex
		done atomic.Int64
		g    errgroup.Group
	)
	chunkSize := size / int64(chunkCount)
	for i := range chunkCount {
		start := int64(i) * chunkSize
		end := start + chunkSize - 1
		if i == chunkCount-1 {
			end = size - 1
		}
		tmp := PartFileName(dstPath, i)
		g.Go(func() error {
			err := s.downloadChunk(ctx, link, tmp, start, end, func(n int64) {
				if progress != nil {
					progress(done.Add(n), size)
				}
			})
			if err != nil {
				err = DownloadChunkError{File: tmp, Err: err}
			}
			mu.Lock()
			result[tmp] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return result
}

func (s *Session) downloadChunk(ctx context.Context, link, tmp string, start, end int64, add func(int64)) error {
	rc, _, status, err := s.downloadRange(ctx, link, start, end)
	if err != nil {
		return err
	}
	defer rc.Close()
	if status != http.StatusPartialContent {
		return fmt.Errorf("%w: server ignored the range request", ErrUnexpectedResponse)
	}
	return writeFile(tmp, &countingReader{r: rc, add: add})
}

type countingReader struct {
	r   io.Reader
	add func(int64)
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	if n > 0 {
		c.add(int64(n))
	}
	return n, err
}

// PartFileName returns the name of the i-th chunk file of dstPath. 返回 dstPath 第 i 个分块文件名.
func PartFileName(dstPath string, i int) string {
	return fmt.Sprintf("%s.part%d", dstPath, i)
}

// MergeFiles merges multiple files in order into a target file.
// If cleanup is true, source files will be deleted after merging.
// 将多个文件按顺序合并到目标文件, cleanup 为 true 时删除源分片.
func MergeFiles(outputPath string, parts []string, cleanup bool) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	for _, p := range parts {
		if err := appendFile(out, p); err != nil {
			out.Close()
			return err
		}
	}
	if err := out.Close(); err != nil {
		return err
	}
	if cleanup {
		for _, p := range parts {
			_ = os.Remove(p)
		}
	}
	return nil
}

func appendFile(out io.Writer, p string) error {
	in, err := os.Open(p)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = io.Copy(out, in)
	return err
}
