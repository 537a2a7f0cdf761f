// Package seafile provides utility functions for the Seafile Go client.
// 提供 Seafile Go 客户端的辅助工具函数
package seafile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ==========================
// 文件操作 / File Utilities
// ==========================

// LocalFileSize returns the size of a local file in bytes.
// Returns an error if the file does not exist or is not a regular file.
// 返回本地文件的大小 (字节), 如果文件不存在或不是普通文件, 则返回错误.
func LocalFileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if !fi.Mode().IsRegular() {
		return 0, fmt.Errorf("%s: not a regular file", path)
	}
	return fi.Size(), nil
}

// ListFilesInDir lists all regular files under root as slash separated paths relative to root.
// If recursive is false, subdirectories are skipped.
// 列出 root 下所有普通文件 (相对路径, 使用 "/" 分隔), recursive 为 false 时跳过子目录.
func ListFilesInDir(root string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// ReadableSize formats a byte count with binary units, e.g. "5.00MB".
// Negative counts, which seafile uses for unknown or unlimited sizes, render as "-".
// 以二进制单位格式化字节数, 负数 (seafile 中表示未知或无限制) 显示为 "-".
func ReadableSize(size int64) string {
	if size < 0 {
		return "-"
	}
	if size < 1024 {
		return strconv.FormatInt(size, 10) + "B"
	}
	v, i := float64(size), 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f%s", v, sizeUnits[i])
}
