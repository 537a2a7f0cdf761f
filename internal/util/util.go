// Package util provides utility functions for Seafile SDK operations. 为 Seafile SDK 提供通用工具函数.
package util

import (
	"path"
	"strings"
	"time"
)

// DerefString returns the value of a string pointer or an empty string if the pointer is nil.
// 返回字符串指针的值, 如果指针为 nil 则返回空字符串.
func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NormalizePath ensures a library path starts with "/" and uses forward slashes.
// A trailing slash is preserved so directory paths stay directory paths.
// 确保库内路径以 "/" 开头并使用正斜杠, 保留结尾斜杠.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	dir := strings.HasSuffix(p, "/")
	p = path.Clean("/" + p)
	if dir && p != "/" {
		p += "/"
	}
	return p
}

// DirPath normalizes p and guarantees a trailing slash. 规范化目录路径并保证以 "/" 结尾.
func DirPath(p string) string {
	p = NormalizePath(p)
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// JoinEntry joins a directory and an entry name into the entry's full path.
// 将目录与条目名称拼接为完整路径.
func JoinEntry(dir, name string) string {
	return DirPath(dir) + strings.TrimLeft(name, "/")
}

// TrimQuotes strips the JSON string quotes seafile wraps around plain string responses.
// 去除 seafile 纯字符串响应两侧的引号.
func TrimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// ParseISOTime parses an ISO-8601 timestamp as returned by the v2.1 API.
// If parsing fails, it returns the zero value of time.Time.
// 解析 v2.1 接口返回的 ISO-8601 时间, 解析失败返回零值.
func ParseISOTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
