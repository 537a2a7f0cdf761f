package seafile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ============ Permission ============

// Permission is a library access level, encoded as "r" or "rw" on the wire.
// 资料库访问权限, 传输格式为 "r" 或 "rw".
type Permission int

const (
	ReadOnly Permission = iota + 1
	ReadAndWrite
)

// ParsePermission decodes the wire form of a permission. Any other string is an error.
// 解析权限字符串, 其他值返回错误.
func ParsePermission(s string) (Permission, error) {
	switch s {
	case "r":
		return ReadOnly, nil
	case "rw":
		return ReadAndWrite, nil
	}
	return 0, fmt.Errorf("seafile: unknown permission %q", s)
}

// String returns the wire form. 返回传输格式.
func (p Permission) String() string {
	switch p {
	case ReadOnly:
		return "r"
	case ReadAndWrite:
		return "rw"
	}
	return ""
}

func (p Permission) MarshalJSON() ([]byte, error) {
	s := p.String()
	if s == "" {
		return nil, fmt.Errorf("seafile: invalid permission %d", int(p))
	}
	return json.Marshal(s)
}

func (p *Permission) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("seafile: permission: %w", err)
	}
	v, err := ParsePermission(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ============ Entry Type ============

// EntryType tells files and directories apart. 区分文件与目录.
type EntryType int

const (
	EntryFile EntryType = iota
	EntryDir
)

func (t EntryType) String() string {
	if t == EntryDir {
		return "dir"
	}
	return "file"
}

// EntryTypeFromDir converts the boolean dir flag of the starred files endpoint.
// 转换收藏文件接口的 dir 布尔值.
func EntryTypeFromDir(dir bool) EntryType {
	if dir {
		return EntryDir
	}
	return EntryFile
}

func (t EntryType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *EntryType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("seafile: entry type: %w", err)
	}
	switch strings.ToLower(s) {
	case "file":
		*t = EntryFile
	case "dir":
		*t = EntryDir
	default:
		return fmt.Errorf("seafile: unknown entry type %q", s)
	}
	return nil
}

// ============ Timestamp ============

// Timestamp is a UNIX-seconds time in local time. The zero value means absent:
// null and unparseable wire values decode to it instead of failing.
// UNIX 秒时间戳 (本地时间), 零值表示不存在, null 或无法解析的值解码为零值.
type Timestamp struct {
	time.Time
}

// NewTimestamp converts a time to local time truncated to seconds. 转换为截断到秒的本地时间.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{time.Unix(t.Unix(), 0).Local()}
}

// Valid reports whether the timestamp is present. 时间戳是否存在.
func (t Timestamp) Valid() bool { return !t.IsZero() }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(t.Unix(), 10)), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = time.Unix(secs, 0).Local()
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		t.Time = time.Unix(int64(f), 0).Local()
	}
	return nil
}
