// Package seafile provides a Go client for the Seafile web API.
// It defines the objects returned by seafile operations.
// 提供 Seafile Web API 的 Go 客户端, 并定义 seafile 各操作返回的对象.
package seafile

import (
	"encoding/json"
	"path"
	"slices"
	"time"

	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

// ============ Server & Account ============

// ServerInfo describes the seafile server. 描述 seafile 服务器.
type ServerInfo struct {
	Version                 string   `json:"version"`                             // Server version / 服务器版本
	Features                []string `json:"features"`                            // Enabled features / 已启用功能
	EncryptedLibraryVersion int      `json:"encrypted_library_version,omitempty"` // Encryption scheme / 加密库版本
}

// HasFeature reports whether the server advertises a feature such as "seafile-pro".
// 判断服务器是否声明某功能.
func (s ServerInfo) HasFeature(name string) bool {
	return slices.Contains(s.Features, name)
}

// AccountInfo describes the authenticated account. 描述当前认证账户.
type AccountInfo struct {
	Email    string `json:"email"`              // Login email / 登录邮箱
	Nickname string `json:"nickname,omitempty"` // Display name / 昵称
	Usage    int64  `json:"usage"`              // Used bytes / 已用字节
	Total    int64  `json:"total"`              // Quota in bytes, -2 means unlimited / 配额, -2 表示无限制
}

const unlimitedQuota = -2

// HasUnlimitedSpace reports an unlimited quota. 是否为无限配额.
func (a AccountInfo) HasUnlimitedSpace() bool { return a.Total == unlimitedQuota }

// Quota renders usage against the quota, e.g. "1.50GB / 10.00GB". 以可读格式显示用量与配额.
func (a AccountInfo) Quota() string {
	if a.HasUnlimitedSpace() {
		return ReadableSize(a.Usage) + " / unlimited"
	}
	return ReadableSize(a.Usage) + " / " + ReadableSize(a.Total)
}

// UserAvatar is the avatar of a seafile user. seafile 用户头像.
type UserAvatar struct {
	URL       string    `json:"url"`
	IsDefault bool      `json:"is_default"`
	Mtime     Timestamp `json:"mtime"`
}

// ============ Libraries ============

// Library is a seafile library (repository). seafile 资料库.
type Library struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Owner       string     `json:"owner"`
	Encrypted   bool       `json:"encrypted"`
	Permission  Permission `json:"permission"`
	Mtime       Timestamp  `json:"mtime"`
	Description string     `json:"desc"`
	Size        int64      `json:"size,omitempty"`
}

// SharedLibrary is a library shared with the current user; the endpoint uses its own field names.
// 共享给当前用户的资料库, 该接口使用不同的字段名.
type SharedLibrary struct {
	ID          string     `json:"repo_id"`
	Name        string     `json:"repo_name"`
	Description string     `json:"repo_desc"`
	Owner       string     `json:"user"`
	Permission  Permission `json:"permission"`
	Encrypted   bool       `json:"encrypted"`
	Mtime       Timestamp  `json:"last_modified"`
}

// Library converts the shared view into a plain Library. 转换为普通 Library.
func (s SharedLibrary) Library() Library {
	return Library{
		ID:          s.ID,
		Name:        s.Name,
		Owner:       s.Owner,
		Encrypted:   s.Encrypted,
		Permission:  s.Permission,
		Mtime:       s.Mtime,
		Description: s.Description,
	}
}

// DefaultLibraryRef is the answer of the default library endpoint. 默认资料库接口的响应.
type DefaultLibraryRef struct {
	LibraryID string `json:"repo_id"`
	Exists    bool   `json:"exists"`
}

// LibraryRef identifies a freshly created library. 新建资料库的标识.
type LibraryRef struct {
	LibraryID string `json:"repo_id"`
	Name      string `json:"repo_name,omitempty"`
}

// ============ Directory Entries ============

// DirEntry is a file or directory inside a library. 资料库中的文件或目录.
type DirEntry struct {
	ID        string    `json:"id"`
	Type      EntryType `json:"type"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Mtime     Timestamp `json:"mtime"`
	ParentDir string    `json:"parent_dir,omitempty"` // Set by recursive listings / 递归列出时返回

	LibraryID string `json:"-"` // Library holding the entry / 所属资料库
	Path      string `json:"-"` // Full path inside the library / 资料库内完整路径
}

// IsDir reports whether the entry is a directory. 是否为目录.
func (e DirEntry) IsDir() bool { return e.Type == EntryDir }

// DirFilter restricts a directory listing. 目录列表过滤条件.
type DirFilter int

const (
	FilesAndDirectories DirFilter = iota
	OnlyFiles
	OnlyDirectories
)

// StarredFile is an entry the user has starred. 用户收藏的条目.
type StarredFile struct {
	LibraryID string    `json:"repo"`
	Type      EntryType `json:"-"`
	Path      string    `json:"path"`
	Name      string    `json:"-"`
	Mtime     Timestamp `json:"mtime"`
	Size      int64     `json:"size"`
}

func (f *StarredFile) UnmarshalJSON(b []byte) error {
	type alias StarredFile
	raw := struct {
		*alias
		Dir bool `json:"dir"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f.Type = EntryTypeFromDir(raw.Dir)
	f.Name = path.Base(f.Path)
	return nil
}

// ============ Groups ============

// Group is a seafile group. seafile 群组.
type Group struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Creator      string    `json:"creator"`
	MessageCount int       `json:"msgnum"`
	Ctime        int64     `json:"ctime"` // Raw creation counter as sent by the server / 服务端原始创建时间值
	Mtime        Timestamp `json:"mtime"`
}

// GroupList is the answer of the group list endpoint. 群组列表响应.
type GroupList struct {
	ReplyCount int     `json:"replynum"`
	Groups     []Group `json:"groups"`
}

// AddGroupResult is the answer of the add group endpoint. 新建群组响应.
type AddGroupResult struct {
	GroupID int  `json:"group_id"`
	Success bool `json:"success"`
}

// GroupMember is a member of a group. 群组成员.
type GroupMember struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	LoginID      string `json:"login_id,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
	Role         string `json:"role,omitempty"`
}

// BulkAddFailure is one rejected user of a bulk member add. 批量添加中失败的用户.
type BulkAddFailure struct {
	Email        string `json:"email"`
	ErrorMessage string `json:"error_msg"`
}

// BulkAddResult is the answer of the bulk member add endpoint. 批量添加成员响应.
type BulkAddResult struct {
	Failed    []BulkAddFailure `json:"failed"`
	Succeeded []GroupMember    `json:"success"`
}

// ============ Share Links ============

// ShareLinkPermissions are the rights granted through a share link. 共享链接权限.
type ShareLinkPermissions struct {
	CanEdit     bool `json:"can_edit"`
	CanDownload bool `json:"can_download"`
}

// ShareLink is a public link to a file or directory. 文件或目录的共享链接.
type ShareLink struct {
	Token       string               `json:"token"`
	LibraryID   string               `json:"repo_id"`
	LibraryName string               `json:"repo_name"`
	Path        string               `json:"path"`
	Username    string               `json:"username"`
	Link        string               `json:"link"`
	Name        string               `json:"obj_name"`
	IsDir       bool                 `json:"is_dir"`
	IsExpired   bool                 `json:"is_expired"`
	ViewCount   int                  `json:"view_cnt"`
	Permissions ShareLinkPermissions `json:"permissions"`
	CreatedAt   time.Time            `json:"-"` // Zero when absent / 缺失时为零值
	ExpiresAt   time.Time            `json:"-"` // Zero when the link never expires / 永不过期时为零值
}

func (l *ShareLink) UnmarshalJSON(b []byte) error {
	type alias ShareLink
	raw := struct {
		*alias
		Ctime      *string `json:"ctime"`
		ExpireDate *string `json:"expire_date"`
	}{alias: (*alias)(l)}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	l.CreatedAt = util.ParseISOTime(util.DerefString(raw.Ctime))
	l.ExpiresAt = util.ParseISOTime(util.DerefString(raw.ExpireDate))
	return nil
}

// ShareLinkOptions configures a new share link. 新建共享链接的选项.
type ShareLinkOptions struct {
	Permissions ShareLinkPermissions
	ExpireDays  int // Zero keeps the link forever / 0 表示永不过期
}
