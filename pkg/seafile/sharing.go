package seafile

import (
	"context"
	"fmt"
)

// ============ Starred Files ============

// ListStarredFiles lists the user's starred entries. 列出收藏条目.
func (s *Session) ListStarredFiles(ctx context.Context) ([]StarredFile, error) {
	return sessionSend(ctx, s, NewListStarredFilesRequest(s.AuthToken))
}

// StarFile stars a file. 收藏文件.
func (s *Session) StarFile(ctx context.Context, libraryID, filePath string) (bool, error) {
	if err := requireLibraryPath(libraryID, filePath); err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewStarFileRequest(s.AuthToken, libraryID, filePath))
}

// UnstarFile removes the star from a file. 取消收藏文件.
func (s *Session) UnstarFile(ctx context.Context, libraryID, filePath string) (bool, error) {
	if err := requireLibraryPath(libraryID, filePath); err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewUnstarFileRequest(s.AuthToken, libraryID, filePath))
}

// ============ Share Links ============

// ListShareLinks lists share links. An empty libraryID lists all of them;
// filePath narrows the result within that library.
// 列出共享链接, libraryID 为空时列出全部, filePath 在该资料库内进一步过滤.
func (s *Session) ListShareLinks(ctx context.Context, libraryID, filePath string) ([]ShareLink, error) {
	if libraryID == "" && filePath != "" {
		return nil, fmt.Errorf("%w: a path filter needs a library id", ErrInvalidArgument)
	}
	return sessionSend(ctx, s, NewListShareLinksRequest(s.AuthToken, libraryID, filePath))
}

// CreateShareLink creates a share link for a file or directory. 为文件或目录创建共享链接.
func (s *Session) CreateShareLink(ctx context.Context, libraryID, filePath string, opts ShareLinkOptions) (ShareLink, error) {
	if err := requireLibraryPath(libraryID, filePath); err != nil {
		return ShareLink{}, err
	}
	if opts.ExpireDays < 0 {
		return ShareLink{}, fmt.Errorf("%w: expire days must not be negative", ErrInvalidArgument)
	}
	return sessionSend(ctx, s, NewCreateShareLinkRequest(s.AuthToken, libraryID, filePath, opts))
}

// DeleteShareLink deletes a share link by its token. 按 token 删除共享链接.
func (s *Session) DeleteShareLink(ctx context.Context, linkToken string) (bool, error) {
	if err := requireArg("share link token", linkToken); err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewDeleteShareLinkRequest(s.AuthToken, linkToken))
}

// ============ Groups ============

// ListGroups lists the groups of the user. 列出用户所在群组.
func (s *Session) ListGroups(ctx context.Context) (GroupList, error) {
	return sessionSend(ctx, s, NewListGroupsRequest(s.AuthToken))
}

// AddGroup creates a group and returns its id. 新建群组并返回 id.
func (s *Session) AddGroup(ctx context.Context, name string) (int, error) {
	if err := requireArg("group name", name); err != nil {
		return 0, err
	}
	res, err := sessionSend(ctx, s, NewAddGroupRequest(s.AuthToken, name))
	if err != nil {
		return 0, err
	}
	return res.GroupID, nil
}

// RenameGroup renames a group. 重命名群组.
func (s *Session) RenameGroup(ctx context.Context, groupID int, newName string) (bool, error) {
	if err := requireArg("group name", newName); err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewRenameGroupRequest(s.AuthToken, groupID, newName))
}

// DeleteGroup deletes a group. 删除群组.
func (s *Session) DeleteGroup(ctx context.Context, groupID int) (bool, error) {
	return sessionSend(ctx, s, NewDeleteGroupRequest(s.AuthToken, groupID))
}

// ListGroupMembers lists the members of a group; avatarSize zero keeps the server default.
// Requires server 5.1.0 or later.
// 列出群组成员, avatarSize 为 0 使用服务器默认值, 需要 5.1.0 及以上版本.
func (s *Session) ListGroupMembers(ctx context.Context, groupID, avatarSize int) ([]GroupMember, error) {
	return sessionSend(ctx, s, NewListGroupMembersRequest(s.AuthToken, groupID, avatarSize))
}

// BulkAddGroupMembers adds several users to a group. An empty list is rejected before any request.
// Requires server 5.1.0 or later.
// 批量添加群组成员, 空列表在发送请求前即被拒绝, 需要 5.1.0 及以上版本.
func (s *Session) BulkAddGroupMembers(ctx context.Context, groupID int, emails []string) (BulkAddResult, error) {
	req, err := NewBulkAddGroupMemberRequest(s.AuthToken, groupID, emails)
	if err != nil {
		return BulkAddResult{}, err
	}
	return sessionSend(ctx, s, req)
}

// RemoveGroupMember removes a user from a group. 从群组移除成员.
func (s *Session) RemoveGroupMember(ctx context.Context, groupID int, username string) (bool, error) {
	if err := requireArg("username", username); err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewRemoveGroupMemberRequest(s.AuthToken, groupID, username))
}
