package seafile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/GoFurry/seafile-sdk-go/internal/secure"
)

func groupPath(id int) string { return "api2/groups/" + strconv.Itoa(id) + "/" }

func groupMembersV21(id int) string { return "api/v2.1/groups/" + strconv.Itoa(id) + "/members/" }

// ListGroupsRequest lists the groups of the user. 列出用户所在群组.
type ListGroupsRequest struct {
	sessionRequest
}

func NewListGroupsRequest(token string) *ListGroupsRequest {
	return &ListGroupsRequest{sessionRequest: newSession("ListGroups", token, nil)}
}

func (r *ListGroupsRequest) Path() string   { return "api2/groups/" }
func (r *ListGroupsRequest) Method() Method { return MethodGet }
func (r *ListGroupsRequest) ParseResponse(body []byte) (GroupList, error) {
	return decodeJSON[GroupList](body)
}

// AddGroupRequest creates a group. A body reporting success=false is an error. 新建群组.
type AddGroupRequest struct {
	sessionRequest
	Name string
}

func NewAddGroupRequest(token, name string) *AddGroupRequest {
	return &AddGroupRequest{
		sessionRequest: newSession("AddGroup", token, map[int]ErrorKind{http.StatusForbidden: NotEnoughPermissions}),
		Name:           name,
	}
}

func (r *AddGroupRequest) Path() string        { return "api2/groups/" }
func (r *AddGroupRequest) Method() Method      { return MethodPut }
func (r *AddGroupRequest) BodyParams() []Param { return []Param{{"group_name", r.Name}} }
func (r *AddGroupRequest) ParseResponse(body []byte) (AddGroupResult, error) {
	res, err := decodeJSON[AddGroupResult](body)
	if err != nil {
		return res, err
	}
	if !res.Success {
		return res, fmt.Errorf("%w: group %q was not created", ErrUnexpectedResponse, r.Name)
	}
	return res, nil
}

// RenameGroupRequest renames a group. 重命名群组.
type RenameGroupRequest struct {
	sessionRequest
	GroupID int
	NewName string
}

func NewRenameGroupRequest(token string, groupID int, newName string) *RenameGroupRequest {
	return &RenameGroupRequest{
		sessionRequest: newSession("RenameGroup", token, map[int]ErrorKind{http.StatusForbidden: NotEnoughPermissions}),
		GroupID:        groupID,
		NewName:        newName,
	}
}

func (r *RenameGroupRequest) Path() string   { return groupPath(r.GroupID) }
func (r *RenameGroupRequest) Method() Method { return MethodPost }
func (r *RenameGroupRequest) BodyParams() []Param {
	return []Param{{"operation", "rename"}, {"newname", r.NewName}}
}
func (r *RenameGroupRequest) ParseResponse(body []byte) (bool, error) { return parseAck(body) }

// DeleteGroupRequest deletes a group. 删除群组.
type DeleteGroupRequest struct {
	sessionRequest
	GroupID int
}

func NewDeleteGroupRequest(token string, groupID int) *DeleteGroupRequest {
	return &DeleteGroupRequest{
		sessionRequest: newSession("DeleteGroup", token, map[int]ErrorKind{http.StatusForbidden: NotEnoughPermissions}),
		GroupID:        groupID,
	}
}

func (r *DeleteGroupRequest) Path() string                            { return groupPath(r.GroupID) }
func (r *DeleteGroupRequest) Method() Method                          { return MethodDelete }
func (r *DeleteGroupRequest) ParseResponse(body []byte) (bool, error) { return parseAck(body) }

// ListGroupMembersRequest lists the members of a group (server 5.1.0+). 列出群组成员 (需 5.1.0+).
type ListGroupMembersRequest struct {
	sessionRequest
	GroupID    int
	AvatarSize int // Zero leaves the server default / 0 使用服务器默认值
}

func NewListGroupMembersRequest(token string, groupID, avatarSize int) *ListGroupMembersRequest {
	return &ListGroupMembersRequest{
		sessionRequest: newSession("ListGroupMembers", token, map[int]ErrorKind{http.StatusForbidden: NotEnoughPermissions}),
		GroupID:        groupID,
		AvatarSize:     avatarSize,
	}
}

func (r *ListGroupMembersRequest) Path() string {
	q := url.Values{}
	if r.AvatarSize > 0 {
		q.Set("avatar_size", strconv.Itoa(r.AvatarSize))
	}
	return apiPath(groupMembersV21(r.GroupID), q)
}
func (r *ListGroupMembersRequest) Method() Method           { return MethodGet }
func (r *ListGroupMembersRequest) MinServerVersion() string { return MinVersionGroupMembers }
func (r *ListGroupMembersRequest) ParseResponse(body []byte) ([]GroupMember, error) {
	return decodeJSON[[]GroupMember](body)
}

// BulkAddGroupMemberRequest adds several users to a group at once (server 5.1.0+).
// 批量添加群组成员 (需 5.1.0+).
type BulkAddGroupMemberRequest struct {
	sessionRequest
	GroupID int
	Emails  []string
}

// NewBulkAddGroupMemberRequest rejects an empty user list before anything is sent.
func NewBulkAddGroupMemberRequest(token string, groupID int, emails []string) (*BulkAddGroupMemberRequest, error) {
	clean := make([]string, 0, len(emails))
	for _, e := range emails {
		if e = strings.TrimSpace(e); e != "" {
			clean = append(clean, e)
		}
	}
	if len(clean) == 0 {
		return nil, fmt.Errorf("%w: at least one user is required", ErrInvalidArgument)
	}
	return &BulkAddGroupMemberRequest{
		sessionRequest: newSession("BulkAddGroupMember", token, map[int]ErrorKind{http.StatusForbidden: NotEnoughPermissions}),
		GroupID:        groupID,
		Emails:         clean,
	}, nil
}

func (r *BulkAddGroupMemberRequest) Path() string             { return groupMembersV21(r.GroupID) + "bulk/" }
func (r *BulkAddGroupMemberRequest) Method() Method           { return MethodPost }
func (r *BulkAddGroupMemberRequest) MinServerVersion() string { return MinVersionGroupMembers }
func (r *BulkAddGroupMemberRequest) BodyParams() []Param {
	return []Param{{"emails", strings.Join(r.Emails, ",")}}
}
func (r *BulkAddGroupMemberRequest) ParseResponse(body []byte) (BulkAddResult, error) {
	return decodeJSON[BulkAddResult](body)
}

// RemoveGroupMemberRequest removes a user from a group.
// It is a DELETE carrying a form body, so it builds its own request.
// 从群组移除成员, 该请求是携带表单体的 DELETE, 因此自行构造请求.
type RemoveGroupMemberRequest struct {
	sessionRequest
	GroupID  int
	Username string
}

func NewRemoveGroupMemberRequest(token string, groupID int, username string) *RemoveGroupMemberRequest {
	return &RemoveGroupMemberRequest{
		sessionRequest: newSession("RemoveGroupMember", token, map[int]ErrorKind{http.StatusForbidden: NotEnoughPermissions}),
		GroupID:        groupID,
		Username:       username,
	}
}

func (r *RemoveGroupMemberRequest) Path() string   { return groupPath(r.GroupID) + "members/" }
func (r *RemoveGroupMemberRequest) Method() Method { return MethodCustom }
func (r *RemoveGroupMemberRequest) BuildRequest(ctx context.Context, server *url.URL) (*http.Request, error) {
	target, err := ResolveURL(server, r.Path())
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target,
		strings.NewReader(encodeOrdered([]Param{{"user_name", r.Username}})))
	if err != nil {
		return nil, &ProgrammingError{Reason: err.Error()}
	}
	for _, h := range r.Headers() {
		req.Header.Add(h.Name, h.Value)
	}
	req.Header.Set("Content-Type", secure.ContentType)
	return req, nil
}
func (r *RemoveGroupMemberRequest) ParseResponse(body []byte) (bool, error) { return parseAck(body) }
