package seafile

import (
	"context"
	"fmt"

	"github.com/GoFurry/seafile-sdk-go/internal/secure"
)

// ListLibraries lists the libraries visible to the user. 列出用户可见的资料库.
func (s *Session) ListLibraries(ctx context.Context) ([]Library, error) {
	return sessionSend(ctx, s, NewListLibrariesRequest(s.AuthToken))
}

// ListSharedLibraries lists the libraries other users shared with the user. 列出他人共享给用户的资料库.
func (s *Session) ListSharedLibraries(ctx context.Context) ([]SharedLibrary, error) {
	return sessionSend(ctx, s, NewListSharedLibrariesRequest(s.AuthToken))
}

// GetLibraryInfo fetches one library by id. 按 id 获取资料库.
func (s *Session) GetLibraryInfo(ctx context.Context, libraryID string) (Library, error) {
	if err := requireArg("library id", libraryID); err != nil {
		return Library{}, err
	}
	return sessionSend(ctx, s, NewGetLibraryInfoRequest(s.AuthToken, libraryID))
}

// GetDefaultLibrary resolves the default library id and then fetches the library.
// It returns ErrNoDefaultLibrary when the account has none.
// 先获取默认资料库 id 再获取资料库详情, 没有默认资料库时返回 ErrNoDefaultLibrary.
func (s *Session) GetDefaultLibrary(ctx context.Context) (Library, error) {
	ref, err := sessionSend(ctx, s, NewGetDefaultLibraryRequest(s.AuthToken))
	if err != nil {
		return Library{}, err
	}
	if !ref.Exists || ref.LibraryID == "" {
		return Library{}, ErrNoDefaultLibrary
	}
	return s.GetLibraryInfo(ctx, ref.LibraryID)
}

// CreateLibrary creates an unencrypted library and returns it. 新建非加密资料库并返回.
func (s *Session) CreateLibrary(ctx context.Context, name, description string) (Library, error) {
	return s.createLibrary(ctx, name, description, nil)
}

// CreateEncryptedLibrary creates a library encrypted with password.
// password is zeroed before the call returns.
// 新建使用 password 加密的资料库, 返回前会清零 password.
func (s *Session) CreateEncryptedLibrary(ctx context.Context, name, description string, password []byte) (Library, error) {
	defer secure.Wipe(password)
	if len(password) == 0 {
		return Library{}, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}
	return s.createLibrary(ctx, name, description, password)
}

func (s *Session) createLibrary(ctx context.Context, name, description string, password []byte) (Library, error) {
	if err := requireArg("library name", name); err != nil {
		return Library{}, err
	}
	ref, err := sessionSend(ctx, s, NewCreateLibraryRequest(s.AuthToken, name, description, password))
	if err != nil {
		return Library{}, fmt.Errorf("create library %q: %w", name, err)
	}
	return s.GetLibraryInfo(ctx, ref.LibraryID)
}

// DecryptLibrary unlocks an encrypted library for this session.
// password is zeroed before the call returns.
// 为当前会话解锁加密资料库, 返回前会清零 password.
func (s *Session) DecryptLibrary(ctx context.Context, libraryID string, password []byte) (bool, error) {
	defer secure.Wipe(password)
	if err := requireArg("library id", libraryID); err != nil {
		return false, err
	}
	if len(password) == 0 {
		return false, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}
	return sessionSend(ctx, s, NewDecryptLibraryRequest(s.AuthToken, libraryID, password))
}

// DeleteLibrary deletes a library. 删除资料库.
func (s *Session) DeleteLibrary(ctx context.Context, libraryID string) (bool, error) {
	if err := requireArg("library id", libraryID); err != nil {
		return false, err
	}
	return sessionSend(ctx, s, NewDeleteLibraryRequest(s.AuthToken, libraryID))
}
