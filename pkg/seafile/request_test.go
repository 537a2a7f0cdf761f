package seafile

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"testing"
)

// dumpRequest renders everything the dispatcher would put on the wire.
func dumpRequest(t *testing.T, r *http.Request) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(r.Method + " " + r.URL.String() + "\n")
	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(k + ": " + strings.Join(r.Header[k], ",") + "\n")
	}
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatal(err)
		}
		sb.Write(b)
	}
	return sb.String()
}

func TestBuildRequestIsDeterministic(t *testing.T) {
	ctx := context.Background()
	server := mustURL(t, "https://cloud.example.com/seafile")
	listDir, err := NewListDirectoryRequest("tok", "lib", "/a b/", OnlyFiles, false)
	if err != nil {
		t.Fatal(err)
	}
	move := NewMoveFileRequest("tok", "lib", "/a.txt", "other", "/dst/")
	share := NewCreateShareLinkRequest("tok", "lib", "/a.txt", ShareLinkOptions{ExpireDays: 3})
	link := NewGetUploadLinkRequest("tok", "lib", "/up")

	tests := []struct {
		name  string
		build func() (*http.Request, error)
	}{
		{"ListDirectory", func() (*http.Request, error) { return buildRequest(ctx, server, listDir) }},
		{"MoveFile", func() (*http.Request, error) { return buildRequest(ctx, server, move) }},
		{"CreateShareLink", func() (*http.Request, error) { return buildRequest(ctx, server, share) }},
		{"GetUploadLink", func() (*http.Request, error) { return buildRequest(ctx, server, link) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.build()
			if err != nil {
				t.Fatal(err)
			}
			b, err := tt.build()
			if err != nil {
				t.Fatal(err)
			}
			if da, db := dumpRequest(t, a), dumpRequest(t, b); da != db {
				t.Errorf("builds differ:\n%s\n---\n%s", da, db)
			}
		})
	}
}

func TestDescriptorWire(t *testing.T) {
	ctx := context.Background()
	server := mustURL(t, "https://cloud.example.com")

	move := NewMoveFileRequest("tok", "lib", "a.txt", "other", "/dst")
	r, err := buildRequest(ctx, server, move)
	if err != nil {
		t.Fatal(err)
	}
	want := "POST https://cloud.example.com/api2/repos/lib/file/?p=%2Fa.txt\n"
	if got := dumpRequest(t, r); !strings.HasPrefix(got, want) || !strings.HasSuffix(got, "operation=move&dst_repo=other&dst_dir=%2Fdst") {
		t.Errorf("move request =\n%s", got)
	}

	unstar := NewUnstarFileRequest("tok", "lib", "/a.txt")
	r, err = buildRequest(ctx, server, unstar)
	if err != nil {
		t.Fatal(err)
	}
	if r.Method != http.MethodDelete || r.URL.Query().Get("repo_id") != "lib" || r.URL.Query().Get("p") != "/a.txt" {
		t.Errorf("unstar request = %s %s", r.Method, r.URL)
	}

	avatar := NewUserAvatarRequest("tok", "a@b.com", 64)
	if got := avatar.Path(); got != "api2/avatars/user/a@b.com/resized/64/" {
		t.Errorf("avatar path = %q", got)
	}
}

func TestErrorOverrides(t *testing.T) {
	type translator interface{ TranslateError(int) ErrorKind }
	upload, err := NewUploadRequest("tok", "https://u.example.com/up", "/", nil, UploadFile{Name: "a", Content: strings.NewReader("x"), Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	update, err := NewUpdateRequest("tok", "https://u.example.com/up", "/a", nil, strings.NewReader("x"), 1)
	if err != nil {
		t.Fatal(err)
	}
	listDir, err := NewListDirectoryRequest("tok", "lib", "/", FilesAndDirectories, false)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		req    translator
		status int
		want   ErrorKind
	}{
		{"auth 400", NewAuthRequest("u", nil), 400, InvalidCredentials},
		{"auth 500", NewAuthRequest("u", nil), 500, NoDetails},
		{"upload link 500", NewGetUploadLinkRequest("tok", "lib", "/"), 500, OutOfQuota},
		{"update link 500", NewGetUpdateLinkRequest("tok", "lib", "/"), 500, OutOfQuota},
		{"upload 403", upload, 403, NotEnoughPermissions},
		{"update 440", update, 440, FileNotFound},
		{"list dir 404", listDir, 404, PathDoesNotExist},
		{"list dir 440", listDir, 440, EncryptedLibraryPasswordRequired},
		{"decrypt 400", NewDecryptLibraryRequest("tok", "lib", nil), 400, InvalidLibraryPassword},
		{"decrypt 409", NewDecryptLibraryRequest("tok", "lib", nil), 409, LibraryNotEncrypted},
		{"file detail 404", NewGetFileDetailRequest("tok", "lib", "/a"), 404, FileNotFound},
		{"account 401", NewAccountInfoRequest("tok"), 401, InvalidToken},
		{"libraries 418", NewListLibrariesRequest("tok"), 418, NoDetails},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.TranslateError(tt.status); got != tt.want {
				t.Errorf("TranslateError(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestParseAck(t *testing.T) {
	tests := []struct {
		body    string
		want    bool
		wantErr bool
	}{
		{`"success"`, true, false},
		{`success`, true, false},
		{`{"success": true}`, true, false},
		{`{"id": 3}`, true, false},
		{`{"success": false}`, false, true},
		{`oops`, false, true},
	}
	for _, tt := range tests {
		got, err := parseAck([]byte(tt.body))
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("parseAck(%s) = %v, %v", tt.body, got, err)
		}
		if err != nil && !errors.Is(err, ErrUnexpectedResponse) {
			t.Errorf("parseAck(%s) error = %v, want ErrUnexpectedResponse", tt.body, err)
		}
	}
}

func TestRecursiveListingNeedsDirectoryFilter(t *testing.T) {
	if _, err := NewListDirectoryRequest("tok", "lib", "/", OnlyFiles, true); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
	r, err := NewListDirectoryRequest("tok", "lib", "/", OnlyDirectories, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Path(); got != "api2/repos/lib/dir/?p=%2F&recursive=1&t=d" {
		t.Errorf("Path() = %q", got)
	}
}

func TestOperationName(t *testing.T) {
	if got := operationName(NewPingRequest()); got != "Ping" {
		t.Errorf("operationName(Ping) = %q", got)
	}
	if got := operationName(&stubRequest{}); got != "stubRequest" {
		t.Errorf("operationName(stub) = %q", got)
	}
}
