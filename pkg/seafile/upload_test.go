package seafile

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

type uploaded struct {
	contentLength int64
	contentType   string
	parts         []string // form names in wire order
	fields        map[string]string
	files         map[string]string
}

// uploadServer hands out links to itself and records every multipart post.
type uploadServer struct {
	mu    sync.Mutex
	posts []uploaded
	links int
}

func (u *uploadServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	link := func(endpoint string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			u.mu.Lock()
			u.links++
			u.mu.Unlock()
			_, _ = io.WriteString(w, `"http://`+r.Host+endpoint+`"`)
		}
	}
	mux.HandleFunc("/api2/repos/lib/upload-link/", link("/upload-api/0a1b"))
	mux.HandleFunc("/api2/repos/lib/update-link/", link("/update-api/0a1b"))
	store := func(w http.ResponseWriter, r *http.Request) {
		up := uploaded{
			contentLength: r.ContentLength,
			contentType:   r.Header.Get("Content-Type"),
			fields:        map[string]string{},
			files:         map[string]string{},
		}
		mr, err := r.MultipartReader()
		if err != nil {
			t.Errorf("MultipartReader() error = %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Errorf("NextPart() error = %v", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			b, _ := io.ReadAll(p)
			up.parts = append(up.parts, p.FormName())
			if p.FileName() != "" {
				up.files[p.FileName()] = string(b)
			} else {
				up.fields[p.FormName()] = string(b)
			}
		}
		u.mu.Lock()
		u.posts = append(u.posts, up)
		u.mu.Unlock()
		_, _ = io.WriteString(w, "6b2c9e0d")
	}
	mux.HandleFunc("/upload-api/0a1b", store)
	mux.HandleFunc("/update-api/0a1b", store)
	return mux
}

func (u *uploadServer) all() []uploaded {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]uploaded(nil), u.posts...)
}

func TestUpload(t *testing.T) {
	us := &uploadServer{}
	s := newTestSession(t, us.handler(t))

	var mu sync.Mutex
	var calls [][2]int64
	progress := func(done, total int64) {
		mu.Lock()
		calls = append(calls, [2]int64{done, total})
		mu.Unlock()
	}

	ok, err := s.Upload(context.Background(), "lib", "/docs", progress,
		UploadFile{Name: "a.txt", Content: strings.NewReader("hello"), Size: 5},
		UploadFile{Name: `we"ird.txt`, Content: strings.NewReader("world!"), Size: 6},
	)
	if err != nil || !ok {
		t.Fatalf("Upload() = %v, %v", ok, err)
	}

	posts := us.all()
	if len(posts) != 1 {
		t.Fatalf("posts = %d, want 1", len(posts))
	}
	p := posts[0]
	if p.contentLength <= 0 {
		t.Errorf("ContentLength = %d, want exact length", p.contentLength)
	}
	if !strings.HasPrefix(p.contentType, "multipart/form-data; boundary=") || strings.Contains(p.contentType, `boundary="`) {
		t.Errorf("Content-Type = %q", p.contentType)
	}
	if strings.Join(p.parts, ",") != "parent_dir,file,file" {
		t.Errorf("parts = %v", p.parts)
	}
	if p.fields["parent_dir"] != "/docs" {
		t.Errorf("parent_dir = %q", p.fields["parent_dir"])
	}
	if p.files["a.txt"] != "hello" || p.files[`we"ird.txt`] != "world!" {
		t.Errorf("files = %v", p.files)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) == 0 {
		t.Fatal("progress never reported")
	}
	last := calls[len(calls)-1]
	if last != [2]int64{11, 11} {
		t.Errorf("last progress = %v, want [11 11]", last)
	}
}

func TestUploadUnknownSizeIsChunked(t *testing.T) {
	us := &uploadServer{}
	s := newTestSession(t, us.handler(t))

	var lastTotal atomic.Int64
	ok, err := s.Upload(context.Background(), "lib", "/", func(_, total int64) { lastTotal.Store(total) },
		UploadFile{Name: "stream.bin", Content: io.MultiReader(strings.NewReader("abc"), strings.NewReader("def")), Size: -1},
	)
	if err != nil || !ok {
		t.Fatalf("Upload() = %v, %v", ok, err)
	}
	p := us.all()[0]
	if p.contentLength != -1 {
		t.Errorf("ContentLength = %d, want -1", p.contentLength)
	}
	if p.files["stream.bin"] != "abcdef" {
		t.Errorf("content = %q", p.files["stream.bin"])
	}
	if got := lastTotal.Load(); got != -1 {
		t.Errorf("progress total = %d, want -1", got)
	}
}

func TestUploadValidation(t *testing.T) {
	us := &uploadServer{}
	s := newTestSession(t, us.handler(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		files []UploadFile
	}{
		{"none", nil},
		{"no name", []UploadFile{{Content: strings.NewReader("x"), Size: 1}}},
		{"no content", []UploadFile{{Name: "a"}}},
		{"path in name", []UploadFile{{Name: "sub/a", Content: strings.NewReader("x"), Size: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Upload(ctx, "lib", "/", nil, tt.files...); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
	us.mu.Lock()
	defer us.mu.Unlock()
	if us.links != 0 {
		t.Errorf("validation fetched %d links", us.links)
	}
}

func TestUploadRejectsBadLink(t *testing.T) {
	req, err := NewUploadRequest("tok", "not a link", "/", nil, UploadFile{Name: "a", Content: strings.NewReader("x"), Size: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Send(context.Background(), NewConnection(), mustURL(t, "https://cloud.example.com"), req); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("error = %v, want ErrInvalidArgument", err)
	}
}

func TestUploadOutOfQuota(t *testing.T) {
	s := newTestSession(t, reply(http.StatusInternalServerError, ""))
	_, err := s.GetUploadLink(context.Background(), "lib", "/")
	if !errors.Is(err, ErrOutOfQuota) {
		t.Fatalf("GetUploadLink() error = %v, want OutOfQuota", err)
	}
	_, err = s.Upload(context.Background(), "lib", "/", nil, UploadFile{Name: "a", Content: strings.NewReader("x"), Size: 1})
	if !errors.Is(err, ErrOutOfQuota) {
		t.Fatalf("Upload() error = %v, want OutOfQuota", err)
	}
}

func TestUpdate(t *testing.T) {
	us := &uploadServer{}
	s := newTestSession(t, us.handler(t))

	ok, err := s.Update(context.Background(), "lib", "/docs/report.txt", strings.NewReader("v2"), 2, nil)
	if err != nil || !ok {
		t.Fatalf("Update() = %v, %v", ok, err)
	}
	p := us.all()[0]
	if p.fields["target_file"] != "/docs/report.txt" || p.files["report.txt"] != "v2" {
		t.Errorf("post = %+v", p)
	}
}

func TestUploadLocalDir(t *testing.T) {
	root := t.TempDir()
	for name, body := range map[string]string{
		"a.txt":       "A",
		"sub/b.txt":   "B",
		"sub/c.log":   "C",
		"sub/d/e.txt": "E",
	} {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	us := &uploadServer{}
	s := newTestSession(t, us.handler(t))

	res, err := s.UploadLocalDir(context.Background(), "lib", "/backup", root, "**/*.txt", true, 2)
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for k, err := range res {
		if err != nil {
			t.Errorf("%s: %v", k, err)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if strings.Join(keys, ",") != "a.txt,sub/b.txt,sub/d/e.txt" {
		t.Errorf("uploaded = %v", keys)
	}

	rel := map[string]string{}
	for _, p := range us.all() {
		for name := range p.files {
			rel[name] = p.fields["relative_path"]
		}
		if p.fields["parent_dir"] != "/backup" {
			t.Errorf("parent_dir = %q", p.fields["parent_dir"])
		}
	}
	if rel["a.txt"] != "" || rel["b.txt"] != "sub" || rel["e.txt"] != "sub/d" {
		t.Errorf("relative paths = %v", rel)
	}

	res, err = s.UploadLocalDir(context.Background(), "lib", "/backup", root, "", false, 2)
	if err != nil || len(res) != 1 {
		t.Errorf("non recursive = %v, %v", res, err)
	}
}

func TestUploadLocalFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "local.bin")
	if err := os.WriteFile(p, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}
	us := &uploadServer{}
	s := newTestSession(t, us.handler(t))

	var done atomic.Int64
	ok, err := s.UploadLocalFile(context.Background(), "lib", "/", p, func(d, _ int64) { done.Store(d) })
	if err != nil || !ok {
		t.Fatalf("UploadLocalFile() = %v, %v", ok, err)
	}
	if done.Load() != 10 || us.all()[0].files["local.bin"] != "0123456789" {
		t.Errorf("done = %d, post = %+v", done.Load(), us.all()[0])
	}

	if _, err := s.UploadLocalFile(context.Background(), "lib", "/", filepath.Join(t.TempDir(), "absent"), nil); err == nil {
		t.Error("missing local file should fail")
	}
}
