package seafile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"testing"
)

func TestListDirectorySetsFullPath(t *testing.T) {
	rec := &recorder{}
	body := `[{"id":"0000","type":"dir","name":"test_dir","size":0,"mtime":1500000000},{"id":"1111","type":"file","name":"a.txt","size":12,"mtime":"1500000001"}]`
	s := newTestSession(t, rec.wrap(reply(http.StatusOK, body)))

	entries, err := s.ListDirectory(context.Background(), "lib", "/test/subfolder")
	if err != nil {
		t.Fatalf("ListDirectory() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	dir := entries[0]
	if dir.Path != "/test/subfolder/test_dir" || !dir.IsDir() || dir.LibraryID != "lib" {
		t.Errorf("dir entry = %+v", dir)
	}
	if entries[1].Path != "/test/subfolder/a.txt" || entries[1].Size != 12 || entries[1].Mtime.Unix() != 1500000001 {
		t.Errorf("file entry = %+v", entries[1])
	}

	r := rec.all()[0]
	if r.Path != "/api2/repos/lib/dir/" || r.Query.Get("p") != "/test/subfolder/" {
		t.Errorf("request = %s ?%v", r.Path, r.Query)
	}
}

func TestListDirectoriesRecursiveUsesParentDir(t *testing.T) {
	body := `[{"id":"1","type":"dir","name":"b","parent_dir":"/a/","mtime":0},{"id":"2","type":"dir","name":"a","parent_dir":"/","mtime":0}]`
	rec := &recorder{}
	s := newTestSession(t, rec.wrap(reply(http.StatusOK, body)))

	entries, err := s.ListDirectoriesRecursive(context.Background(), "lib", "")
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Path != "/a/b" || entries[1].Path != "/a" {
		t.Errorf("paths = %q, %q", entries[0].Path, entries[1].Path)
	}
	q := rec.all()[0].Query
	if q.Get("recursive") != "1" || q.Get("t") != "d" || q.Get("p") != "/" {
		t.Errorf("query = %v", q)
	}
}

func TestListDirectoryMatching(t *testing.T) {
	body := `[{"type":"file","name":"a.jpg"},{"type":"file","name":"b.jpg"},{"type":"file","name":"c.png"},{"type":"dir","name":"d.jpg"}]`
	s := newTestSession(t, reply(http.StatusOK, body))

	entries, err := s.ListDirectoryMatching(context.Background(), "lib", "/", "*.jpg", "b*")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if !slices.Equal(names, []string{"a.jpg", "d.jpg"}) {
		t.Errorf("names = %v", names)
	}

	if _, err := s.ListDirectoryMatching(context.Background(), "lib", "/", "[", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad pattern error = %v", err)
	}
}

func TestListTree(t *testing.T) {
	tree := map[string]string{
		"/":     `[{"type":"dir","name":"a"},{"type":"file","name":"x","size":1}]`,
		"/a/":   `[{"type":"file","name":"y","size":2},{"type":"dir","name":"b"}]`,
		"/a/b/": `[]`,
	}
	s := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := tree[r.URL.Query().Get("p")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))

	entries, err := s.ListTree(context.Background(), "lib", "/", 2)
	if err != nil {
		t.Fatalf("ListTree() error = %v", err)
	}
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	if want := []string{"/a", "/a/b", "/a/y", "/x"}; !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestListTreeStopsOnError(t *testing.T) {
	s := newTestSession(t, reply(http.StatusNotFound, ""))
	if _, err := s.ListTree(context.Background(), "lib", "/missing", 0); !errors.Is(err, ErrPathDoesNotExist) {
		t.Fatalf("error = %v, want PathDoesNotExist", err)
	}
}

func TestMoveNotFoundQuirkIsSuccess(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec.wrap(reply(http.StatusNotFound, `<h1>not found</h1>`)))

	ok, err := s.Move(context.Background(), "lib", "/src/a.txt", "", "/dst/")
	if err != nil || !ok {
		t.Fatalf("Move() = %v, %v; want true", ok, err)
	}
	r := rec.all()[0]
	if r.Body != "operation=move&dst_repo=lib&dst_dir=%2Fdst%2F" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestFileOperationsAcceptRedirects(t *testing.T) {
	s := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/elsewhere")
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	if ok, err := s.Copy(context.Background(), "lib", "/a.txt", "other", "/"); err != nil || !ok {
		t.Fatalf("Copy() = %v, %v", ok, err)
	}
}

func TestFileOperationArguments(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec.wrap(reply(http.StatusOK, `"success"`)))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (bool, error)
	}{
		{"move into own dir", func() (bool, error) { return s.Move(ctx, "lib", "/d/a.txt", "lib", "/d/") }},
		{"rename with slash", func() (bool, error) { return s.RenameFile(ctx, "lib", "/a.txt", "b/c.txt") }},
		{"delete root", func() (bool, error) { return s.Delete(ctx, "lib", "/") }},
		{"mkdir root", func() (bool, error) { return s.Mkdir(ctx, "lib", "") }},
		{"missing library", func() (bool, error) { return s.Mkdir(ctx, "", "/x") }},
		{"copy without target", func() (bool, error) { return s.Copy(ctx, "lib", "/a.txt", "", "") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.call(); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
	if rec.count() != 0 {
		t.Errorf("invalid calls reached the server %d times", rec.count())
	}

	// Copying into the same directory is allowed.
	if ok, err := s.Copy(ctx, "lib", "/d/a.txt", "", "/d/"); err != nil || !ok {
		t.Errorf("Copy() into same dir = %v, %v", ok, err)
	}
}

func TestDeleteBatch(t *testing.T) {
	s := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("p") == "/missing" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`"success"`))
	}))
	paths := []string{"/a", "/b", "/missing"}

	res := s.DeleteBatch(context.Background(), "lib", paths, false, 2)
	if len(res) != 3 || res["/a"] != nil || res["/b"] != nil {
		t.Errorf("results = %v", res)
	}
	if !errors.Is(res["/missing"], ErrPathDoesNotExist) {
		t.Errorf("missing error = %v", res["/missing"])
	}

	res = s.DeleteBatch(context.Background(), "lib", paths, true, 2)
	for p, err := range res {
		if err != nil {
			t.Errorf("ignoreErrors: %s = %v", p, err)
		}
	}
}

func TestExists(t *testing.T) {
	s := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("p") {
		case "/here.txt":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "1", "type": "file", "name": "here.txt", "size": 3, "mtime": 1})
		case "/gone.txt":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	ctx := context.Background()

	if ok, err := s.Exists(ctx, "lib", "/here.txt"); err != nil || !ok {
		t.Errorf("Exists(here) = %v, %v", ok, err)
	}
	if ok, err := s.Exists(ctx, "lib", "/gone.txt"); err != nil || ok {
		t.Errorf("Exists(gone) = %v, %v", ok, err)
	}
	if _, err := s.Exists(ctx, "lib", "/broken.txt"); err == nil {
		t.Error("Exists(broken) should fail")
	}

	got, err := s.ExistsBatch(ctx, "lib", []string{"/here.txt", "/gone.txt", "/broken.txt"}, true, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !got["/here.txt"] || got["/gone.txt"] || got["/broken.txt"] {
		t.Errorf("ExistsBatch() = %v", got)
	}
	if _, err := s.ExistsBatch(ctx, "lib", []string{"/broken.txt"}, false, 1); err == nil {
		t.Error("ExistsBatch() without ignoreErrors should fail")
	}

	details, err := s.FileDetails(ctx, "lib", []string{"/here.txt", "/gone.txt"}, true, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(details) != 1 || details["/here.txt"].Path != "/here.txt" {
		t.Errorf("FileDetails() = %+v", details)
	}
}

func TestThumbnail(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, rec.wrap(reply(http.StatusOK, "\x89PNG")))
	b, err := s.Thumbnail(context.Background(), "lib", "/img.png", 48)
	if err != nil || string(b) != "\x89PNG" {
		t.Fatalf("Thumbnail() = %q, %v", b, err)
	}
	if q := rec.all()[0].Query; q.Get("size") != "48" || q.Get("p") != "/img.png" {
		t.Errorf("query = %v", q)
	}
	if _, err := s.Thumbnail(context.Background(), "lib", "/img.png", 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("size 0 error = %v", err)
	}
}
