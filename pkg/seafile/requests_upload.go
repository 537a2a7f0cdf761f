package seafile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/GoFurry/seafile-sdk-go/internal/util"
)

// ProgressFunc receives the number of content bytes sent so far and the total,
// or -1 as total when a part has no known size. It runs on the transport goroutine.
// 上传/下载进度回调, total 未知时为 -1, 在传输协程中调用.
type ProgressFunc func(done, total int64)

// ============ Upload / Update Links ============

// GetUploadLinkRequest fetches a one-time upload URL for a directory.
// The server answers 500 when the account is over quota.
// 获取目录的一次性上传链接, 超出配额时服务器返回 500.
type GetUploadLinkRequest struct {
	sessionRequest
	LibraryID string
	Dir       string
	endpoint  string
}

func NewGetUploadLinkRequest(token, libraryID, dir string) *GetUploadLinkRequest {
	return &GetUploadLinkRequest{
		sessionRequest: newSession("GetUploadLink", token, map[int]ErrorKind{
			http.StatusInternalServerError: OutOfQuota,
			http.StatusForbidden:           NotEnoughPermissions,
			http.StatusNotFound:            PathDoesNotExist,
		}),
		LibraryID: libraryID,
		Dir:       util.NormalizePath(dir),
		endpoint:  "upload-link/",
	}
}

func (r *GetUploadLinkRequest) Path() string {
	return apiPath(libraryPath(r.LibraryID)+r.endpoint, pathQuery(r.Dir))
}
func (r *GetUploadLinkRequest) Method() Method { return MethodGet }
func (r *GetUploadLinkRequest) ParseResponse(body []byte) (string, error) {
	return parseQuotedString(body)
}

// GetUpdateLinkRequest fetches a one-time URL for replacing files in a directory.
// 获取目录的一次性更新链接.
type GetUpdateLinkRequest struct {
	GetUploadLinkRequest
}

func NewGetUpdateLinkRequest(token, libraryID, dir string) *GetUpdateLinkRequest {
	r := &GetUpdateLinkRequest{GetUploadLinkRequest: *NewGetUploadLinkRequest(token, libraryID, dir)}
	r.name = "GetUpdateLink"
	r.endpoint = "update-link/"
	return r
}

// ============ Multipart Uploads ============

// UploadFile is one file sent in an upload. Size is -1 when unknown.
// 上传中的单个文件, Size 未知时为 -1.
type UploadFile struct {
	Name    string
	Content io.Reader
	Size    int64
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartUpload is the shared shape of upload and update requests.
// Its body is streamed: envelope segments are rendered up front, file content is read lazily.
type multipartUpload struct {
	sessionRequest
	Link     string
	Progress ProgressFunc
	files    []UploadFile
}

// Path returns the absolute one-time link; upload descriptors build their own request.
func (r *multipartUpload) Path() string   { return r.Link }
func (r *multipartUpload) Method() Method { return MethodCustom }

// build renders the request with the given leading form fields.
func (r *multipartUpload) build(ctx context.Context, fields []Param) (*http.Request, error) {
	link, err := url.Parse(r.Link)
	if err != nil || link.Host == "" || (link.Scheme != "http" && link.Scheme != "https") {
		return nil, fmt.Errorf("%w: upload link %q", ErrInvalidArgument, r.Link)
	}
	body, size, contentType, err := r.encode(fields)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, link.String(), body)
	if err != nil {
		return nil, &ProgrammingError{Reason: err.Error()}
	}
	req.ContentLength = size
	for _, h := range r.Headers() {
		req.Header.Add(h.Name, h.Value)
	}
	// The boundary must not be quoted, seafile rejects it otherwise.
	req.Header.Set("Content-Type", contentType)
	return req, nil
}

// encode renders the multipart envelope. The returned size is -1 unless every file size is known.
func (r *multipartUpload) encode(fields []Param) (io.Reader, int64, string, error) {
	var (
		buf   bytes.Buffer
		parts []io.Reader
		size  int64
		total int64
	)
	mw := multipart.NewWriter(&buf)
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		seg := bytes.Clone(buf.Bytes())
		buf.Reset()
		parts = append(parts, bytes.NewReader(seg))
		if size >= 0 {
			size += int64(len(seg))
		}
	}

	for _, f := range fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return nil, 0, "", err
		}
	}

	for _, f := range r.files {
		if f.Size < 0 {
			total = -1
		} else if total >= 0 {
			total += f.Size
		}
	}
	prog := &progressState{total: total, fn: r.Progress}

	for _, f := range r.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", "application/octet-stream")
		if _, err := mw.CreatePart(h); err != nil {
			return nil, 0, "", err
		}
		flush()
		var content io.Reader = f.Content
		if f.Size >= 0 {
			content = io.LimitReader(content, f.Size)
		}
		if r.Progress != nil {
			content = &progressReader{r: content, p: prog}
		}
		parts = append(parts, content)
		if f.Size < 0 {
			size = -1
		} else if size >= 0 {
			size += f.Size
		}
	}
	if err := mw.Close(); err != nil {
		return nil, 0, "", err
	}
	flush()
	return io.MultiReader(parts...), size, "multipart/form-data; boundary=" + mw.Boundary(), nil
}

// ParseResponse reports whether the server acknowledged the upload with a non-empty body.
func (r *multipartUpload) ParseResponse(body []byte) (bool, error) {
	return len(bytes.TrimSpace(body)) > 0, nil
}

func validateFiles(files []UploadFile) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: at least one file is required", ErrInvalidArgument)
	}
	for i, f := range files {
		if strings.TrimSpace(f.Name) == "" || f.Content == nil {
			return fmt.Errorf("%w: file %d needs a name and content", ErrInvalidArgument, i)
		}
		if strings.ContainsAny(f.Name, "/\\") {
			return fmt.Errorf("%w: file name %q must not contain a path", ErrInvalidArgument, f.Name)
		}
	}
	return nil
}

// UploadRequest posts one or more new files into a directory through an upload link.
// Content readers are consumed, so a request can only be sent once.
// 通过上传链接将一个或多个文件上传到目录, 内容读取后即被消费, 请求只能发送一次.
type UploadRequest struct {
	multipartUpload
	ParentDir string
	// RelativePath places the files in a subdirectory of ParentDir, created on demand.
	// 将文件放入 ParentDir 下的子目录, 不存在时自动创建.
	RelativePath string
}

func NewUploadRequest(token, link, parentDir string, progress ProgressFunc, files ...UploadFile) (*UploadRequest, error) {
	if err := validateFiles(files); err != nil {
		return nil, err
	}
	dir := util.NormalizePath(parentDir)
	return &UploadRequest{
		multipartUpload: multipartUpload{
			sessionRequest: newSession("Upload", token, map[int]ErrorKind{
				http.StatusForbidden:           NotEnoughPermissions,
				http.StatusInternalServerError: OutOfQuota,
			}),
			Link:     link,
			Progress: progress,
			files:    files,
		},
		ParentDir: dir,
	}, nil
}

func (r *UploadRequest) BuildRequest(ctx context.Context, _ *url.URL) (*http.Request, error) {
	fields := []Param{{"parent_dir", r.ParentDir}}
	if rel := strings.Trim(util.NormalizePath(r.RelativePath), "/"); rel != "" {
		fields = append(fields, Param{"relative_path", rel})
	}
	return r.build(ctx, fields)
}

// UpdateRequest replaces the content of an existing file through an update link.
// 通过更新链接替换已有文件的内容.
type UpdateRequest struct {
	multipartUpload
	TargetFile string
}

func NewUpdateRequest(token, link, targetFile string, progress ProgressFunc, content io.Reader, size int64) (*UpdateRequest, error) {
	target := util.NormalizePath(targetFile)
	file := UploadFile{Name: pathBase(target), Content: content, Size: size}
	if err := validateFiles([]UploadFile{file}); err != nil {
		return nil, err
	}
	return &UpdateRequest{
		multipartUpload: multipartUpload{
			sessionRequest: newSession("Update", token, map[int]ErrorKind{
				StatusRepoPasswordRequired: FileNotFound,
				http.StatusForbidden:       NotEnoughPermissions,
			}),
			Link:     link,
			Progress: progress,
			files:    []UploadFile{file},
		},
		TargetFile: target,
	}, nil
}

func (r *UpdateRequest) BuildRequest(ctx context.Context, _ *url.URL) (*http.Request, error) {
	return r.build(ctx, []Param{{"target_file", r.TargetFile}})
}

func pathBase(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ============ Progress ============

type progressState struct {
	done  int64
	total int64
	fn    ProgressFunc
}

type progressReader struct {
	r io.Reader
	p *progressState
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	if n > 0 {
		pr.p.done += int64(n)
		pr.p.fn(pr.p.done, pr.p.total)
	}
	return n, err
}
