// Package secure holds credential buffers that are wiped once they have been written to the wire.
// The form content never exists as one assembled plaintext string: every pair is escaped
// into a scratch buffer, written, and the scratch buffer is zeroed again.
// 提供写入请求后即被清零的凭据缓冲区, 表单内容不会以完整明文字符串的形式存在于内存中.
package secure

import (
	"io"
	"log/slog"
	"sync"
)

// ContentType is the media type produced by Form. 表单内容类型.
const ContentType = "application/x-www-form-urlencoded"

// Pair is one key/value entry of a Form. 表单中的一个键值对.
type Pair struct {
	Key   string
	Value []byte
}

// Field builds a pair from a byte value. The value is copied by NewForm.
// 使用字节值构造键值对, NewForm 会复制该值.
func Field(key string, value []byte) Pair {
	return Pair{Key: key, Value: value}
}

// Text builds a pair from a non-sensitive string value. 使用非敏感字符串构造键值对.
func Text(key, value string) Pair {
	return Pair{Key: key, Value: []byte(value)}
}

// Form is a one-shot url-encoded form body holding sensitive values.
// After WriteTo returns, successfully or not, every buffer it owns is zero.
// 一次性的 url 编码表单, WriteTo 返回后 (无论成功与否) 其持有的所有缓冲区均被清零.
type Form struct {
	mu     sync.Mutex
	keys   [][]byte
	values [][]byte
	wiped  bool
}

// NewForm copies every pair into buffers owned by the form.
// The caller keeps ownership of its own slices and may wipe them at any time.
// 复制所有键值对到表单自有的缓冲区, 调用方仍持有并可随时清零自己的切片.
func NewForm(pairs ...Pair) *Form {
	f := &Form{
		keys:   make([][]byte, 0, len(pairs)),
		values: make([][]byte, 0, len(pairs)),
	}
	for _, p := range pairs {
		k := make([]byte, len(p.Key))
		copy(k, p.Key)
		v := make([]byte, len(p.Value))
		copy(v, p.Value)
		f.keys = append(f.keys, k)
		f.values = append(f.values, v)
	}
	return f
}

// Len returns the number of pairs. 返回键值对数量.
func (f *Form) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.keys)
}

// Wiped reports whether the form has already been consumed. 表单是否已被消费并清零.
func (f *Form) Wiped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wiped
}

// WriteTo writes key1=value1&key2=value2 to w and wipes the form.
// A form can be written once; later calls write nothing and return io.ErrClosedPipe.
// 写出 key1=value1&key2=value2 并清零表单, 表单只能写出一次.
func (f *Form) WriteTo(w io.Writer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer f.wipeLocked()

	if f.wiped {
		return 0, io.ErrClosedPipe
	}

	var total int64
	var scratch []byte
	defer func() { Wipe(scratch[:cap(scratch)]) }()

	for i := range f.keys {
		if i > 0 {
			n, err := w.Write([]byte{'&'})
			total += int64(n)
			if err != nil {
				return total, err
			}
		}

		need := 3*(len(f.keys[i])+len(f.values[i])) + 1
		if cap(scratch) < need {
			Wipe(scratch[:cap(scratch)])
			scratch = make([]byte, 0, need)
		}
		buf := appendEscaped(scratch[:0], f.keys[i])
		buf = append(buf, '=')
		buf = appendEscaped(buf, f.values[i])
		scratch = buf

		n, err := w.Write(buf)
		total += int64(n)
		Wipe(buf)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Reader exposes the form as a streaming body of unknown length.
// The form is written from a goroutine into a pipe; closing the reader,
// as net/http does for every request body, stops the writer and the form is wiped.
// Close blocks until the wipe has finished.
// 以未知长度的流形式暴露表单, 关闭 Reader 后写入协程退出并完成清零, Close 会等待清零结束.
func (f *Form) Reader() io.ReadCloser {
	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := f.WriteTo(pw)
		pw.CloseWithError(err)
	}()
	return &formReader{pr: pr, done: done}
}

// Wipe zeroes the form without writing it. 不写出直接清零表单.
func (f *Form) Wipe() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wipeLocked()
}

func (f *Form) wipeLocked() {
	for _, k := range f.keys {
		Wipe(k)
	}
	for _, v := range f.values {
		Wipe(v)
	}
	f.wiped = true
}

// String never reveals the form content. 不输出表单内容.
func (f *Form) String() string { return "secure.Form{REDACTED}" }

// LogValue keeps the form out of structured logs. 在结构化日志中隐藏表单内容.
func (f *Form) LogValue() slog.Value { return slog.StringValue("REDACTED") }

// Wipe overwrites every byte of b with zero. 将 b 的每个字节覆盖为零.
func Wipe(b []byte) {
	clear(b)
}

type formReader struct {
	pr   *io.PipeReader
	done chan struct{}
	once sync.Once
	err  error
}

func (r *formReader) Read(p []byte) (int, error) { return r.pr.Read(p) }

func (r *formReader) Close() error {
	r.once.Do(func() {
		r.err = r.pr.Close()
		<-r.done
	})
	return r.err
}

// ============ Escaping ============

const upperhex = "0123456789ABCDEF"

// appendEscaped query-escapes src into dst byte by byte, matching url.QueryEscape.
func appendEscaped(dst, src []byte) []byte {
	for _, c := range src {
		switch {
		case unreserved(c):
			dst = append(dst, c)
		case c == ' ':
			dst = append(dst, '+')
		default:
			dst = append(dst, '%', upperhex[c>>4], upperhex[c&15])
		}
	}
	return dst
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
