package secure

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"testing"
)

func allZero(bufs ...[]byte) bool {
	for _, b := range bufs {
		for _, c := range b {
			if c != 0 {
				return false
			}
		}
	}
	return true
}

func TestFormWriteTo(t *testing.T) {
	pw := []byte("mypw")
	f := NewForm(Text("username", "user@test.com"), Field("password", pw))

	var out bytes.Buffer
	n, err := f.WriteTo(&out)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	want := "username=user%40test.com&password=mypw"
	if out.String() != want {
		t.Errorf("WriteTo() wrote %q, want %q", out.String(), want)
	}
	if n != int64(len(want)) {
		t.Errorf("WriteTo() n = %d, want %d", n, len(want))
	}
	if !f.Wiped() || !allZero(f.keys...) || !allZero(f.values...) {
		t.Error("form buffers not wiped after successful write")
	}
	if string(pw) != "mypw" {
		t.Error("form must copy the caller's buffer, not alias it")
	}
}

func TestFormCopiesInput(t *testing.T) {
	pw := []byte("secret")
	f := NewForm(Field("password", pw))
	Wipe(pw)

	var out bytes.Buffer
	if _, err := f.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "password=secret" {
		t.Errorf("WriteTo() = %q, want password=secret", out.String())
	}
}

type failingWriter struct {
	after int
	calls int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls > w.after {
		return 0, errors.New("boom")
	}
	return len(p), nil
}

func TestFormWipedOnWriteError(t *testing.T) {
	for _, after := range []int{0, 1, 2} {
		t.Run(fmt.Sprintf("fail after %d writes", after), func(t *testing.T) {
			f := NewForm(Text("username", "u"), Field("password", []byte("hunter2")), Text("x", "y"))
			_, err := f.WriteTo(&failingWriter{after: after})
			if err == nil {
				t.Fatal("WriteTo() error = nil, want failure")
			}
			if !f.Wiped() || !allZero(f.values...) || !allZero(f.keys...) {
				t.Error("form buffers not wiped after failed write")
			}
		})
	}
}

func TestFormSingleUse(t *testing.T) {
	f := NewForm(Text("a", "b"))
	if _, err := f.WriteTo(io.Discard); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if _, err := f.WriteTo(&out); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("second WriteTo() error = %v, want io.ErrClosedPipe", err)
	}
	if out.Len() != 0 {
		t.Errorf("second WriteTo() wrote %q", out.String())
	}
}

func TestEscapingMatchesQueryEscape(t *testing.T) {
	values := []string{
		"plain",
		"user@test.com",
		"a b+c&d=e",
		"ünïcødé/?#%",
		"-_.~!*'()",
	}
	for _, v := range values {
		got := string(appendEscaped(nil, []byte(v)))
		if want := url.QueryEscape(v); got != want {
			t.Errorf("appendEscaped(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestFormReader(t *testing.T) {
	f := NewForm(Text("name", "lib"), Field("password", []byte("p w")))
	rc := f.Reader()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if err := rc.Close(); err != nil {
		t.Fatal(err)
	}
	if string(b) != "name=lib&password=p+w" {
		t.Errorf("Reader() produced %q", b)
	}
	if !f.Wiped() {
		t.Error("form not wiped after reader drained")
	}
}

func TestFormReaderClosedEarly(t *testing.T) {
	f := NewForm(Field("password", bytes.Repeat([]byte("x"), 1<<16)))
	rc := f.Reader()
	buf := make([]byte, 10)
	if _, err := rc.Read(buf); err != nil {
		t.Fatal(err)
	}
	if err := rc.Close(); err != nil {
		t.Fatal(err)
	}
	if !f.Wiped() || !allZero(f.values...) {
		t.Error("form not wiped after reader closed early")
	}
}

func TestFormRedacted(t *testing.T) {
	f := NewForm(Field("password", []byte("topsecret")))
	if s := fmt.Sprint(f); bytes.Contains([]byte(s), []byte("topsecret")) {
		t.Errorf("Sprint(form) leaked content: %s", s)
	}
	if v := f.LogValue().String(); v != "REDACTED" {
		t.Errorf("LogValue() = %q", v)
	}
}
