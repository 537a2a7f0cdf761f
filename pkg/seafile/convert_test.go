package seafile

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestPermissionJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Permission
		wantErr bool
	}{
		{`"r"`, ReadOnly, false},
		{`"rw"`, ReadAndWrite, false},
		{`"w"`, 0, true},
		{`""`, 0, true},
		{`1`, 0, true},
	}
	for _, tt := range tests {
		var p Permission
		err := json.Unmarshal([]byte(tt.in), &p)
		if (err != nil) != tt.wantErr || p != tt.want {
			t.Errorf("Unmarshal(%s) = %v, %v", tt.in, p, err)
		}
	}

	b, err := json.Marshal(ReadAndWrite)
	if err != nil || string(b) != `"rw"` {
		t.Errorf("Marshal(ReadAndWrite) = %s, %v", b, err)
	}
	if _, err := json.Marshal(Permission(0)); err == nil {
		t.Error("Marshal(0) should fail")
	}
}

func TestLibraryRejectsUnknownPermission(t *testing.T) {
	var lib Library
	if err := json.Unmarshal([]byte(`{"id":"x","permission":"admin"}`), &lib); err == nil {
		t.Fatal("expected an error for an unknown permission")
	}
}

func TestTimestampJSON(t *testing.T) {
	tests := []struct {
		in   string
		want int64 // 0 means absent
	}{
		{`1500000000`, 1500000000},
		{`"1500000000"`, 1500000000},
		{`1500000000.75`, 1500000000},
		{`null`, 0},
		{`"yesterday"`, 0},
	}
	for _, tt := range tests {
		var ts Timestamp
		if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if tt.want == 0 {
			if ts.Valid() {
				t.Errorf("Unmarshal(%s) = %v, want absent", tt.in, ts)
			}
			continue
		}
		if ts.Unix() != tt.want || ts.Location() != time.Local {
			t.Errorf("Unmarshal(%s) = %v", tt.in, ts)
		}
	}

	b, _ := json.Marshal(NewTimestamp(time.Unix(42, 900)))
	if string(b) != "42" {
		t.Errorf("Marshal() = %s", b)
	}
	b, _ = json.Marshal(Timestamp{})
	if string(b) != "null" {
		t.Errorf("Marshal(zero) = %s", b)
	}
}

func TestEntryTypeJSON(t *testing.T) {
	var e DirEntry
	if err := json.Unmarshal([]byte(`{"type":"DIR","name":"x"}`), &e); err != nil || !e.IsDir() {
		t.Errorf("Unmarshal(DIR) = %+v, %v", e, err)
	}
	if err := json.Unmarshal([]byte(`{"type":"link"}`), &e); err == nil {
		t.Error("unknown entry type should fail")
	}
}

func TestReadableSize(t *testing.T) {
	tests := map[int64]string{
		-2:            "-",
		0:             "0B",
		512:           "512B",
		2048:          "2.00KB",
		1536:          "1.50KB",
		5 << 20:       "5.00MB",
		3 << 30:       "3.00GB",
		7 << 50:       "7.00PB",
		math.MaxInt64: "8.00EB",
	}
	for in, want := range tests {
		if got := ReadableSize(in); got != want {
			t.Errorf("ReadableSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestAccountInfoQuota(t *testing.T) {
	tests := []struct {
		info AccountInfo
		want string
	}{
		{AccountInfo{Usage: 3 << 30, Total: 10 << 30}, "3.00GB / 10.00GB"},
		{AccountInfo{Usage: 512, Total: -2}, "512B / unlimited"},
	}
	for _, tt := range tests {
		if got := tt.info.Quota(); got != tt.want {
			t.Errorf("Quota(%+v) = %q, want %q", tt.info, got, tt.want)
		}
	}
}
