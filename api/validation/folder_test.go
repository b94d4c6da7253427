package validation

import (
	"errors"
	"testing"
)

func TestExtractFolderID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"folders path", "https://drive.google.com/drive/folders/ABC123?usp=sharing", "ABC123"},
		{"id query", "https://docs.google.com/open?id=XYZ9", "XYZ9"},
		{"id after other params", "https://drive.google.com/open?usp=x&id=a_b-c", "a_b-c"},
		{"user drive path", "https://drive.google.com/drive/u/0/folders/1a-B_c", "1a-B_c"},
		{"no match", "https://example.com/some/page", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFolderID(tt.url); got != tt.want {
				t.Errorf("ExtractFolderID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestResolveFolderID(t *testing.T) {
	tests := []struct {
		name      string
		folderID  string
		folderURL string
		want      string
		wantErr   error
	}{
		{"explicit id", "abc", "", "abc", nil},
		{"id wins over url", "abc", "https://drive.google.com/drive/folders/XYZ", "abc", nil},
		{"url only", "", "https://drive.google.com/drive/folders/XYZ", "XYZ", nil},
		{"blank id falls back to url", "   ", "https://docs.google.com/open?id=Q1", "Q1", nil},
		{"nothing", "", "", "", ErrFolderRequired},
		{"unparseable url", "", "https://example.com", "", ErrFolderRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFolderID(tt.folderID, tt.folderURL)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{"defaults", "", "", 50, 0, false},
		{"explicit", "10", "20", 10, 20, false},
		{"max limit", "200", "0", 200, 0, false},
		{"limit zero", "0", "", 0, 0, true},
		{"limit too large", "201", "", 0, 0, true},
		{"negative offset", "", "-1", 0, 0, true},
		{"not a number", "ten", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := Pagination(tt.limit, tt.offset)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("got (%d, %d), want (%d, %d)", limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}
