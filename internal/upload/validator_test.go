package upload

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidateFile_OverGlobalLimit(t *testing.T) {
	f := FileInfo{Name: "big.pdf", Size: MaxFileSize + 1, MIME: "application/pdf"}
	err := ValidateFile(f)
	if err == nil {
		t.Fatal("expected oversized file to be rejected")
	}
	if !strings.Contains(err.Error(), "file size exceeds") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFile_Empty(t *testing.T) {
	err := ValidateFile(FileInfo{Name: "empty.txt", Size: 0, MIME: "text/plain"})
	if err == nil {
		t.Fatal("expected empty file to be rejected")
	}
	if !strings.Contains(err.Error(), "empty") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFile_TypeSpecificLimit(t *testing.T) {
	// 6MB is under the global cap but over the 5MB TXT cap
	f := FileInfo{Name: "notes.txt", Size: 6 * 1024 * 1024, MIME: "text/plain"}
	err := ValidateFile(f)
	if err == nil {
		t.Fatal("expected oversized TXT to be rejected")
	}
	if !strings.Contains(err.Error(), "TXT files cannot exceed 5 MB") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateFile_Valid(t *testing.T) {
	f := FileInfo{Name: "report.pdf", Size: 1024, MIME: "application/pdf"}
	if err := ValidateFile(f); err != nil {
		t.Fatalf("expected valid file, got %v", err)
	}
}

func TestValidate_TooManyFiles(t *testing.T) {
	files := make([]FileInfo, MaxFiles+1)
	for i := range files {
		files[i] = FileInfo{Name: fmt.Sprintf("f%d.txt", i), Size: 10, MIME: "text/plain"}
	}
	err := Validate(files)
	if err == nil {
		t.Fatal("expected batch over the file count limit to be rejected")
	}
	if !strings.Contains(err.Error(), "more than 5 files") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_AnnotatesFileName(t *testing.T) {
	files := []FileInfo{
		{Name: "ok.txt", Size: 10, MIME: "text/plain"},
		{Name: "broken.txt", Size: 0, MIME: "text/plain"},
	}
	err := Validate(files)
	if err == nil {
		t.Fatal("expected invalid batch")
	}
	if !strings.Contains(err.Error(), "broken.txt:") {
		t.Fatalf("error should name the offending file, got %v", err)
	}
}

func TestValidate_FailsFast(t *testing.T) {
	files := []FileInfo{
		{Name: "first.txt", Size: 0, MIME: "text/plain"},
		{Name: "second.txt", Size: 0, MIME: "text/plain"},
	}
	err := Validate(files)
	if err == nil || !strings.Contains(err.Error(), "first.txt") {
		t.Fatalf("expected first failure to win, got %v", err)
	}
}

func TestFileType_CaseInsensitiveExtension(t *testing.T) {
	f := FileInfo{Name: "report.PDF", Size: 10, MIME: "application/pdf"}
	if got := FileType(f); got != "PDF" {
		t.Fatalf("FileType = %q, want PDF", got)
	}
}

func TestFileType_MIMEOnly(t *testing.T) {
	// No usable extension, classification falls through to the MIME lists
	f := FileInfo{Name: "snapshot", Size: 10, MIME: "image/png"}
	if got := FileType(f); got != "IMAGE" {
		t.Fatalf("FileType = %q, want IMAGE", got)
	}
}

func TestFileType_DeclarationOrderWins(t *testing.T) {
	// A .doc file with a text MIME type: DOCX is declared before TXT
	f := FileInfo{Name: "legacy.doc", Size: 10, MIME: "text/plain"}
	if got := FileType(f); got != "DOCX" {
		t.Fatalf("FileType = %q, want DOCX", got)
	}
}

func TestFileType_Other(t *testing.T) {
	f := FileInfo{Name: "archive.zip", Size: 10, MIME: "application/zip"}
	if got := FileType(f); got != "OTHER" {
		t.Fatalf("FileType = %q, want OTHER", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{5 * 1024 * 1024, "5 MB"},
		{10 * 1024 * 1024, "10 MB"},
	}
	for _, tc := range cases {
		if got := FormatFileSize(tc.bytes); got != tc.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tc.bytes, got, tc.want)
		}
	}
}
