package search

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLooksBinary(t *testing.T) {
	tests := []struct {
		name   string
		sample []byte
		expect bool
	}{
		{
			name:   "plain text",
			sample: []byte("package main\n\nfunc main() {}\n"),
			expect: false,
		},
		{
			name:   "empty sample",
			sample: []byte{},
			expect: false,
		},
		{
			name:   "NUL byte anywhere means binary",
			sample: []byte("almost text\x00more text"),
			expect: true,
		},
		{
			name:   "tabs and newlines are text",
			sample: []byte("col1\tcol2\r\nval1\tval2\n"),
			expect: false,
		},
		{
			name:   "ANSI escapes are text",
			sample: []byte("\x1b[31mred\x1b[0m\n"),
			expect: false,
		},
		{
			name:   "mostly control bytes means binary",
			sample: bytes.Repeat([]byte{0x01, 0x02, 'a'}, 100),
			expect: true,
		},
		{
			name:   "sparse control bytes stay text",
			sample: append(bytes.Repeat([]byte("text "), 100), 0x01),
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksBinary(tt.sample); got != tt.expect {
				t.Errorf("looksBinary() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestIsBinaryFile(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "text.txt")
	if err := os.WriteFile(textPath, []byte("hello world\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	binPath := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(binPath, []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01, 0x02}, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if isBinaryFile(textPath) {
		t.Error("text file classified as binary")
	}
	if !isBinaryFile(binPath) {
		t.Error("ELF-style file classified as text")
	}

	// Unopenable files are classified as binary so they are skipped silently.
	if !isBinaryFile(filepath.Join(dir, "missing.bin")) {
		t.Error("missing file should classify as binary")
	}
}

func TestIsBinaryFile_OnlySamplesPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "late-nul.txt")

	// NUL far past the sample window must not affect classification.
	content := append(bytes.Repeat([]byte("text line\n"), binarySampleSize/10+10), 0x00)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if isBinaryFile(path) {
		t.Error("NUL beyond the sample window should not classify the file as binary")
	}
}
