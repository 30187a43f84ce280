package search

import (
	"io"
	"os"
)

const (
	// binarySampleSize is the number of leading bytes examined when deciding
	// whether a file is binary.
	binarySampleSize = 8192

	// binaryControlRatio is the fraction of non-text control bytes above
	// which a sample without NUL bytes is still treated as binary.
	binaryControlRatio = 0.3
)

// isBinaryFile samples the start of the file and classifies it. Files that
// cannot be opened or read are classified as binary so they are skipped
// silently; a genuine read failure on a text file surfaces later when the
// scanner opens it.
func isBinaryFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	sample := make([]byte, binarySampleSize)
	n, err := f.Read(sample)
	if err != nil && err != io.EOF {
		return true
	}

	return looksBinary(sample[:n])
}

// looksBinary classifies a byte sample. A NUL byte always means binary.
// Otherwise the sample is binary when the proportion of control bytes that
// never appear in text (anything below 0x20 except tab, newline, carriage
// return, form feed, backspace, and escape) exceeds binaryControlRatio.
func looksBinary(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}

	control := 0
	for _, b := range sample {
		if b == 0x00 {
			return true
		}
		if b < 0x20 {
			switch b {
			case '\t', '\n', '\r', '\f', '\b', 0x1b:
			default:
				control++
			}
		}
	}

	return float64(control)/float64(len(sample)) > binaryControlRatio
}
