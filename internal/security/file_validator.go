package security

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// FileValidator screens files picked up by a directory scan before they are
// read in full. Large files are checked from a header so that binaries and
// generated blobs named *.php are rejected without loading them.
type FileValidator struct {
	ValidationThreshold int64 // Files larger than this are validated first
	HeaderSize          int64 // Size of header to read for validation
}

func NewFileValidator(thresholdKB int64) *FileValidator {
	return &FileValidator{
		ValidationThreshold: thresholdKB * 1024,
		HeaderSize:          64 * 1024,
	}
}

// ValidateLargeFile reads only the header of files above the threshold and
// reports binary content or content with no trace of PHP
func (fv *FileValidator) ValidateLargeFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if info.Size() <= fv.ValidationThreshold {
		return nil
	}

	header := make([]byte, fv.HeaderSize)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read header: %w", err)
	}
	header = header[:n]

	if fv.isBinaryData(header) {
		return errors.New("file appears to be binary")
	}

	if hasOpenTag(header) {
		return nil
	}
	return fv.scanForOpenTag(f, header)
}

// isBinaryData checks if file contains binary data
func (fv *FileValidator) isBinaryData(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	// Control characters (0-31 except tab, LF, CR) and DEL
	nonPrintable := 0
	for _, b := range data {
		if b < 9 || (b > 13 && b < 32) || b == 127 {
			nonPrintable++
		}
	}

	// If more than 30% non-printable, consider binary
	ratio := float64(nonPrintable) / float64(len(data))
	return ratio > 0.3
}

var openTags = [][]byte{
	[]byte("<?php"),
	[]byte("<?="),
	[]byte("<? "),
	[]byte("<?\t"),
	[]byte("<?\n"),
	[]byte("<?\r"),
}

// hasOpenTag reports whether data holds a PHP open tag, in any letter case
func hasOpenTag(data []byte) bool {
	lower := bytes.ToLower(data)
	for _, tag := range openTags {
		if bytes.Contains(lower, tag) {
			return true
		}
	}
	return false
}

// scanForOpenTag reads the rest of a file whose header had no open tag.
// Large inline-HTML files without one cannot declare anything. Chunks
// overlap so a tag split across reads is still found.
func (fv *FileValidator) scanForOpenTag(r io.Reader, header []byte) error {
	const overlap = 4
	tail := header[max(0, len(header)-overlap):]
	buf := make([]byte, fv.HeaderSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			window := append(append([]byte{}, tail...), buf[:n]...)
			if hasOpenTag(window) {
				return nil
			}
			tail = window[max(0, len(window)-overlap):]
		}
		if err == io.EOF {
			return errors.New("no PHP open tag found")
		}
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
	}
}
