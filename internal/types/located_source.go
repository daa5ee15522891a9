package types

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	lcierrors "github.com/standardbeagle/phpsym/internal/errors"
)

// LocatedSource is the identity of one file: its path and content.
// It is immutable once created.
type LocatedSource struct {
	path     string
	content  []byte
	fastHash uint64 // xxhash of content, computed once
}

// NewLocatedSource wraps already loaded content. The content slice must not
// be modified by the caller afterwards.
func NewLocatedSource(path string, content []byte) *LocatedSource {
	return &LocatedSource{
		path:     path,
		content:  content,
		fastHash: xxhash.Sum64(content),
	}
}

// LoadLocatedSource reads path from disk. maxSize <= 0 disables the size check.
// Every failure is reported as a SourceUnreadableError.
func LoadLocatedSource(path string, maxSize int64) (*LocatedSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, lcierrors.NewSourceUnreadableError("read", path, err)
	}
	if info.IsDir() {
		return nil, lcierrors.NewSourceUnreadableError("read", path, fmt.Errorf("is a directory"))
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, lcierrors.NewSourceUnreadableError("read", path,
			fmt.Errorf("file size %d exceeds limit %d", info.Size(), maxSize))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, lcierrors.NewSourceUnreadableError("read", path, err)
	}
	return NewLocatedSource(path, content), nil
}

// Path returns the file path
func (ls *LocatedSource) Path() string { return ls.path }

// Content returns the raw file content. Callers must treat it as read-only.
func (ls *LocatedSource) Content() []byte { return ls.content }

// FastHash returns the xxhash of the content
func (ls *LocatedSource) FastHash() uint64 { return ls.fastHash }

// Len returns the content length in bytes
func (ls *LocatedSource) Len() int { return len(ls.content) }

func (ls *LocatedSource) String() string {
	return fmt.Sprintf("%s@%016x", ls.path, ls.fastHash)
}
