package streamio

import (
	"os"
	"time"
)

// fileInfo implements os.FileInfo for resources that are not backed by a
// real file on disk, such as in-memory buffers and object-store handles.
type fileInfo struct {
	name    string    // Resource name
	size    int64     // Size in bytes
	modTime time.Time // Last modification time
}

// NewFileInfo creates an os.FileInfo for an in-memory or object-backed
// resource. Entries are always regular files with permission 0644.
func NewFileInfo(name string, size int64, modTime time.Time) os.FileInfo {
	return &fileInfo{
		name:    name,
		size:    size,
		modTime: modTime,
	}
}

// Name returns the name of the resource
func (fi *fileInfo) Name() string {
	return fi.name
}

// Size returns the size of the resource in bytes
func (fi *fileInfo) Size() int64 {
	return fi.size
}

// Mode returns the file mode bits
func (fi *fileInfo) Mode() os.FileMode {
	return 0644
}

// ModTime returns the modification time
func (fi *fileInfo) ModTime() time.Time {
	return fi.modTime
}

// IsDir returns false, stream resources are never directories
func (fi *fileInfo) IsDir() bool {
	return false
}

// Sys returns the underlying data source (always returns nil for this implementation)
func (fi *fileInfo) Sys() interface{} {
	return nil
}
