package filesystem

import (
	"io/fs"
	"os"
)

// FileSystem describes the file system operations the services rely on.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Getwd() (string, error)
}

// OSFileSystem implements FileSystem against the host operating system.
type OSFileSystem struct{}

// NewOSFileSystem constructs an operating system backed file system.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Stat reports file information for the provided path.
func (fileSystem *OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Getwd reports the current working directory.
func (fileSystem *OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}
