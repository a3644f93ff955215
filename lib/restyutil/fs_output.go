package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes every dumped http exchange into its own file.
// Each output gets a fresh `dump-*` subdirectory of the directory it was
// created with, nothing already there is touched.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	sub, err := os.MkdirTemp(dir, "dump-")
	if err != nil {
		return FilesystemOutput{}, err
	}
	slog.Info("dumping http exchanges", "dir", sub)
	return FilesystemOutput{directory: sub}, nil
}

// Dir is the directory the dumps are written to.
func (o FilesystemOutput) Dir() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+".txt"), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
