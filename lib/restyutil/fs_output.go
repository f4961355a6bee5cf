package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes every dump into its own `.txt` file under a
// directory, files of a previous run with the same name are replaced.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(d Dump) {
	path := filepath.Join(o.directory, d.Name()+".txt")
	err := os.WriteFile(path, []byte(d.String()), 0600)
	if err != nil {
		slog.Warn("failed to write http dump", "id", d.Id, "err", err)
	}
}
