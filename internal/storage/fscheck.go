package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// RemoteFSError reports a database path on a network mount, where SQLite's
// file locks cannot be relied on.
type RemoteFSError struct {
	Path string
	FS   string
}

func (e *RemoteFSError) Error() string {
	return fmt.Sprintf("%s is on a %s mount; sqlite needs a local filesystem", e.Path, e.FS)
}

var remoteFilesystems = []string{"afpfs", "cifs", "nfs", "smb2", "smbfs", "webdav"}

// requireLocal fails with *RemoteFSError when path, or the closest ancestor
// that already exists, sits on a network filesystem. fsName names the
// filesystem holding an existing path.
func requireLocal(path string, fsName func(string) (string, error)) error {
	dir, err := existingAncestor(path)
	if err != nil {
		return err
	}
	name, err := fsName(dir)
	if err != nil {
		return fmt.Errorf("inspect filesystem of %s: %w", dir, err)
	}
	if slices.Contains(remoteFilesystems, strings.ToLower(strings.TrimSpace(name))) {
		return &RemoteFSError{Path: path, FS: name}
	}
	return nil
}

// existingAncestor returns path if it exists, else its nearest existing parent.
func existingAncestor(path string) (string, error) {
	p, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	for {
		_, err := os.Stat(p)
		switch {
		case err == nil:
			return p, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", err
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", fmt.Errorf("no existing directory above %s", path)
		}
		p = parent
	}
}
