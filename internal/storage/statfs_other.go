//go:build !darwin && !linux

package storage

// No statfs here; the filesystem is assumed local.
func filesystemName(string) (string, error) {
	return "unknown", nil
}
