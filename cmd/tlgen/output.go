package main

import (
	"os"
	"path/filepath"
)

const outputFileMode = 0644

// writeFileAtomic replaces path with data. The data goes to a temporary file in the same
// directory first, so a failure never leaves a partial output behind.
func writeFileAtomic(path string, data []byte) (retErr error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	_, err = tmp.Write(data)
	if err != nil {
		return err
	}
	err = tmp.Sync()
	if err != nil {
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmpPath, outputFileMode)
	if err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
