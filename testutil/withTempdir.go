package testutil

import (
	"os"
)

func WithTmpdir(fn func(tmpDir string)) {
	tmpBase := "/tmp/cat-test/"
	err := os.MkdirAll(tmpBase, os.FileMode(0777)|os.ModeSticky)
	if err != nil {
		panic(err)
	}

	tmpdir, err := os.MkdirTemp(tmpBase, "")
	if err != nil {
		panic(err)
	}

	defer os.RemoveAll(tmpdir)
	fn(tmpdir)
}
