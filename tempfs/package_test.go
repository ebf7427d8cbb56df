package tempfs

import (
	"io"
	"os"
	"strings"
	"testing"
)

func TestStagingDirRoundTrip(t *testing.T) {
	dir, err := OpenStagingDir(Options{DeleteOnClose: true})
	if err != nil {
		t.Fatalf("failed to open a staging directory: %v", err)
	}
	defer dir.Close()

	const content = "staged file content"
	written, err := dir.WriteFile("copy.dat", strings.NewReader(content))
	if err != nil {
		t.Fatalf("failed to write the staged file: %v", err)
	}
	if written != int64(len(content)) {
		t.Errorf("written = %d, want %d", written, len(content))
	}

	file, err := dir.Open("copy.dat")
	if err != nil {
		t.Fatalf("failed to open the staged file: %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		t.Fatalf("failed to read the staged file: %v", err)
	}
	if string(data) != content {
		t.Errorf("content = %q, want %q", data, content)
	}
}

func TestStagingDirFilePath(t *testing.T) {
	dir, err := OpenStagingDir(Options{DeleteOnClose: true})
	if err != nil {
		t.Fatalf("failed to open a staging directory: %v", err)
	}
	defer dir.Close()

	path := dir.FilePath("copy.dat")
	if !strings.HasPrefix(path, dir.Path()) {
		t.Errorf("file path %q is not within the staging directory %q", path, dir.Path())
	}
}

func TestStagingDirDeleteOnClose(t *testing.T) {
	dir, err := OpenStagingDir(Options{DeleteOnClose: true})
	if err != nil {
		t.Fatalf("failed to open a staging directory: %v", err)
	}

	if _, err := dir.WriteFile("copy.dat", strings.NewReader("data")); err != nil {
		dir.Close()
		t.Fatalf("failed to write the staged file: %v", err)
	}

	if err := dir.Close(); err != nil {
		t.Fatalf("failed to close the staging directory: %v", err)
	}
	if _, err := os.Stat(dir.Path()); !os.IsNotExist(err) {
		t.Errorf("the staging directory survived closure: %v", err)
	}
}

func TestStagingDirRetainOnClose(t *testing.T) {
	dir, err := OpenStagingDir(Options{})
	if err != nil {
		t.Fatalf("failed to open a staging directory: %v", err)
	}
	defer os.RemoveAll(dir.Path())

	if err := dir.Close(); err != nil {
		t.Fatalf("failed to close the staging directory: %v", err)
	}
	if _, err := os.Stat(dir.Path()); err != nil {
		t.Errorf("the staging directory did not survive closure: %v", err)
	}
}
