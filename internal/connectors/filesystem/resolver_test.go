package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalPath(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"file URI", "file:///Users/test/documents/file.txt", "/Users/test/documents/file.txt"},
		{"file URI with spaces", "file:///Users/test/my documents/file.txt", "/Users/test/my documents/file.txt"},
		{"bare path", "/Users/test/documents/file.txt", "/Users/test/documents/file.txt"},
		{"relative path", "notes/a.md", "notes/a.md"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalPath(tt.uri))
		})
	}
}

func TestNew_AcceptsFileURI(t *testing.T) {
	dir := t.TempDir()

	c := New("file://" + dir)

	assert.Equal(t, dir, c.Root())
}
