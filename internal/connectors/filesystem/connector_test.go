package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// collect drains both walk channels.
func collect(t *testing.T, docsCh <-chan domain.RawDocument, errsCh <-chan error) ([]domain.RawDocument, []error) {
	t.Helper()
	var docs []domain.RawDocument
	var errs []error
	for docsCh != nil || errsCh != nil {
		select {
		case doc, ok := <-docsCh:
			if !ok {
				docsCh = nil
				continue
			}
			docs = append(docs, doc)
		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			errs = append(errs, err)
		case <-time.After(5 * time.Second):
			t.Fatal("walk did not finish")
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	return docs, errs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew(t *testing.T) {
	t.Run("keeps absolute root", func(t *testing.T) {
		c := New("/tmp/test")
		assert.Equal(t, "/tmp/test", c.Root())
	})

	t.Run("makes relative root absolute", func(t *testing.T) {
		c := New("notes")
		assert.True(t, filepath.IsAbs(c.Root()))
		assert.Equal(t, "notes", filepath.Base(c.Root()))
	})

	t.Run("empty root stays empty", func(t *testing.T) {
		assert.Equal(t, "", New("").Root())
	})
}

func TestFactory(t *testing.T) {
	t.Run("opens directory", func(t *testing.T) {
		dir := t.TempDir()

		source, err := Factory(dir)

		require.NoError(t, err)
		assert.Equal(t, dir, source.Root())
	})

	t.Run("missing directory is invalid argument", func(t *testing.T) {
		_, err := Factory("/non/existent/path")

		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("file is invalid argument", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "a.txt")
		writeFile(t, file, "x")

		_, err := Factory(file)

		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestConnector_Walk(t *testing.T) {
	t.Run("reads files from directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "file1.txt"), "content 1")
		writeFile(t, filepath.Join(dir, "file2.md"), "# Markdown")

		docs, errs := collect(t, New(dir).Walk(context.Background()))

		assert.Empty(t, errs)
		assert.Len(t, docs, 2)
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "visible.txt"), "visible")
		writeFile(t, filepath.Join(dir, ".hidden.txt"), "hidden")
		writeFile(t, filepath.Join(dir, ".git", "config"), "hidden")

		docs, _ := collect(t, New(dir).Walk(context.Background()))

		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].URI, "visible.txt")
	})

	t.Run("includes file metadata", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.txt")
		writeFile(t, path, "hello")

		docs, _ := collect(t, New(dir).Walk(context.Background()))

		require.Len(t, docs, 1)
		doc := docs[0]
		assert.Equal(t, path, doc.URI)
		assert.Equal(t, "text/plain", doc.MIMEType)
		assert.Equal(t, []byte("hello"), doc.Content)
		assert.Equal(t, "/"+filepath.Base(dir), doc.GroupPath)
		assert.False(t, doc.ModTime.IsZero())
	})

	t.Run("derives groups from subdirectories", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "notes")
		writeFile(t, filepath.Join(root, "top.md"), "top")
		writeFile(t, filepath.Join(root, "ml", "a.md"), "a")
		writeFile(t, filepath.Join(root, "ml", "deep", "b.md"), "b")

		docs, _ := collect(t, New(root).Walk(context.Background()))

		groups := make(map[string]string)
		for _, d := range docs {
			groups[filepath.Base(d.URI)] = d.GroupPath
		}
		assert.Equal(t, map[string]string{
			"top.md": "/notes",
			"a.md":   "/notes/ml",
			"b.md":   "/notes/ml/deep",
		}, groups)
	})

	t.Run("detects MIME types", func(t *testing.T) {
		dir := t.TempDir()
		files := map[string]string{
			"file.md":   "text/markdown",
			"file.go":   "text/x-go",
			"file.html": "text/html",
			"file.json": "application/json",
		}
		for name := range files {
			writeFile(t, filepath.Join(dir, name), "content")
		}

		docs, _ := collect(t, New(dir).Walk(context.Background()))

		got := make(map[string]string)
		for _, d := range docs {
			got[filepath.Base(d.URI)] = d.MIMEType
		}
		assert.Equal(t, files, got)
	})

	t.Run("reports oversized files and continues", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "ok.txt"), "fine")
		big := filepath.Join(dir, "big.txt")
		f, err := os.Create(big)
		require.NoError(t, err)
		require.NoError(t, f.Truncate(MaxFileSize+1))
		require.NoError(t, f.Close())

		docs, errs := collect(t, New(dir).Walk(context.Background()))

		require.Len(t, docs, 1)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrTooLarge)
		assert.Contains(t, errs[0].Error(), big)
	})

	t.Run("reports missing root", func(t *testing.T) {
		docs, errs := collect(t, New("/non/existent/path").Walk(context.Background()))

		assert.Empty(t, docs)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "does not exist")
	})

	t.Run("empty directory", func(t *testing.T) {
		docs, errs := collect(t, New(t.TempDir()).Walk(context.Background()))

		assert.Empty(t, docs)
		assert.Empty(t, errs)
	})

	t.Run("closes channels when context is cancelled", func(t *testing.T) {
		dir := t.TempDir()
		for i := 0; i < 50; i++ {
			writeFile(t, filepath.Join(dir, strings.Repeat("f", i+1)+".txt"), "x")
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		docs, errs := collect(t, New(dir).Walk(ctx))

		assert.Less(t, len(docs), 50)
		assert.Empty(t, errs)
	})
}

func TestConnector_Watch(t *testing.T) {
	wait := func(t *testing.T, ch <-chan domain.RawDocumentChange) domain.RawDocumentChange {
		t.Helper()
		select {
		case change := <-ch:
			return change
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file change event")
		}
		return domain.RawDocumentChange{}
	}

	t.Run("reports created files", func(t *testing.T) {
		dir := t.TempDir()
		c := New(dir)
		defer c.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)

		writeFile(t, filepath.Join(dir, "new-file.txt"), "content")

		change := wait(t, changes)
		assert.Equal(t, domain.ChangeCreated, change.Type)
		assert.Contains(t, change.Document.URI, "new-file.txt")
	})

	t.Run("reports modifications", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "test.txt")
		writeFile(t, path, "initial")
		c := New(dir)
		defer c.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)

		writeFile(t, path, "modified")

		change := wait(t, changes)
		assert.Equal(t, domain.ChangeUpdated, change.Type)
		assert.Equal(t, path, change.Document.URI)
	})

	t.Run("reports deletions", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "to-delete.txt")
		writeFile(t, path, "delete me")
		c := New(dir)
		defer c.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))

		change := wait(t, changes)
		assert.Equal(t, domain.ChangeDeleted, change.Type)
		assert.Equal(t, path, change.Document.URI)
	})

	t.Run("watches directories created later", func(t *testing.T) {
		dir := t.TempDir()
		c := New(dir)
		defer c.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)

		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.Mkdir(sub, 0755))
		// Give the watcher time to register the new directory.
		time.Sleep(100 * time.Millisecond)
		writeFile(t, filepath.Join(sub, "a.md"), "a")

		change := wait(t, changes)
		assert.Equal(t, filepath.Join(sub, "a.md"), change.Document.URI)
		assert.Equal(t, "/"+filepath.Base(dir)+"/sub", change.Document.GroupPath)
	})

	t.Run("errors for missing directory", func(t *testing.T) {
		changes, err := New("/non/existent/path").Watch(context.Background())

		assert.Nil(t, changes)
		assert.ErrorContains(t, err, "root path error")
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		c := New(t.TempDir())
		defer c.Close()
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := c.Watch(ctx)
		require.NoError(t, err)
		cancel()

		select {
		case _, ok := <-changes:
			if ok {
				for range changes {
				}
			}
		case <-time.After(time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})

	t.Run("errors after close", func(t *testing.T) {
		c := New(t.TempDir())
		require.NoError(t, c.Close())

		changes, err := c.Watch(context.Background())

		assert.Nil(t, changes)
		assert.ErrorIs(t, err, ErrClosed)
	})

	t.Run("errors when already watching", func(t *testing.T) {
		c := New(t.TempDir())
		defer c.Close()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		_, err := c.Watch(ctx)
		require.NoError(t, err)
		_, err = c.Watch(ctx)
		assert.Error(t, err)
	})
}

func TestConnector_Close(t *testing.T) {
	c := New("/tmp/test")

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.Equal(t, "/tmp/test", c.Root())
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename     string
		expectedMIME string
	}{
		{"file", "text/plain"},
		{"doc.md", "text/markdown"},
		{"doc.markdown", "text/markdown"},
		{"notes.txt", "text/plain"},
		{"code.go", "text/x-go"},
		{"script.py", "text/x-python"},
		{"lib.rs", "text/x-rust"},
		{"app.ts", "text/typescript"},
		{"config.yaml", "text/yaml"},
		{"config.yml", "text/yaml"},
		{"config.toml", "text/toml"},
		{"script.sh", "text/x-shellscript"},
		{"query.sql", "text/x-sql"},
		{"page.html", "text/html"},
		{"page.htm", "text/html"},
		{"data.json", "application/json"},
		{"data.xml", "application/xml"},
		{"image.png", "image/png"},
		{"file.zzzzunknown", "application/octet-stream"},
		{"FILE.MD", "text/markdown"},
		{"File.Yaml", "text/yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expectedMIME, detectMIMEType(tt.filename))
		})
	}

	t.Run("strips parameters", func(t *testing.T) {
		for _, file := range []string{"file.css", "file.js"} {
			assert.NotContains(t, detectMIMEType(file), ";")
		}
	})
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"/path/.hidden/file.txt", true},
		{"dir/.git/config", true},
		{".config/.cache/data", true},
		{"file.txt", false},
		{"path/to/file.txt", false},
		{".", false},
		{"..", false},
		{"path/./file", false},
		{"path/../file", false},
		{"", false},
		{"/", false},
		{"file.hidden", false},
		{"directory.name/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      bool
		setupDir       bool
		setupHidden    bool
		operation      fsnotify.Op
		expectedChange bool
		expectedType   domain.ChangeType
	}{
		{name: "create file", setupFile: true, operation: fsnotify.Create, expectedChange: true, expectedType: domain.ChangeCreated},
		{name: "write file", setupFile: true, operation: fsnotify.Write, expectedChange: true, expectedType: domain.ChangeUpdated},
		{name: "write and chmod", setupFile: true, operation: fsnotify.Write | fsnotify.Chmod, expectedChange: true, expectedType: domain.ChangeUpdated},
		{name: "remove file", operation: fsnotify.Remove, expectedChange: true, expectedType: domain.ChangeDeleted},
		{name: "rename file", operation: fsnotify.Rename, expectedChange: true, expectedType: domain.ChangeDeleted},
		{name: "chmod only", setupFile: true, operation: fsnotify.Chmod},
		{name: "create directory", setupDir: true, operation: fsnotify.Create},
		{name: "hidden create", setupHidden: true, operation: fsnotify.Create},
		{name: "hidden remove", setupHidden: true, operation: fsnotify.Remove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			var eventPath string
			switch {
			case tt.setupDir:
				eventPath = filepath.Join(dir, "testdir")
				require.NoError(t, os.Mkdir(eventPath, 0755))
			case tt.setupHidden:
				eventPath = filepath.Join(dir, ".hidden.txt")
				if tt.operation != fsnotify.Remove {
					writeFile(t, eventPath, "hidden")
				}
			case tt.setupFile:
				eventPath = filepath.Join(dir, "test.txt")
				writeFile(t, eventPath, "content")
			default:
				eventPath = filepath.Join(dir, "removed.txt")
			}

			change := New(dir).handleFsEvent(fsnotify.Event{Name: eventPath, Op: tt.operation})

			if !tt.expectedChange {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, tt.expectedType, change.Type)
			assert.Equal(t, eventPath, change.Document.URI)
			if tt.expectedType == domain.ChangeDeleted {
				assert.Empty(t, change.Document.Content)
			} else {
				assert.Equal(t, []byte("content"), change.Document.Content)
			}
		})
	}

	t.Run("ignores hidden ancestor directories below root only", func(t *testing.T) {
		parent := filepath.Join(t.TempDir(), ".vault")
		path := filepath.Join(parent, "notes", "a.txt")
		writeFile(t, path, "content")

		change := New(filepath.Join(parent, "notes")).handleFsEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})

		require.NotNil(t, change)
		assert.Equal(t, "/notes", change.Document.GroupPath)
	})
}
