// Package filesystem reads documents from a local directory tree and
// watches it for changes with fsnotify.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docgraph/internal/core/domain"
	"github.com/custodia-labs/docgraph/internal/core/ports/driven"
	"github.com/custodia-labs/docgraph/internal/logger"
)

// MaxFileSize is the largest file read. Larger files are reported as errors.
const MaxFileSize = 10 << 20

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("connector closed")

// ErrTooLarge marks files over MaxFileSize.
var ErrTooLarge = errors.New("file too large")

// Ensure Connector implements the interface.
var _ driven.DocumentSource = (*Connector)(nil)

// Ensure Factory matches the factory signature.
var _ driven.DocumentSourceFactory = Factory

// Connector reads files below a root directory.
type Connector struct {
	rootPath string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a connector for rootPath, which may be a file:// URI.
// Relative paths are made absolute so document URIs are stable across
// working directories.
func New(rootPath string) *Connector {
	rootPath = LocalPath(rootPath)
	if rootPath != "" {
		if abs, err := filepath.Abs(rootPath); err == nil {
			rootPath = abs
		}
	}
	return &Connector{rootPath: rootPath}
}

// Factory opens a connector for root after checking it is a readable
// directory.
func Factory(root string) (driven.DocumentSource, error) {
	c := New(root)
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	return c, nil
}

// Root returns the absolute root directory.
func (c *Connector) Root() string {
	return c.rootPath
}

// validate checks the root exists and is a directory.
func (c *Connector) validate() error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("root path error: %s does not exist", c.rootPath)
		}
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}
	return nil
}

// Walk emits every visible regular file under the root. Unreadable files
// are reported on the error channel as *fs.PathError and the walk goes on.
func (c *Connector) Walk(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument, 16)
	errs := make(chan error, 4)

	go func() {
		defer close(docs)
		defer close(errs)

		if err := c.validate(); err != nil {
			sendErr(ctx, errs, err)
			return
		}

		walkErr := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if path == c.rootPath {
					return err
				}
				sendErr(ctx, errs, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path != c.rootPath && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			doc, err := c.read(path)
			if err != nil {
				sendErr(ctx, errs, err)
				return nil
			}
			select {
			case docs <- *doc:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, context.DeadlineExceeded) {
			sendErr(ctx, errs, walkErr)
		}
	}()

	return docs, errs
}

// Watch emits file changes below the root until ctx is cancelled or the
// connector is closed. Directories created later are watched too.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.watcher != nil {
		return nil, errors.New("already watching")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addTree(watcher, c.rootPath); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	c.watcher = watcher

	changes := make(chan domain.RawDocumentChange, 16)
	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(filepath.Base(event.Name)) {
						if err := addTree(watcher, event.Name); err != nil {
							logger.Warn("Failed to watch %s: %v", event.Name, err)
						}
					}
				}
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops the watcher. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// handleFsEvent converts an fsnotify event into a change. It returns nil
// for events that do not affect a visible file.
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	if c.hiddenBelowRoot(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				URI:       event.Name,
				MIMEType:  detectMIMEType(event.Name),
				GroupPath: c.groupPath(event.Name),
			},
		}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		doc, err := c.read(event.Name)
		if err != nil {
			logger.Warn("Failed to read %s: %v", event.Name, err)
			return nil
		}
		changeType := domain.ChangeUpdated
		if event.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		return &domain.RawDocumentChange{Type: changeType, Document: *doc}
	default:
		return nil
	}
}

// read loads one file.
func (c *Connector) read(path string) (*domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxFileSize {
		return nil, &fs.PathError{Op: "read", Path: path, Err: ErrTooLarge}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.RawDocument{
		URI:       path,
		MIMEType:  detectMIMEType(path),
		Content:   content,
		GroupPath: c.groupPath(path),
		ModTime:   info.ModTime().UTC(),
	}, nil
}

// groupPath derives the group from the file's directory, rooted at the
// name of the root directory: <root>/ml/a.md is in group "/<root-name>/ml".
func (c *Connector) groupPath(path string) string {
	rel, err := filepath.Rel(c.rootPath, filepath.Dir(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return domain.CleanGroupPath(filepath.Base(filepath.Dir(path)))
	}
	group := filepath.Base(c.rootPath)
	if rel != "." {
		group += "/" + filepath.ToSlash(rel)
	}
	return domain.CleanGroupPath(group)
}

// hiddenBelowRoot reports whether any path segment below the root is hidden.
func (c *Connector) hiddenBelowRoot(path string) bool {
	rel, err := filepath.Rel(c.rootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return isHidden(path)
	}
	return isHidden(rel)
}

// addTree watches dir and every visible directory below it.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("root path error: %w", err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func sendErr(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}

// customMIMETypes covers text formats the mime package does not know
// consistently across platforms.
var customMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".text":     "text/plain",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".ts":       "text/typescript",
	".tsx":      "text/typescript-jsx",
	".jsx":      "text/javascript-jsx",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".bash":     "text/x-shellscript",
	".sql":      "text/x-sql",
	".html":     "text/html",
	".htm":      "text/html",
	".json":     "application/json",
	".xml":      "application/xml",
}

// detectMIMEType maps a file name to a MIME type without parameters.
// Files without an extension are treated as plain text.
func detectMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "text/plain"
	}
	if t, ok := customMIMETypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if base, _, err := mime.ParseMediaType(t); err == nil {
			return base
		}
		return strings.TrimSpace(strings.Split(t, ";")[0])
	}
	return "application/octet-stream"
}

// isHidden reports whether any segment of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}
