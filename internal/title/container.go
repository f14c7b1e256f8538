// Package title resolves logical asset names to files under the title
// location, the directory a game ships its content in.
//
// Names may use either slash style. On case-sensitive filesystems an opt-in
// fallback walks the tree matching each segment case-insensitively, which
// papers over content authored on Windows with inconsistent casing.
package title

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// Environment variables read by DefaultRoot and CaseFallbackFromEnv.
const (
	EnvTitleLocation = "FNA_TITLE_LOCATION"
	EnvCaseFallback  = "FNA_CASE_SENSITIVITY_HACK"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("title: file not found")

// NotFoundError reports a logical name whose resolved path does not exist.
type NotFoundError struct {
	Name string // as requested
	Path string // as resolved
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("title: file not found: %s (resolved to %s)", e.Name, e.Path)
}

// Is makes errors.Is match both ErrNotFound and fs.ErrNotExist.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound || target == fs.ErrNotExist
}

// Container resolves and opens files under a fixed root.
type Container struct {
	root         string
	caseFallback bool
	log          *zap.Logger

	cache   *Cache
	watcher *watcher
}

// Option configures a Container.
type Option func(*Container)

// WithCaseFallback enables the case-insensitive segment search for names
// that do not exist as written.
func WithCaseFallback(enabled bool) Option {
	return func(c *Container) { c.caseFallback = enabled }
}

// WithLogger sets the logger used for case mismatch diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// WithCache replaces the ReadFile cache. Pass nil to disable caching.
func WithCache(cache *Cache) Option {
	return func(c *Container) { c.cache = cache }
}

// New creates a container rooted at root. A relative root is made absolute
// against the working directory.
func New(root string, opts ...Option) (*Container, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("title: resolving root %s: %w", root, err)
	}
	c := &Container{
		root:  abs,
		log:   zap.NewNop(),
		cache: NewCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultRoot returns $FNA_TITLE_LOCATION if set, otherwise the directory
// holding the running executable.
func DefaultRoot() (string, error) {
	if dir := os.Getenv(EnvTitleLocation); dir != "" {
		return dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("title: locating executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// CaseFallbackFromEnv reports whether FNA_CASE_SENSITIVITY_HACK is "1".
func CaseFallbackFromEnv() bool {
	return os.Getenv(EnvCaseFallback) == "1"
}

// Root returns the absolute title location.
func (c *Container) Root() string {
	return c.root
}

// CaseFallback reports whether the case-insensitive search is enabled.
func (c *Container) CaseFallback() bool {
	return c.caseFallback
}

// Resolve maps a logical name to a filesystem path. It never fails: a name
// that cannot be found resolves to a best guess and the caller's open
// reports the miss.
func (c *Container) Resolve(name string) string {
	safe := normalizeSeparators(name)
	if c.caseFallback {
		safe = c.caseName(c.rooted(safe))
	}
	return c.rooted(safe)
}

func (c *Container) rooted(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.root, name)
}

// OpenStream opens the resolved file for reading.
func (c *Container) OpenStream(name string) (io.ReadCloser, error) {
	path := c.Resolve(name)
	f, err := openRegular(path)
	if err != nil {
		return nil, c.wrapOpenErr(name, path, err)
	}
	return f, nil
}

// ReadFile returns the full contents of the resolved file. Results are
// cached by resolved path and revalidated against the file's size and
// modification time on every call; callers must not modify the returned
// slice.
func (c *Container) ReadFile(name string) ([]byte, error) {
	path := c.Resolve(name)
	if c.cache != nil {
		info, err := os.Stat(path)
		if err != nil {
			c.cache.Delete(path)
			return nil, c.wrapOpenErr(name, path, err)
		}
		if !info.IsDir() {
			if data, ok := c.cache.Get(path, info); ok {
				return data, nil
			}
		}
	}

	f, err := openRegular(path)
	if err != nil {
		return nil, c.wrapOpenErr(name, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("title: stat %s: %w", path, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("title: reading %s: %w", path, err)
	}
	if c.cache != nil {
		c.cache.Set(path, data, info)
	}
	return data, nil
}

// Cache returns the ReadFile cache, or nil when caching is disabled.
func (c *Container) Cache() *Cache {
	return c.cache
}

func (c *Container) wrapOpenErr(name, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &NotFoundError{Name: name, Path: path}
	}
	return fmt.Errorf("title: opening %s: %w", path, err)
}

func openRegular(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return f, nil
}

var separatorReplacer = strings.NewReplacer(
	`\`, string(filepath.Separator),
	`/`, string(filepath.Separator),
)

func normalizeSeparators(name string) string {
	return separatorReplacer.Replace(name)
}

// caseName rebuilds path one segment at a time from the volume root,
// taking the first directory entry whose name folds equal to each segment.
// Unmatched segments are kept as written.
func (c *Container) caseName(path string) string {
	if isFile(path) {
		return path
	}

	sep := string(filepath.Separator)
	vol := filepath.VolumeName(path)
	var segs []string
	for _, s := range strings.Split(path[len(vol):], sep) {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return path
	}

	fold := cases.Fold()
	cur := vol + sep
	for i, seg := range segs {
		wantDir := i < len(segs)-1
		cur = filepath.Join(cur, searchCase(fold, cur, seg, wantDir))
	}

	if cur != path {
		c.log.Warn("case sensitivity mismatch",
			zap.String("requested", c.relative(path)),
			zap.String("resolved", c.relative(cur)))
	}
	return cur
}

func (c *Container) relative(path string) string {
	if rel, err := filepath.Rel(c.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func searchCase(fold cases.Caser, dir, seg string, wantDir bool) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return seg
	}
	want := fold.String(seg)
	for _, e := range entries {
		if entryIsDir(dir, e) != wantDir {
			continue
		}
		if fold.String(e.Name()) == want {
			return e.Name()
		}
	}
	return seg
}

func entryIsDir(dir string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
