package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/arthur-debert/leakrules/pkg/errors"
	"github.com/arthur-debert/leakrules/pkg/filesystem"
)

// DefaultURL is the upstream gitleaks configuration
const DefaultURL = "https://raw.githubusercontent.com/gitleaks/gitleaks/refs/heads/master/config/gitleaks.toml"

// Fetcher retrieves the raw bytes of a rule document
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Router dispatches a location to the HTTP or file fetcher
type Router struct {
	http Fetcher
	file Fetcher
}

// New creates a Router reading local documents from fsys
func New(fsys filesystem.FS, opts HTTPOptions) *Router {
	return &Router{
		http: NewHTTPFetcher(opts),
		file: NewFileFetcher(fsys),
	}
}

// Fetch implements Fetcher
func (r *Router) Fetch(ctx context.Context, location string) ([]byte, error) {
	if IsRemote(location) {
		return r.http.Fetch(ctx, location)
	}
	return r.file.Fetch(ctx, location)
}

// IsRemote reports whether location is an http or https URL
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// FileFetcher reads documents from a filesystem
type FileFetcher struct {
	fs filesystem.FS
}

// NewFileFetcher creates a FileFetcher
func NewFileFetcher(fsys filesystem.FS) *FileFetcher {
	return &FileFetcher{fs: fsys}
}

// Fetch reads location, which may be a plain path or a file:// URL
func (f *FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrSourceUnavailable, "fetch cancelled")
	}

	path := location
	if strings.HasPrefix(strings.ToLower(location), "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSourceUnavailable, "invalid file URL %s", location)
		}
		path = u.Path
	}

	data, err := f.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceUnavailable, "failed to read rule document %s", path).
			WithDetail("location", location)
	}
	return data, nil
}
