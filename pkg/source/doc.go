// Package source retrieves the raw upstream rule document.
//
// Remote documents are fetched over HTTP(S) with fasthttp; local paths and
// file:// URLs are read through the filesystem abstraction. Router picks
// between them by looking at the location.
package source
