package files

import (
	"strings"

	"github.com/ngenohkevin/rescuedeck-agent/config"
)

// Extension categories
const (
	CategoryImages    = "images"
	CategoryVideos    = "videos"
	CategoryDocuments = "documents"
)

// ExtensionSet decides which file names a scan includes. It is immutable
// after construction and safe for concurrent use.
type ExtensionSet struct {
	categories      map[string][]string
	suffixes        []string
	caseInsensitive bool
}

// NewExtensionSet builds the union of the configured suffix lists
func NewExtensionSet(exts config.Extensions, caseInsensitive bool) *ExtensionSet {
	categories := map[string][]string{
		CategoryImages:    append([]string(nil), exts.Images...),
		CategoryVideos:    append([]string(nil), exts.Videos...),
		CategoryDocuments: append([]string(nil), exts.Documents...),
	}

	var suffixes []string
	for _, list := range [][]string{exts.Images, exts.Videos, exts.Documents} {
		for _, s := range list {
			if caseInsensitive {
				s = strings.ToLower(s)
			}
			suffixes = append(suffixes, s)
		}
	}

	return &ExtensionSet{
		categories:      categories,
		suffixes:        suffixes,
		caseInsensitive: caseInsensitive,
	}
}

// Match reports whether name ends with a recognized suffix
func (e *ExtensionSet) Match(name string) bool {
	if e.caseInsensitive {
		name = strings.ToLower(name)
	}
	for _, s := range e.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Categories returns a copy of the suffix lists keyed by category
func (e *ExtensionSet) Categories() map[string][]string {
	out := make(map[string][]string, len(e.categories))
	for k, v := range e.categories {
		out[k] = append([]string(nil), v...)
	}
	return out
}
