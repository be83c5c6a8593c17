package http

import (
	"net/url"
	"strings"

	"github.com/opdserve/opdserve/internal/opds"
)

// Resolver maps route names and parameters onto absolute catalog URLs.
// It implements feed.RouteResolver. The search-terms placeholder passes
// through path escaping verbatim so OpenSearch clients can substitute
// into it.
type Resolver struct {
	baseURL string
}

// NewResolver creates a resolver for the given public base URL.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func escapeParam(value string) string {
	if value == opds.PlaceholderSearchTerms {
		return value
	}
	return url.PathEscape(value)
}

// RouteURL resolves a named route with the given parameters. Unknown
// routes resolve to the catalog root.
func (r *Resolver) RouteURL(route string, params map[string]string) string {
	path := "/opds/"
	switch route {
	case "index":
	case "authors":
		path += "authors"
		if prefix := params["prefix"]; prefix != "" {
			path += "/" + escapeParam(prefix)
		}
	case "author_prefixes":
		path += "author-prefixes"
		if length := params["length"]; length != "" {
			path += "/" + escapeParam(length)
		}
	case "publishers":
		path += "publishers"
	case "languages":
		path += "languages"
	case "series":
		path += "series"
	case "tags":
		path += "tags"
	case "books":
		path += "books"
		if criterion := params["criterion"]; criterion != "" {
			path += "/" + escapeParam(criterion)
			if id := params["id"]; id != "" {
				path += "/" + escapeParam(id)
			}
		}
	case "search_xml":
		path += "search.xml"
	case "book_cover":
		path += "cover/" + escapeParam(params["id"])
	case "book_data":
		path += "data/" + escapeParam(params["id"]) + "/" + escapeParam(params["type"])
	}
	return r.baseURL + path
}

// ImageURL resolves an application image name to an absolute URL.
func (r *Resolver) ImageURL(name string) string {
	return r.baseURL + "/" + url.PathEscape(name)
}
