// Package routes declares route groups and registers them on a ServeMux.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/filevault/pkg/openapi"
)

// Group organizes routes under a common prefix and OpenAPI tag.
type Group struct {
	Prefix   string
	Tag      string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		walk("", g, func(prefix string, route Route) {
			mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
		})
	}
}

// Describe adds every documented route to the spec's paths.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, g := range groups {
		walk("", g, func(prefix string, route Route) {
			if route.Doc == nil {
				return
			}
			op := *route.Doc
			if g.Tag != "" && len(op.Tags) == 0 {
				op.Tags = []string{g.Tag}
			}
			spec.AddOperation(docPath(prefix+route.Pattern), route.Method, &op)
		})
	}
}

func walk(parent string, g Group, fn func(prefix string, route Route)) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		fn(prefix, route)
	}
	for _, child := range g.Children {
		walk(prefix, child, fn)
	}
}

// docPath converts ServeMux wildcards such as {key...} into OpenAPI form.
func docPath(pattern string) string {
	if pattern == "" {
		return "/"
	}
	return strings.ReplaceAll(pattern, "...}", "}")
}
