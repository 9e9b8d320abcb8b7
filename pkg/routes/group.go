package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/signpost/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

// Document adds every route carrying OpenAPI metadata to spec. basePath is
// prepended to each path so module-relative groups document their mounted URL.
func Document(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		documentGroup(spec, basePath, nil, group)
	}
}

func documentGroup(spec *openapi.Spec, prefix string, tags []string, group Group) {
	fullPrefix := prefix + group.Prefix
	if len(group.Tags) > 0 {
		tags = group.Tags
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}

		path := openAPIPath(fullPrefix + route.Pattern)
		item, ok := spec.Paths[path]
		if !ok {
			item = &openapi.PathItem{}
			spec.Paths[path] = item
		}

		switch route.Method {
		case http.MethodGet:
			item.Get = &op
		case http.MethodPost:
			item.Post = &op
		case http.MethodPut:
			item.Put = &op
		case http.MethodDelete:
			item.Delete = &op
		}
	}

	for _, child := range group.Children {
		documentGroup(spec, fullPrefix, tags, child)
	}
}

// openAPIPath converts ServeMux wildcards such as {key...} to {key}.
func openAPIPath(pattern string) string {
	if pattern == "" {
		return "/"
	}
	return strings.ReplaceAll(pattern, "...}", "}")
}
