// Package web renders server-side pages from embedded Go templates.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef defines a page with its route, template file, and title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData contains the data passed to page templates during rendering.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds pre-parsed templates and a base path for URL generation.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the layouts matched by layoutGlob once, then clones
// them for each view under viewSubdir. funcs may be nil.
func NewTemplateSet(fsys fs.FS, layoutGlob, viewSubdir, basePath string, views []ViewDef, funcs template.FuncMap) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(funcs).ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	viewSub, err := fs.Sub(fsys, viewSubdir)
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		set[v.Template] = t
	}

	return &TemplateSet{
		views:    set,
		basePath: basePath,
	}, nil
}

// BasePath returns the URL prefix passed to every view.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Render executes layoutName for the view into a buffer and writes it with
// status. Nothing is written to w when execution fails.
func (ts *TemplateSet) Render(w http.ResponseWriter, status int, layoutName string, view ViewDef, data any) error {
	t, ok := ts.views[view.Template]
	if !ok {
		return fmt.Errorf("template not found: %s", view.Template)
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, layoutName, ViewData{
		Title:    view.Title,
		BasePath: ts.basePath,
		Data:     data,
	})
	if err != nil {
		return fmt.Errorf("execute %s: %w", view.Template, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
