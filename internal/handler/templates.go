package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/vyrodovalexey/rental-inventory/internal/model"
	"github.com/vyrodovalexey/rental-inventory/web"
)

// Page template names.
const (
	pageIndex  = "index.html"
	pageRent   = "rent.html"
	pageEdit   = "edit.html"
	pageDelete = "delete.html"
)

// blankImage is rendered in place of image sources that fail sanitising.
const blankImage = "data:image/gif;base64,R0lGODlhAQABAAAAACH5BAEKAAEALAAAAAABAAEAAAICTAEAOw=="

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"safeImage": SafeImageURL,
		"money":     model.FormatMoney,
		"available": func(item model.InventoryItem) bool {
			return item.Status == model.StatusAvailable
		},
	}
}

// SafeImageURL passes through http(s) URLs and data:image URIs and replaces
// everything else with a blank image.
func SafeImageURL(raw string) template.URL {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(strings.ToLower(s), "data:image/") {
		return template.URL(s) //nolint:gosec // restricted to data:image URIs
	}

	u, err := url.Parse(s)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return template.URL(u.String()) //nolint:gosec // restricted to http(s)
	}

	return template.URL(blankImage)
}

// LoadTemplates parses every page template together with the layout.
func LoadTemplates() (*Templates, error) {
	tfs, err := web.TemplatesFS()
	if err != nil {
		return nil, err
	}

	layout, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range []string{pageIndex, pageRent, pageEdit, pageDelete} {
		body, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl, err := template.New(page).Funcs(FuncMap()).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		if tmpl, err = tmpl.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render executes the named page into a buffer first so a template error
// never leaves a half-written response.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := ts.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// pageData is the base data passed to all page templates.
type pageData struct {
	Title      string
	Toasts     []model.Toast
	Submitting bool
}

type indexPage struct {
	pageData
	Items []model.InventoryItem
}

type rentPage struct {
	pageData
	Item  *model.InventoryItem
	Days  int
	Total float64
}

type itemPage struct {
	pageData
	Item *model.InventoryItem
}
