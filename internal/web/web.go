// Package web holds the embedded HTML templates and static assets of the
// directory site and the admin console.
package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var printer = message.NewPrinter(language.Korean)

// Templates parses every page template with the shared functions
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static serves the embedded scripts and stylesheets
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Funcs are the template helpers
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatPrice":  FormatPrice,
		"deref":        deref,
		"instagramURL": InstagramURL,
		"toJSON":       toJSON,
	}
}

// FormatPrice renders a whole-won price with thousands separators, or ""
// when the price is unset
func FormatPrice(price *int) string {
	if price == nil {
		return ""
	}
	return printer.Sprintf("%d원", *price)
}

// InstagramURL returns the profile link of an Instagram handle
func InstagramURL(handle string) string {
	return "https://instagram.com/" + strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toJSON embeds v in a data attribute for the admin scripts
func toJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
