package render

import (
	_ "embed"
	"html/template"
)

//go:embed static/index.html
var indexHTML string

// Template is the map dashboard, registered under the name "index".
var Template = template.Must(template.New("index").Parse(indexHTML))

type PageData struct {
	Title   string
	AutoRun bool
	WSPath  string
}
