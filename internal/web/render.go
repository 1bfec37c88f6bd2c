package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/ops"
)

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes a structured JSON error response.
func renderError(w http.ResponseWriter, err error) {
	sErr, ok := err.(*errors.StashError)
	if !ok {
		sErr = errors.NewInternal(err)
	}
	renderJSON(w, sErr.Status, map[string]any{
		"error": map[string]any{
			"code":    string(sErr.Code),
			"message": sErr.Message,
			"status":  sErr.Status,
		},
	})
}

// sharePageTmpl is the standalone HTML rendering of a share projection.
// It renders only fields the projection carries: what a tier hides never
// reaches this template.
var sharePageTmpl = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="robots" content="noindex">
<title>{{.Title}} — tripstash</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .StartDate}}<p class="dates">{{.StartDate}} to {{.EndDate}}</p>{{end}}
{{if .Cities}}<p class="cities">{{range $i, $c := .Cities}}{{if $i}} · {{end}}{{$c}}{{end}}</p>{{end}}
{{range .Days}}
<section class="day">
<h2>{{if eq .Day 0}}Unassigned{{else}}Day {{.Day}}{{if .Date}} — {{.Date}}{{end}}{{end}}</h2>
{{range .Items}}
<article class="item">
<h3>{{.Title}}</h3>
<p class="meta">{{.Category}}{{if .City}} · {{.City}}{{end}}</p>
{{if .NotesHTML}}<div class="notes">{{.NotesHTML}}</div>{{end}}
</article>
{{end}}
</section>
{{end}}
</body>
</html>
`))

type sharePageItem struct {
	Title     string
	Category  string
	City      *string
	NotesHTML template.HTML
}

type sharePageDay struct {
	Day   int
	Date  string
	Items []sharePageItem
}

type sharePageData struct {
	Title     string
	StartDate *string
	EndDate   *string
	Cities    []string
	Days      []sharePageDay
}

// renderSharePage renders the anonymous HTML view of a share projection.
// Item notes are markdown and pass through goldmark; everything else is
// escaped by the template engine.
func renderSharePage(w http.ResponseWriter, result *ops.ResolveOutput) {
	data := sharePageData{
		Title:     result.Title,
		StartDate: result.StartDate,
		EndDate:   result.EndDate,
		Cities:    result.Cities,
	}
	for _, day := range result.Days {
		d := sharePageDay{Day: day.Day, Date: day.Date}
		for _, item := range day.Items {
			entry := sharePageItem{
				Title:    item.Title,
				Category: string(item.Category),
				City:     item.City,
			}
			if item.Notes != nil {
				entry.NotesHTML = renderMarkdown(*item.Notes)
			}
			d.Items = append(d.Items, entry)
		}
		data.Days = append(data.Days, d)
	}

	var buf bytes.Buffer
	if err := sharePageTmpl.Execute(&buf, data); err != nil {
		log.Printf("share template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
