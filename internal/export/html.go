package export

import (
	"html/template"
	"io"

	"github.com/hyperifyio/goarticle/internal/article"
)

// HTMLFilename is the attachment name used when serving the HTML download.
const HTMLFilename = "article.html"

var page = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta name="description" content="{{.Description}}">
</head>
<body>
{{.Body}}
</body>
</html>
`))

// WriteHTML wraps the article fragment in a standalone document with the
// meta title and description in its head.
func WriteHTML(w io.Writer, a article.Article) error {
	return page.Execute(w, struct {
		Title       string
		Description string
		Body        template.HTML
	}{
		Title:       a.Meta.Title,
		Description: a.Meta.Description,
		// Generated HTML is built from escaped Markdown only.
		Body: template.HTML(a.HTML),
	})
}
