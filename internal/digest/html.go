package digest

import "html/template"

type pageData struct {
	Sections []section
}

//nolint:gochecknoglobals
var page = template.Must(template.New("digest").Parse(`<html>
<head></head>
<body>
<p>Hello,<br>
See below the best listings posted on Craigslist yesterday.</p>
{{- range .Sections}}
<h3>{{.Title}}</h3>
{{- if .Empty}}
<p>{{.Empty}}</p>
{{- else}}
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Listing</th><th>Title</th><th>Price</th><th>Area</th><th>$/ft2</th>
{{- range .Destinations}}<th>{{.}}</th>{{end}}<th>Score</th></tr>
{{- range .Rows}}
<tr><td><a href="{{.URL}}">{{.ID}}</a></td><td>{{.Title}}</td><td>{{.Price}}</td><td>{{.Area}}</td><td>{{.PricePerArea}}</td>
{{- range .Travel}}<td>{{.}}</td>{{end}}<td>{{.Score}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- end}}
</body>
</html>
`))
