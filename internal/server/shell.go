package server

import (
	"bytes"
	"html/template"
)

// shellTemplate is the full page around the grid. The script installs one
// delegated click handler on the container; pager links still work as plain
// links without it.
var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="grid" data-current="{{.Page}}">{{.Fragment}}</div>
<script>
(function () {
  var grid = document.getElementById("grid");
  grid.addEventListener("click", function (e) {
    var el = e.target.closest("a");
    if (!el || !grid.contains(el)) return;
    e.preventDefault();
    fetch("/grid/click", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({
        current: Number(grid.dataset.current),
        classes: Array.from(el.classList),
        data: Object.assign({}, el.dataset)
      })
    }).then(function (resp) {
      if (!resp.ok) return;
      grid.dataset.current = resp.headers.get("X-Grid-Page");
      return resp.text().then(function (html) { grid.innerHTML = html; });
    });
  });
})();
</script>
</body>
</html>
`))

func renderShell(title string, page int, fragment string) (string, error) {
	var buf bytes.Buffer
	err := shellTemplate.Execute(&buf, struct {
		Title    string
		Page     int
		Fragment template.HTML
	}{title, page, template.HTML(fragment)}) //nolint:gosec // fragment is built from escaped templates
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
