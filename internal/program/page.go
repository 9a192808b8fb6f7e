package program

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"mojes/internal/hostapi"
)

// Button is a page button that runs a JS expression.
type Button struct {
	Label string
	Call  template.JS
}

// CallButton builds a button for a call expression.
func CallButton(label, call string) Button {
	return Button{Label: label, Call: template.JS(call)}
}

// PageOptions control RenderPage.
type PageOptions struct {
	Title    string
	Script   ScriptOptions
	Fixtures []hostapi.Fixture
	// Extra buttons are added after the generated ones, e.g. calls with arguments.
	Extra []Button
}

type pageData struct {
	Title    string
	Script   template.JS
	Buttons  []Button
	Fixtures template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; background-color: #f0f0f0; }
        .container { max-width: 800px; margin: 0 auto; background: white; padding: 20px; border-radius: 8px; }
        button { background: #007bff; color: white; border: none; padding: 10px 20px; margin: 5px; border-radius: 4px; cursor: pointer; }
        .clickable { background: #28a745; }
        #debugs { width: 100%; height: 100px; border: solid 1px; overflow: auto; }
        .fixtures { margin: 20px 0; padding: 15px; border: 1px solid #ddd; border-radius: 6px; background: #f9f9f9; }
    </style>
    <script>
{{.Script}}
    </script>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <div class="functions">
{{- range .Buttons}}
            <button onclick="{{.Call}}">{{.Label}}</button>
{{- end}}
        </div>
        <div class="fixtures">
{{.Fixtures}}
        </div>
    </div>
</body>
</html>
`))

// RenderPage writes an HTML document embedding the script, a button per
// function without parameters and the fixture markup.
func (r *Registry) RenderPage(out io.Writer, opts PageOptions) error {
	title := opts.Title
	if title == "" {
		title = "mojes"
	}
	var buttons []Button
	for _, f := range r.Fragments() {
		if len(f.Params) == 0 {
			buttons = append(buttons, CallButton(f.Name, f.Name+"()"))
		}
	}
	buttons = append(buttons, opts.Extra...)
	data := pageData{
		Title:    title,
		Script:   template.JS(strings.TrimRight(r.RenderScript(opts.Script), "\n")),
		Buttons:  buttons,
		Fixtures: template.HTML(hostapi.FixturesHTML(opts.Fixtures)),
	}
	if err := pageTemplate.Execute(out, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
