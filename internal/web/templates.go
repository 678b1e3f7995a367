package web

import (
	"bytes"
	"html/template"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Othello</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.board { display: grid; grid-template-columns: repeat(8, 48px); gap: 2px; background: #0a5d2c; padding: 4px; width: max-content; }
.cell { width: 48px; height: 48px; background: #138a43; display: flex; align-items: center; justify-content: center; font-size: 36px; }
.cell form, .cell button { width: 100%; height: 100%; margin: 0; }
.cell button { background: transparent; border: 0; cursor: pointer; }
.legal button::after { content: "·"; color: #d7f5e2; }
.last { outline: 2px solid gold; }
.alert { color: #b00020; }
</style>
</head><body>{{template "content" .}}</body></html>`))
	// The board lives in the same set so the game page can include it.
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Othello</h1><form action="/game" method="post"><button>New match</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Othello</h1>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div id="board-container" sse-swap="board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering.
	board := template.Must(template.New("board_only").Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

// renderTemplate executes the named template of t's set, or t itself when
// name is empty.
func renderTemplate(t *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const boardTemplate = `
<div id="board">
  {{if .Error}}<div class="alert">{{.Error}}</div>{{end}}
  {{if .Over}}
  <h2 class="winner">{{.Winner}}</h2>
  {{end}}
  <p class="score">
    <span>Player 1 (Black): {{.Black}}</span>
    <span>Player 2 (White): {{.White}}</span>
  </p>
  {{if not .Over}}<p class="turn">To move: {{.Turn}}</p>{{end}}
  <div class="board">
  {{range $row := .Rows}}{{range $cell := $row}}
    <div class="cell{{if $cell.Legal}} legal{{end}}{{if $cell.Last}} last{{end}}" data-row="{{$cell.Row}}" data-col="{{$cell.Col}}">
    {{if $cell.Legal}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post" action="/game/{{$.ID}}/play">
        <input type="hidden" name="r" value="{{$cell.Row}}">
        <input type="hidden" name="c" value="{{$cell.Col}}">
        <button type="submit"></button>
      </form>
    {{else}}{{$cell.Symbol}}{{end}}
    </div>
  {{end}}{{end}}
  </div>
</div>
`
