package server

import (
	"html/template"

	"todo-board/internal/models"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"isFilter":      func(current models.Filter, name string) bool { return string(current) == name },
		"priorityClass": priorityClass,
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func priorityClass(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "prio-high"
	case models.PriorityLow:
		return "prio-low"
	}
	return "prio-medium"
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Tasks</title>
  <style>
    body { margin: 0; font-family: system-ui, sans-serif; color: #222; background: #f6f7f9; }
    main { max-width: 760px; margin: 0 auto; padding: 24px; }
    .card { background: #fff; border: 1px solid #dde1e6; border-radius: 8px; padding: 16px; margin-bottom: 16px; }
    .weather { display: flex; align-items: center; gap: 12px; }
    .error { background: #fdecea; border-color: #f5c2c0; color: #8a1c1c; }
    .notice { background: #fff8e1; border-color: #ffe08a; }
    .filters a { margin-right: 12px; }
    .filters a.active { font-weight: 600; }
    ul.tasks { list-style: none; padding: 0; margin: 0; }
    ul.tasks li { display: flex; gap: 12px; align-items: baseline; padding: 8px 0; border-bottom: 1px solid #eef0f2; }
    li.done .desc { text-decoration: line-through; color: #888; }
    .meta { font-size: 12px; color: #666; }
    .prio-high { color: #b3261e; }
    .prio-medium { color: #8a6d00; }
    .prio-low { color: #2f6f3e; }
    .actions { margin-left: auto; white-space: nowrap; }
    details form { display: inline; }
  </style>
</head>
<body>
<main>
  <h1>Tasks</h1>

  {{with .Weather}}
  <section class="card weather">
    <img src="https://openweathermap.org/img/wn/{{.Icon}}@2x.png" alt="{{.Description}}" width="50" height="50">
    <div>
      <strong>{{.City}}</strong> {{.TemperatureC}}°C, {{.Description}}<br>
      <span class="meta">Feels like {{.FeelsLikeC}}°C · Humidity {{.HumidityPct}}% · Wind {{.WindKph}} km/h</span>
    </div>
  </section>
  {{end}}

  {{with .Error}}<section class="card error">{{.}}</section>{{end}}
  {{with .Notice}}<section class="card notice">{{.}}</section>{{end}}

  <section class="card">
    <form method="post" action="/add">
      <input name="description" placeholder="What needs doing?" required maxlength="1000">
      <input name="category" placeholder="General">
      <select name="priority">
        <option>Low</option>
        <option selected>Medium</option>
        <option>High</option>
      </select>
      <input name="due" placeholder="Due">
      <button type="submit">Add</button>
    </form>
  </section>

  <section class="card">
    <nav class="filters">
      <a href="/?filter=all" {{if isFilter .Filter "all"}}class="active"{{end}}>All</a>
      <a href="/?filter=active" {{if isFilter .Filter "active"}}class="active"{{end}}>Active</a>
      <a href="/?filter=completed" {{if isFilter .Filter "completed"}}class="active"{{end}}>Completed</a>
      <a href="/clear_completed">Clear completed</a>
    </nav>
    <ul class="tasks">
      {{range .Tasks}}
      <li class="{{if .Completed}}done{{end}}" id="task-{{.ID}}">
        <span class="desc">{{.Description}}</span>
        <span class="meta">{{.Category}} · <span class="{{priorityClass .Priority}}">{{.Priority}}</span>{{with .Due}} · due {{.}}{{end}}</span>
        <span class="actions">
          {{if .Completed}}<a href="/reopen/{{.ID}}">Reopen</a>{{else}}<a href="/complete/{{.ID}}">Complete</a>{{end}}
          <a href="/delete/{{.ID}}">Delete</a>
          <details>
            <summary>Edit</summary>
            <form method="post" action="/edit/{{.ID}}">
              <input name="description" value="{{.Description}}" required>
              <input name="category" value="{{.Category}}">
              <button type="submit">Save</button>
            </form>
          </details>
        </span>
      </li>
      {{else}}
      <li class="meta">No tasks.</li>
      {{end}}
    </ul>
  </section>
</main>
</body>
</html>
`
