package gateway

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dverney/taskdeck/internal/events"
	"github.com/dverney/taskdeck/internal/todo"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>taskdeck</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; }
li { margin: 0.4rem 0; }
.completed { text-decoration: line-through; color: #888; }
form.inline { display: inline; }
.stats { color: #555; margin-top: 1.5rem; }
</style>
</head>
<body>
<h1>taskdeck</h1>
<form method="post" action="/tasks">
  <input name="title" placeholder="Task title" autofocus>
  <input name="description" placeholder="Description (optional)">
  <button>Add</button>
</form>
{{if not .Tasks}}<p>No tasks yet. Add some!</p>{{end}}
<ul>
{{range .Tasks}}
  <li>
    <form class="inline" method="post" action="/tasks/{{.ID}}/toggle"><button>{{if eq .Status "completed"}}&#9745;{{else}}&#9744;{{end}}</button></form>
    <span {{if eq .Status "completed"}}class="completed"{{end}}><strong>{{.Title}}</strong> (ID: {{.ID}}){{if .Description}} &mdash; {{.Description}}{{end}}</span>
    <form class="inline" method="post" action="/tasks/{{.ID}}/delete"><button>&#128465;</button></form>
  </li>
{{end}}
</ul>
<p class="stats">{{.Stats.Total}} total / {{.Stats.Pending}} pending / {{.Stats.Completed}} completed ({{printf "%.1f" .Stats.CompletionRate}}%)
&middot; <a href="/api/export?format=csv">export csv</a></p>
</body>
</html>
`))

type indexData struct {
	Tasks []todo.Task
	Stats todo.Stats
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, mgr, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{Tasks: mgr.List(nil), Stats: mgr.Stats()}
	if err := indexTemplate.Execute(w, data); err != nil {
		slog.Error("render index", "error", err)
	}
}

func (s *Server) handleFormCreate(w http.ResponseWriter, r *http.Request) {
	sess, mgr, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}

	task, err := mgr.Add(r.FormValue("title"), r.FormValue("description"))
	if err != nil {
		// The page surfaces the empty-title rejection; nothing was created.
		http.Error(w, err.Error(), statusCode(err))
		return
	}

	s.bus.Publish(events.New(events.EventTaskCreated, sess.ID, map[string]any{"id": task.ID, "title": task.Title}))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFormToggle(w http.ResponseWriter, r *http.Request) {
	sess, mgr, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}

	id, err := taskID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := mgr.Get(id)
	if err != nil {
		// Missing ids no-op on the page, matching the original UI.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	next := task.Status.Toggle()
	if task, err = mgr.Apply(id, todo.Update{Status: &next}); err == nil {
		s.bus.Publish(events.New(events.EventTaskUpdated, sess.ID, map[string]any{"id": task.ID, "status": string(task.Status)}))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFormDelete(w http.ResponseWriter, r *http.Request) {
	sess, mgr, err := s.session(w, r)
	if err != nil {
		http.Error(w, err.Error(), statusCode(err))
		return
	}

	id, err := taskID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := mgr.Delete(id); err == nil {
		s.bus.Publish(events.New(events.EventTaskDeleted, sess.ID, map[string]any{"id": id}))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
