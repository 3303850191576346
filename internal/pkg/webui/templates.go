// Package webui holds the server-rendered markup. Pages are full documents
// rebuilt on every request; no markup is patched in place.
package webui

import (
	"html/template"
	"io"
	"time"

	"github.com/anicoll/insteon-panel/internal/pkg/reconciler"
)

// EventRow is one journal entry as the events page shows it.
type EventRow struct {
	When    time.Time
	Kind    string
	Modem   string
	Subject string
	Detail  string
}

// EventsView feeds the events page.
type EventsView struct {
	Title  string
	Events []EventRow
}

type selectorView struct {
	*reconciler.Selector
	FormID string
}

// Templates contains all HTML templates for the panel.
var Templates = template.Must(template.New("").Funcs(template.FuncMap{
	"sel": func(s *reconciler.Selector, formID string) selectorView {
		return selectorView{Selector: s, FormID: formID}
	},
	"fmtTime": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04:05")
	},
}).Parse(`
{{define "head"}}
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.}} | Insteon Panel</title>
<style>
    :root {
        --bg-primary: #0d1117;
        --bg-secondary: #161b22;
        --bg-tertiary: #21262d;
        --border-color: #30363d;
        --text-primary: #e6edf3;
        --text-secondary: #8b949e;
        --accent-green: #3fb950;
        --accent-red: #f85149;
        --accent-yellow: #d29922;
        --accent-blue: #58a6ff;
    }

    * {
        margin: 0;
        padding: 0;
        box-sizing: border-box;
    }

    body {
        font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
        background: var(--bg-primary);
        color: var(--text-primary);
        line-height: 1.5;
    }

    a {
        color: var(--accent-blue);
        text-decoration: none;
    }

    .layout {
        display: flex;
        min-height: 100vh;
    }

    nav {
        width: 280px;
        flex-shrink: 0;
        background: var(--bg-secondary);
        border-right: 1px solid var(--border-color);
        padding: 1rem;
        font-size: 0.875rem;
    }

    nav .brand {
        font-weight: 600;
        font-size: 1rem;
        margin-bottom: 1rem;
        display: block;
        color: var(--text-primary);
    }

    nav ul {
        list-style: none;
        margin-left: 0.75rem;
    }

    nav > ul {
        margin-left: 0;
    }

    nav li {
        margin: 0.2rem 0;
    }

    nav .muted {
        color: var(--text-secondary);
    }

    main {
        flex-grow: 1;
        padding: 1.5rem 2rem;
        max-width: 1100px;
    }

    h1 {
        font-size: 1.5rem;
        font-weight: 600;
        margin-bottom: 1rem;
    }

    h2 {
        font-size: 1rem;
        font-weight: 600;
        margin: 1.5rem 0 0.5rem;
        color: var(--text-secondary);
    }

    table {
        width: 100%;
        border-collapse: collapse;
        background: var(--bg-secondary);
        border: 1px solid var(--border-color);
        border-radius: 8px;
        overflow: hidden;
        font-size: 0.875rem;
    }

    th, td {
        text-align: left;
        padding: 0.5rem 0.75rem;
        border-bottom: 1px solid var(--border-color);
        vertical-align: middle;
    }

    th {
        background: var(--bg-tertiary);
        color: var(--text-secondary);
        font-weight: 500;
    }

    tr:last-child td {
        border-bottom: none;
    }

    tr.status-ok td:first-child {
        border-left: 3px solid var(--accent-green);
    }

    tr.status-warn td {
        background: rgba(210, 153, 34, 0.08);
    }

    tr.status-warn td:first-child {
        border-left: 3px solid var(--accent-yellow);
    }

    select, input {
        background: var(--bg-primary);
        color: var(--text-primary);
        border: 1px solid var(--border-color);
        border-radius: 6px;
        padding: 0.3rem 0.5rem;
        font-size: 0.8125rem;
    }

    select:disabled {
        color: var(--text-secondary);
        opacity: 1;
    }

    button, .btn {
        display: inline-block;
        background: var(--bg-tertiary);
        color: var(--text-primary);
        border: 1px solid var(--border-color);
        border-radius: 6px;
        padding: 0.3rem 0.75rem;
        font-size: 0.8125rem;
        cursor: pointer;
    }

    button:hover, .btn:hover {
        border-color: var(--accent-blue);
    }

    button.danger:hover {
        border-color: var(--accent-red);
        color: var(--accent-red);
    }

    .row-actions {
        white-space: nowrap;
    }

    .row-actions form {
        display: inline;
    }

    .error-banner {
        background: rgba(248, 81, 73, 0.12);
        border: 1px solid var(--accent-red);
        border-radius: 8px;
        padding: 0.75rem 1rem;
        margin-bottom: 1rem;
        font-size: 0.875rem;
    }

    .settings {
        background: var(--bg-secondary);
        border: 1px solid var(--border-color);
        border-radius: 8px;
        padding: 1rem;
        margin-bottom: 1rem;
        display: flex;
        flex-wrap: wrap;
        gap: 0.75rem;
        align-items: flex-end;
        font-size: 0.8125rem;
    }

    .settings label {
        display: flex;
        flex-direction: column;
        gap: 0.25rem;
        color: var(--text-secondary);
    }

    .device-header {
        display: flex;
        justify-content: space-between;
        align-items: center;
        background: var(--bg-secondary);
        border: 1px solid var(--border-color);
        border-radius: 8px;
        padding: 0.75rem 1rem;
        margin-bottom: 1rem;
        font-size: 0.875rem;
    }

    .empty {
        color: var(--text-secondary);
        font-size: 0.8125rem;
        padding: 0.75rem;
    }
</style>
{{end}}

{{define "page"}}
<!DOCTYPE html>
<html lang="en">
<head>
{{template "head" .Title}}
</head>
<body>
<div class="layout">
    <nav>
        <a class="brand" href="/">Insteon Panel</a>
        <ul>
            {{range .Nav}}
            <li>
                <a href="{{.Path}}">{{.Name}}</a> <span class="muted">{{.Address}}</span>
                <ul>
                    {{range .Groups}}<li><a href="{{.Path}}">{{.Label}}</a></li>{{end}}
                    {{range .Devices}}
                    <li>
                        <a href="{{.Path}}">{{.Name}}</a> <span class="muted">{{.Address}}</span>
                        <ul>
                            {{range .Groups}}<li><a href="{{.Path}}">{{.Label}}</a></li>{{end}}
                        </ul>
                    </li>
                    {{end}}
                </ul>
            </li>
            {{end}}
        </ul>
    </nav>
    <main>
        {{if .ShowError}}
        <div class="error-banner">The hub rejected the last action; nothing was changed. The page shows the last confirmed state.</div>
        {{end}}
        <h1>{{.Title}}</h1>

        {{with .Settings}}
        <form class="settings" method="post" action="/actions/settings">
            <input type="hidden" name="kind" value="{{.Kind}}">
            <input type="hidden" name="target" value="{{.Target}}">
            <input type="hidden" name="return" value="{{$.Path}}">
            {{range .Fields}}
            <label>{{.Label}}
                <input name="{{.Name}}" value="{{.Value}}" type="{{if .Secret}}password{{else if .Numeric}}number{{else}}text{{end}}">
            </label>
            {{end}}
            <button type="submit">Save settings</button>
        </form>
        {{end}}

        {{with .Device}}
        <div class="device-header">
            <span>{{.Name}} <span class="muted">{{.Address}}</span></span>
            <form method="post" action="/actions/devices/remove" onsubmit="return confirm('Remove this device?')">
                <input type="hidden" name="modem" value="{{.ModemAddress}}">
                <input type="hidden" name="address" value="{{.Address}}">
                <input type="hidden" name="return" value="/modems/{{.ModemAddress}}">
                <button class="danger">Remove device</button>
            </form>
        </div>
        {{end}}

        {{range .Tables}}
        <h2>{{.Title}}</h2>
        <table>
            <tr><th>Responder</th><th>Data 1</th><th>Data 2</th><th>Status</th><th></th></tr>
            {{if not .Rows}}<tr><td colspan="5" class="empty">No links.</td></tr>{{end}}
            {{range .Rows}}
            {{$row := .}}
            <tr class="{{.StatusClass}}">
                {{if .Kind.IsPopulated}}
                <td>{{.ResponderLabel}}</td>
                <td>{{template "selector" sel .Data1 $row.FormID}}</td>
                <td>{{template "selector" sel .Data2 $row.FormID}}</td>
                <td>{{.Status}}</td>
                <td class="row-actions">
                    <form id="{{.FormID}}" method="post" action="/actions/links/update">
                        <input type="hidden" name="base" value="{{$.Base}}">
                        <input type="hidden" name="return" value="{{$.Path}}">
                        <input type="hidden" name="uid" value="{{.UID}}">
                        <input type="hidden" name="bucket" value="{{.Bucket}}">
                        {{if not .Editing}}
                        <input type="hidden" name="data_1" value="{{.Data1.SelectedValue}}">
                        <input type="hidden" name="data_2" value="{{.Data2.SelectedValue}}">
                        {{end}}
                        {{if .Buttons.Import}}<input type="hidden" name="responder" value="{{.Link.ResponderID}}:{{.Link.ResponderGroup}}">{{end}}
                        {{if .Buttons.Fix}}<button name="op" value="fix">Fix</button>{{end}}
                        {{if .Buttons.Edit}}<a class="btn" href="{{$.Path}}?edit={{.UID}}">Edit</a>{{end}}
                        {{if .Buttons.Save}}<button name="op" value="save">Save</button>{{end}}
                        {{if .Buttons.Cancel}}<a class="btn" href="{{$.Path}}">Cancel</a>{{end}}
                        {{if .Buttons.Import}}<button name="op" value="import" formaction="/actions/links/create">Import</button>{{end}}
                        {{if .Buttons.Delete}}<button class="danger" formaction="/actions/links/delete">Delete</button>{{end}}
                    </form>
                </td>
                {{else if .Kind.IsNewDevice}}
                <td><input name="address" value="{{.Address}}" form="{{.FormID}}"></td>
                <td></td>
                <td></td>
                <td>{{.Status}}</td>
                <td class="row-actions">
                    <form id="{{.FormID}}" method="post" action="/actions/devices/add">
                        <input type="hidden" name="modem" value="{{$.Context.ModemAddress}}">
                        <input type="hidden" name="base" value="{{$.Base}}">
                        <input type="hidden" name="return" value="{{$.Path}}">
                        <input type="hidden" name="uid" value="{{.UID}}">
                        <input type="hidden" name="bucket" value="{{.Bucket}}">
                        {{if .Buttons.AddDevice}}<button>Add device</button>{{end}}
                        {{if .Buttons.Delete}}<button class="danger" formaction="/actions/links/delete">Delete</button>{{end}}
                    </form>
                </td>
                {{else if .Kind.IsEmpty}}
                <td>
                    {{with .Responder}}
                    <select name="responder" form="row-new" onchange="window.location='{{$.Path}}?responder='+encodeURIComponent(this.value)">
                        {{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
                    </select>
                    {{end}}
                </td>
                <td>{{template "selector" sel .Data1 "row-new"}}</td>
                <td>{{template "selector" sel .Data2 "row-new"}}</td>
                <td></td>
                <td class="row-actions">
                    <form id="row-new" method="post" action="/actions/links/create">
                        <input type="hidden" name="base" value="{{$.Base}}">
                        <input type="hidden" name="return" value="{{$.Path}}">
                        {{if .Buttons.Create}}<button name="op" value="compose">Add link</button>{{end}}
                    </form>
                </td>
                {{else}}
                <td>{{.Address}}</td>
                <td></td>
                <td></td>
                <td>{{.Status}}</td>
                <td class="row-actions">
                    <form id="{{.FormID}}" method="post" action="/actions/devices/add">
                        <input type="hidden" name="modem" value="{{$.Context.ModemAddress}}">
                        <input type="hidden" name="address" value="{{.Address}}">
                        <input type="hidden" name="base" value="{{$.Base}}">
                        <input type="hidden" name="return" value="{{$.Path}}">
                        <input type="hidden" name="uid" value="{{.UID}}">
                        <input type="hidden" name="bucket" value="{{.Bucket}}">
                        {{if .Buttons.AddDevice}}<button>Add device</button>{{end}}
                        {{if .Buttons.Delete}}<button class="danger" formaction="/actions/links/delete">Delete</button>{{end}}
                    </form>
                </td>
                {{end}}
            </tr>
            {{end}}
        </table>
        {{end}}
    </main>
</div>
<script>
    function connect() {
        const proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
        const sock = new WebSocket(proto + location.host + '/ws');
        sock.onmessage = (ev) => { if (ev.data === 'reload') location.reload(); };
        sock.onclose = () => setTimeout(connect, 5000);
    }
    connect();
</script>
</body>
</html>
{{end}}

{{define "selector"}}{{if .Selector}}<select name="{{.Name}}" form="{{.FormID}}"{{if .Disabled}} disabled{{end}}>
{{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}
</select>{{end}}{{end}}

{{define "events"}}
<!DOCTYPE html>
<html lang="en">
<head>
{{template "head" .Title}}
</head>
<body>
<div class="layout">
    <nav>
        <a class="brand" href="/">Insteon Panel</a>
        <ul><li><a href="/">Back to modems</a></li></ul>
    </nav>
    <main>
        <h1>{{.Title}}</h1>
        <table>
            <tr><th>When</th><th>Kind</th><th>Modem</th><th>Subject</th><th>Detail</th></tr>
            {{if not .Events}}<tr><td colspan="5" class="empty">No recorded events.</td></tr>{{end}}
            {{range .Events}}
            <tr>
                <td>{{fmtTime .When}}</td>
                <td>{{.Kind}}</td>
                <td>{{.Modem}}</td>
                <td>{{.Subject}}</td>
                <td>{{.Detail}}</td>
            </tr>
            {{end}}
        </table>
    </main>
</div>
</body>
</html>
{{end}}
`))

// RenderPage writes a full topology page.
func RenderPage(w io.Writer, page reconciler.Page) error {
	return Templates.ExecuteTemplate(w, "page", page)
}

// RenderEvents writes the journal listing.
func RenderEvents(w io.Writer, view EventsView) error {
	return Templates.ExecuteTemplate(w, "events", view)
}
