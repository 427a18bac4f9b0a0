package teamcup

import (
	"bytes"
	"fmt"
	"html/template"
	"reflect"
	"strconv"

	"github.com/justinjudd/teamcup/models"
	"github.com/justinjudd/teamcup/tournament"
)

const scheduleHTML = `
{{- $events := .Events -}}
<h2>Schedule</h2>
{{ if not .Schedule }}<p class="empty">At least two teams are needed to build a schedule.</p>{{ end }}
{{ range $i, $round := .Schedule }}
<table class="round">
<caption>Round {{ inc $i }}</caption>
<tr><th>Match</th>{{ range $events }}<th>{{ . }}</th>{{ end }}</tr>
{{ range $round -}}
    {{ if .IsBye -}}
    <tr class="bye"><td>{{ .Team1 }} <span>BYE</span></td>{{ range $events }}<td></td>{{ end }}</tr>
    {{- else -}}
    <tr><td>{{ .Team1 }} vs {{ deref .Team2 }}</td>{{ $m := . }}{{ range $events }}<td>{{ score $m . $i }}</td>{{ end }}</tr>
    {{- end }}
{{ end -}}
</table>
{{ end }}`

const eventStandingsHTML = `
<h2>Event Standings</h2>
{{ range .Tables }}
<table class="standings">
<caption>{{ .Event }}</caption>
<tr><th>Team</th><th>P</th><th>W</th><th>L</th><th>Pts</th></tr>
{{ range .Rows -}}
    <tr><td>{{ .Team }}</td><td>{{ .Played }}</td><td>{{ .Wins }}</td><td>{{ .Losses }}</td><td>{{ .Points }}</td></tr>
{{ end -}}
</table>
{{ end }}`

const groupStandingsHTML = `
<h2>Overall Standings</h2>
<table class="standings">
<tr><th>Team</th><th>P</th><th>W</th><th>L</th><th>CW</th><th>CL</th><th>Pts</th></tr>
{{ range .Report.Rows -}}
    <tr><td>{{ .Team }}</td><td>{{ .Played }}</td><td>{{ .Wins }}</td><td>{{ .Losses }}</td><td>{{ .CategoriesWon }}</td><td>{{ .CategoriesLost }}</td><td>{{ .Points }}</td></tr>
{{ end -}}
</table>
<ul class="matches">
{{ range $j, $m := .Report.Matches -}}
    <li{{ if last $j $.Report.Matches }} class="last"{{ end }}>Round {{ $m.Round }}: <span{{ if winner $m $m.Team1 }} class="winner"{{ end }}>{{ $m.Team1 }}</span> {{ $m.Team1CategoryWins }} - {{ $m.Team2CategoryWins }} <span{{ if winner $m $m.Team2 }} class="winner"{{ end }}>{{ $m.Team2 }}</span></li>
{{ end -}}
</ul>`

// printHTML is the full page used for printing the tournament
const printHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{ .Title }}</title></head>
<body>
<h1>{{ .Title }}</h1>
{{ template "schedule" . }}
{{ template "events" . }}
{{ template "groups" . }}
</body>
</html>
`

var printTemplate = template.Must(template.New("print").Funcs(template.FuncMap{
	"inc": func(n int) int {
		return n + 1
	},
	"last": func(x int, a interface{}) bool {
		return x == reflect.ValueOf(a).Len()-1
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"winner": func(m tournament.DetailedMatch, team string) bool {
		w, ok := m.Winner()
		return ok && w == team
	},
	"score": func(m models.Match, event string, roundIndex int) string {
		return ""
	},
}).Parse(printHTML))

func init() {
	template.Must(printTemplate.New("schedule").Parse(scheduleHTML))
	template.Must(printTemplate.New("events").Parse(eventStandingsHTML))
	template.Must(printTemplate.New("groups").Parse(groupStandingsHTML))
}

type printPage struct {
	Title    string
	Events   []string
	Schedule models.Schedule
	Tables   []tournament.EventTable
	Report   tournament.GroupReport
}

// GenerateHTML renders the schedule with entered scores, the per event tables and the overall table on one printable page
func GenerateHTML(s State, title string, cfg tournament.SortConfig) ([]byte, error) {
	page := printPage{
		Title:    title,
		Events:   s.Events,
		Schedule: s.Schedule(),
		Tables:   s.EventStandings(cfg),
		Report:   s.GroupStandings(cfg),
	}

	// score needs the results, so it is swapped in on a clone for each render
	tmpl, err := printTemplate.Clone()
	if err != nil {
		return nil, err
	}
	tmpl.Funcs(template.FuncMap{
		"score": func(m models.Match, event string, roundIndex int) string {
			key, ok := m.Key(event, roundIndex)
			if !ok {
				return ""
			}
			return formatScore(s.Results[key])
		},
	})

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("Unable to render page: %w", err)
	}
	return buf.Bytes(), nil
}

// formatScore shows a result as "11 - 7", with an underscore for a side not yet entered
func formatScore(r models.MatchResult) string {
	if r.Team1Score == nil && r.Team2Score == nil {
		return ""
	}
	return side(r.Team1Score) + " - " + side(r.Team2Score)
}

func side(v *float64) string {
	if v == nil {
		return "_"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
