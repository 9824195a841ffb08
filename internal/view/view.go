package view

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/mr1hm/ward-risk-dashboard/internal/dashboard"
	"github.com/mr1hm/ward-risk-dashboard/internal/mapview"
	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/wardstore"
)

// Row is one line of the ward table.
type Row struct {
	models.Ward
	Level    wardstore.Band
	Drainage wardstore.Band
}

type Column struct {
	Key   wardstore.SortKey
	Title string
}

var columns = []Column{
	{wardstore.SortByName, "Ward"},
	{wardstore.SortByZone, "Zone"},
	{wardstore.SortByRiskScore, "Risk Score"},
	{wardstore.SortByRiskLevel, "Risk Level"},
	{wardstore.SortByDrainageCapacity, "Drainage"},
	{wardstore.SortByActiveComplaints, "Complaints"},
}

type DashboardPage struct {
	Username string
	Theme    string
	Snapshot dashboard.Snapshot
	Sort     wardstore.SortState
	Rows     []Row
	Priority []Row
	Options  []models.Ward // ward picker, by name
	Markers  mapview.FeatureCollection
}

type LoginPage struct {
	Theme string
	Error string
}

func NewRows(wards []models.Ward) []Row {
	rows := make([]Row, len(wards))
	for i, w := range wards {
		rows[i] = Row{
			Ward:     w,
			Level:    wardstore.LevelBand(w),
			Drainage: wardstore.DrainageBand(w.DrainageCapacity),
		}
	}
	return rows
}

type Renderer struct {
	dashboard *template.Template
	login     *template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"sortLink": sortLink,
		"sortMark": sortMark,
		"columns":  func() []Column { return columns },
		"json":     toJSON,
		"pct":      func(v int) string { return fmt.Sprintf("%d%%", v) },
		"score":    func(v float64) string { return fmt.Sprintf("%.1f", v) },
	}

	dash, err := template.New("dashboard").Funcs(funcs).Parse(layoutHTML + dashboardHTML)
	if err != nil {
		return nil, fmt.Errorf("error parsing dashboard template: %w", err)
	}
	login, err := template.New("login").Funcs(funcs).Parse(layoutHTML + loginHTML)
	if err != nil {
		return nil, fmt.Errorf("error parsing login template: %w", err)
	}
	return &Renderer{dashboard: dash, login: login}, nil
}

func (r *Renderer) Dashboard(w io.Writer, p DashboardPage) error {
	return r.dashboard.ExecuteTemplate(w, "layout", p)
}

func (r *Renderer) Login(w io.Writer, p LoginPage) error {
	return r.login.ExecuteTemplate(w, "layout", p)
}

// sortLink is the href of a column header: clicking the active column flips
// its order, any other column starts descending.
func sortLink(state wardstore.SortState, key wardstore.SortKey) string {
	next := state.Toggle(key)
	q := url.Values{}
	q.Set("sort", string(next.Key))
	q.Set("order", string(next.Order))
	return "/?" + q.Encode()
}

func sortMark(state wardstore.SortState, key wardstore.SortKey) string {
	if state.Key != key {
		return ""
	}
	if state.Order == wardstore.Asc {
		return "▲"
	}
	return "▼"
}

func toJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
