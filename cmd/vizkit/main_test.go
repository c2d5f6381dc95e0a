package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesData = `[
  {"date": "01/01/2020", "team": "north", "category": "furniture", "company_size": "small", "call_revenue": 10, "call_duration": 60, "units_sold": 1},
  {"date": "02/01/2020", "team": "south", "category": "materials", "company_size": "large", "call_revenue": 20, "call_duration": 30, "units_sold": 3},
  {"date": "03/01/2020", "team": "north", "category": "furniture", "company_size": "medium", "call_revenue": 5, "call_duration": 10, "units_sold": 2}
]`

const yearsData = `[{"year": "1800", "countries": [
  {"country": "Chad", "continent": "africa", "income": 1500, "life_exp": 50, "population": 15000000},
  {"country": "Chile", "continent": "americas", "income": 20000, "life_exp": 79, "population": 18000000}
]}]`

const dashboardYAML = `title: test
widgets:
  - name: revenue-by-team
    type: bar
    data: sales.json
    schema: sales
    key: team
    measure: call_revenue
    config: {width: 400, height: 300, margins: {left: 40, right: 10, top: 10, bottom: 30}}
  - name: teams
    type: donut
    data: sales.json
    schema: sales
    key: team
    measure: units_sold
    colors: [{key: north, color: "#ff0000"}, {key: south, color: "#00ff00"}]
    config: {width: 400, height: 300}
  - name: stacked
    type: stacked
    data: sales.json
    schema: sales
    measure: units_sold
    colors: [{key: north, color: "#ff0000"}, {key: south, color: "#00ff00"}]
    range: {start: "01/01/2020", end: "02/01/2020"}
    config: {width: 400, height: 300, margins: {left: 40, bottom: 30}}
  - name: overview
    type: timeline
    data: sales.json
    schema: sales
    measure: units_sold
    brush: {min: 20, start: 100, end: 105}
    config: {width: 400, height: 100}
  - name: gapminder
    type: scatter
    data: years.json
    selected: Chile
    transition: 100ms
    at: 50ms
    config: {width: 600, height: 400, margins: {left: 80, right: 20, top: 20, bottom: 80}}
`

func writeDashboard(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sales.json"), []byte(salesData), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "years.json"), []byte(yearsData), 0o644))
	path := filepath.Join(dir, "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(dashboardYAML), 0o644))
	return path
}

func TestLoadDashboardResolvesPaths(t *testing.T) {
	path := writeDashboard(t)
	d, err := LoadDashboard(path)
	require.NoError(t, err)
	require.Len(t, d.Widgets, 5)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "sales.json"), d.Widgets[0].Data)
	assert.Equal(t, "sales", d.Widgets[0].Schema)
	assert.Equal(t, 400.0, d.Widgets[0].Config.Width)
	require.NotNil(t, d.Widgets[4].At)
	assert.Equal(t, "50ms", d.Widgets[4].At.String())
}

func TestLoadDashboardRejectsDuplicateNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("widgets:\n  - {name: a, type: bar}\n  - {name: a, type: line}\n"), 0o644))
	_, err := LoadDashboard(path)
	assert.ErrorContains(t, err, "duplicate")
}

func TestRenderDashboardWritesSVG(t *testing.T) {
	path := writeDashboard(t)
	d, err := LoadDashboard(path)
	require.NoError(t, err)
	out := t.TempDir()

	require.NoError(t, renderDashboard(context.Background(), d, out, "svg", nil, nil))
	for _, name := range []string{"revenue-by-team", "teams", "stacked", "overview", "gapminder"} {
		data, err := os.ReadFile(filepath.Join(out, name+".svg"))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "<svg", name)
	}
}

func TestRenderOnlySelectedWidget(t *testing.T) {
	d, err := LoadDashboard(writeDashboard(t))
	require.NoError(t, err)
	out := t.TempDir()
	require.NoError(t, renderDashboard(context.Background(), d, out, "svg", []string{"teams"}, nil))
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "teams.svg", entries[0].Name())
}

func TestUnknownWidgetType(t *testing.T) {
	d, err := LoadDashboard(writeDashboard(t))
	require.NoError(t, err)
	d.Widgets[0].Type = "radar"
	err = renderDashboard(context.Background(), d, t.TempDir(), "svg", nil, nil)
	assert.ErrorContains(t, err, "unknown type")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "vizkit "))
}

func TestAggregateCommand(t *testing.T) {
	path := writeDashboard(t)
	data := filepath.Join(filepath.Dir(path), "sales.json")

	out, err := run(t, "aggregate", data, "--schema", "sales", "--group-by", "team", "--measure", "call_revenue")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "20")
	assert.Contains(t, lines[2], "15")

	out, err = run(t, "aggregate", data, "--schema", "sales", "--group-by", "team", "--range", "02/01/2020-03/01/2020", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"count": 1`)

	_, err = run(t, "aggregate", data, "--range", "yesterday")
	assert.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	out, err := run(t, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "sales")

	out, err = run(t, "inspect", "--schema", "crypto")
	require.NoError(t, err)
	assert.Contains(t, out, "price_usd")

	path := writeDashboard(t)
	out, err = run(t, "inspect", filepath.Join(filepath.Dir(path), "sales.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "isTemporal: true")
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	_, err := run(t, "render", writeDashboard(t), "--format", "gif")
	assert.ErrorContains(t, err, "invalid format")
}
