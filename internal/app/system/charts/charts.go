// Package charts renders the dashboard charts on the server as ECharts
// snippets: a container element plus an init script. The ECharts library
// itself is loaded once per page from the URLs returned by Scripts.
package charts

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	defaultHeight     = "320px"
	defaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
)

// Renderer builds chart fragments for the dashboard.
type Renderer struct {
	cache      *Cache
	theme      string
	assetsHost string
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithTheme sets the ECharts theme (defaults to Westeros).
func WithTheme(theme string) Option {
	return func(r *Renderer) { r.theme = theme }
}

// WithAssetsHost loads the ECharts script from the given host.
func WithAssetsHost(host string) Option {
	return func(r *Renderer) { r.assetsHost = host }
}

// NewRenderer builds a renderer that memoizes into cache (may be nil).
func NewRenderer(cache *Cache, options ...Option) *Renderer {
	r := &Renderer{cache: cache, theme: types.ThemeWesteros}
	for _, o := range options {
		o(r)
	}
	return r
}

// Scripts lists the script URLs a page must load before any chart snippet:
// the ECharts library and, for non-builtin themes, the theme file.
func (r *Renderer) Scripts() []string {
	host := r.assetsHost
	if host == "" {
		host = defaultAssetsHost
	}
	out := []string{host + opts.EchartsJS}
	if r.theme != "" && r.theme != "white" && r.theme != "dark" {
		out = append(out, host+"themes/"+r.theme+".js")
	}
	return out
}

// Point is one labeled value.
type Point struct {
	Label string
	Value float64
}

// StatusPie renders orders by status as a pie chart.
func (r *Renderer) StatusPie(byStatus []analytics.StatusCount) (template.HTML, error) {
	points := make([]Point, 0, len(byStatus))
	for _, sc := range byStatus {
		points = append(points, Point{Label: format.StatusLabel(sc.Status), Value: float64(sc.Count)})
	}
	return r.Pie("Orders by status", points)
}

// CategoryBars renders inventory value per category.
func (r *Renderer) CategoryBars(cats []analytics.CategoryStat) (template.HTML, error) {
	points := make([]Point, 0, len(cats))
	for _, c := range cats {
		points = append(points, Point{Label: c.Category, Value: c.InventoryValue})
	}
	return r.Bar("Inventory value by category", "Value", points)
}

// RevenueLine renders the daily revenue series.
func (r *Renderer) RevenueLine(days []analytics.DailyRevenue) (template.HTML, error) {
	points := make([]Point, 0, len(days))
	for _, d := range days {
		points = append(points, Point{Label: d.Day.Format("Jan 2"), Value: d.Revenue})
	}
	return r.Line("Daily revenue", "Revenue", points)
}

// Pie renders a pie chart.
func (r *Renderer) Pie(title string, points []Point) (template.HTML, error) {
	return r.cached("pie", title, "", points, func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalOptions(title)...)
		data := make([]opts.PieData, len(points))
		for i, p := range points {
			data[i] = opts.PieData{Name: p.Label, Value: p.Value}
		}
		pie.AddSeries(title, data)
		return snippet(pie, &pie.Initialization)
	})
}

// Bar renders a single-series bar chart.
func (r *Renderer) Bar(title, series string, points []Point) (template.HTML, error) {
	return r.cached("bar", title, series, points, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions(title)...)
		bar.SetXAxis(labels(points))
		data := make([]opts.BarData, len(points))
		for i, p := range points {
			data[i] = opts.BarData{Name: p.Label, Value: p.Value}
		}
		bar.AddSeries(series, data)
		return snippet(bar, &bar.Initialization)
	})
}

// Line renders a single-series smoothed line chart.
func (r *Renderer) Line(title, series string, points []Point) (template.HTML, error) {
	return r.cached("line", title, series, points, func() (string, error) {
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalOptions(title)...)
		line.SetXAxis(labels(points))
		data := make([]opts.LineData, len(points))
		for i, p := range points {
			data[i] = opts.LineData{Name: p.Label, Value: p.Value}
		}
		line.AddSeries(series, data)
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		return snippet(line, &line.Initialization)
	})
}

func (r *Renderer) cached(kind, title, series string, points []Point, fn func() (string, error)) (template.HTML, error) {
	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(p.Label)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(p.Value, 'f', -1, 64))
		sb.WriteByte(';')
	}
	key := Key(kind, title, series, r.theme, sb.String())

	var (
		html string
		err  error
	)
	if r.cache != nil {
		html, err = r.cache.GetOrRender(key, fn)
	} else {
		html, err = fn()
	}
	if err != nil {
		return "", fmt.Errorf("render %s chart: %w", kind, err)
	}
	// snippet escapes every label through encoding/json.
	return template.HTML(html), nil
}

func (r *Renderer) globalOptions(title string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func labels(points []Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Label
	}
	return out
}

type snippetChart interface {
	RenderSnippet() render.ChartSnippet
	JSON() map[string]interface{}
}

// snippet keeps go-echarts' container element but writes the init script
// itself. The stock script embeds the option object unescaped, so a label
// such as "</script>" would break out of the script element; json.Marshal
// escapes <, > and & as \u003c, \u003e and \u0026.
func snippet(c snippetChart, init *opts.Initialization) (string, error) {
	sn := c.RenderSnippet()

	option, err := json.Marshal(c.JSON())
	if err != nil {
		return "", fmt.Errorf("encode chart option: %w", err)
	}
	id, _ := json.Marshal(init.ChartID)
	theme, _ := json.Marshal(init.Theme)
	renderer, _ := json.Marshal(init.Renderer)

	var b strings.Builder
	b.WriteString(sn.Element)
	b.WriteString("\n<script type=\"text/javascript\">\n\"use strict\";\n(function () {\n")
	fmt.Fprintf(&b, "  var chart = echarts.init(document.getElementById(%s), %s, {renderer: %s});\n", id, theme, renderer)
	fmt.Fprintf(&b, "  chart.setOption(%s);\n", option)
	b.WriteString("})();\n</script>")
	return b.String(), nil
}
