package chart

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/spektr-org/vizkit/join"
	"github.com/spektr-org/vizkit/scale"
	"github.com/spektr-org/vizkit/scene"
)

// ScatterTransition is the default point transition and exit fade.
const ScatterTransition = 100 * time.Millisecond

// SelectedFill marks the selected country.
const SelectedFill = "#ffd700"

// Continents in legend order.
var Continents = []string{"africa", "americas", "asia", "europe"}

// Country is one country observation for a year.
type Country struct {
	Country    string  `json:"country"`
	Continent  string  `json:"continent"`
	Income     float64 `json:"income"`
	LifeExp    float64 `json:"life_exp"`
	Population float64 `json:"population"`
}

// YearData is every country observation of one year.
type YearData struct {
	Year      string    `json:"year"`
	Countries []Country `json:"countries"`
}

type dot struct {
	Key       string
	Continent string
	CX, CY, R float64
	Fill      string
}

func lerpDot(a, b dot, t float64) dot {
	return dot{
		Key:       b.Key,
		Continent: b.Continent,
		CX:        join.Float(a.CX, b.CX, t),
		CY:        join.Float(a.CY, b.CY, t),
		R:         join.Float(a.R, b.R, t),
		Fill:      b.Fill,
	}
}

// Scatter plots income against life expectancy, one circle per country
// sized by population and colored by continent.
type Scatter struct {
	base
	x      *scale.Log
	y      *scale.Linear
	area   *scale.Linear
	color  *scale.Ordinal
	points *scene.Node
	years  *scene.Node
	hover  *scene.Node
	info   *scene.Node
	marks  *join.Reconciler[string, dot]
	labels *join.Reconciler[string, string]
	exit   join.ExitPolicy
	shown  []Country
}

// NewScatter draws the static axes, labels and continent legend.
func NewScatter(cfg Config, opts ...Option) (*Scatter, error) {
	o := applyOptions(ScatterTransition, opts)
	b, err := newBase("scatter-plot", cfg, o)
	if err != nil {
		return nil, err
	}
	w, h := cfg.PlotWidth(), cfg.PlotHeight()
	x, err := scale.NewLog(100, 150000, 0, w)
	if err != nil {
		return nil, err
	}
	c := &Scatter{
		base:   b,
		x:      x,
		y:      scale.NewLinear(0, 90, h, 0),
		area:   scale.NewLinear(2000, 1.4e9, 25*math.Pi, 1500*math.Pi),
		color:  scale.NewOrdinal(scale.Set1(), scale.WithDomain(Continents...)),
		marks:  join.New[string, dot]("scatter"),
		labels: join.New[string, string]("scatter-year"),
		exit:   join.Fade(o.transition),
	}

	legend := c.plot.Group("legend")
	legend.Transform = scene.Transform{TX: w - cfg.Margins.Right - 40, TY: h - cfg.Margins.Bottom - 10}
	rows := make([]legendRow, len(Continents))
	for i, k := range Continents {
		col, _ := c.color.Map(k)
		rows[i] = legendRow{Label: capitalize(k), Color: col}
	}
	drawLegend(legend, rows, 20, true)

	xAxis := c.plot.Group("x axis")
	xAxis.Transform = scene.Transform{TY: h}
	var xTicks []Tick
	for _, v := range []float64{400, 4000, 40000} {
		xTicks = append(xTicks, Tick{Pos: c.x.Map(v), Label: "$" + strconv.Itoa(int(v))})
	}
	drawAxisBottom(xAxis, 0, w, xTicks)
	c.axisTitle("GDP Per Capita - Logarithmic ($)", scene.Transform{TX: w / 2, TY: h + cfg.Margins.Bottom - 20})

	drawAxisLeft(c.plot.Group("y axis"), h, 0, linearTicks(c.y, 10, nil))
	c.axisTitle("Life Expectancy (Years)", scene.Transform{TX: -35, TY: h / 2, Rotate: -90})

	c.points = c.plot.Group("points")
	c.years = c.plot.Group("years")
	return c, nil
}

func (c *Scatter) axisTitle(text string, tr scene.Transform) {
	t := c.plot.Add(scene.KindText, "axis-title")
	t.Text = text
	t.Transform = tr
	t.Style.Anchor = "middle"
	t.Style.FontSize = 20
	t.Style.Fill = "#000000"
}

// Visible filters out countries missing population, income or life
// expectancy, keeps one continent unless continent is "all" or empty, and
// sorts by population, largest first so small circles stay clickable.
func Visible(countries []Country, continent string) []Country {
	out := make([]Country, 0, len(countries))
	for _, cn := range countries {
		if cn.Population == 0 || cn.Income == 0 || cn.LifeExp == 0 {
			continue
		}
		if continent != "" && continent != "all" && cn.Continent != continent {
			continue
		}
		out = append(out, cn)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Population > out[j].Population })
	return out
}

// Update joins the year's countries against the plotted circles. The
// selected country is painted gold.
func (c *Scatter) Update(data YearData, selected, continent string) error {
	countries := Visible(data.Countries, continent)
	dots := make([]dot, len(countries))
	for i, cn := range countries {
		fill, err := c.color.Map(cn.Continent)
		if err != nil {
			return fmt.Errorf("chart: scatter country %s: %w", cn.Country, err)
		}
		if cn.Country == selected {
			fill = SelectedFill
		}
		dots[i] = dot{
			Key:       cn.Country,
			Continent: cn.Continent,
			CX:        c.x.Map(cn.Income),
			CY:        c.y.Map(cn.LifeExp),
			R:         math.Sqrt(c.area.Map(cn.Population) / math.Pi),
			Fill:      fill,
		}
	}

	res, err := c.marks.Reconcile(dots, func(d dot) string { return d.Key })
	if err != nil {
		return err
	}
	c.shown = data.Countries
	c.anim.reset()

	for _, m := range res.Exit {
		node := c.points.ByKey(m.Key)
		if node == nil {
			continue
		}
		node.SetKey("")
		policy := c.exit
		c.anim.add(policy.Fade, func(t float64) {
			node.Style.Opacity = policy.Opacity(time.Duration(t * float64(policy.Fade)))
		}, node.Remove)
	}

	tr := join.Transition[dot]{Duration: c.opts.transition, Lerp: lerpDot}
	for _, m := range res.Merged() {
		node := c.points.ByKey(m.Key)
		if node == nil {
			node = c.points.AddKeyed(scene.KindCircle, "point", m.Key)
			node.Style.Cursor = "pointer"
		}
		d := tr.Duration
		if m.Phase == join.PhaseEnter {
			d = 0
		}
		from, to := m.From, m.To
		c.anim.add(d, func(t float64) {
			g := tr.Sample(from, to, t)
			node.X, node.Y, node.R = g.CX, g.CY, g.R
			node.Style.Fill = g.Fill
		}, nil)
	}
	orderByKeys(c.points, res.Keys())

	if err := c.updateYear(data.Year); err != nil {
		return err
	}
	c.opts.logger.Debug("scatter: update", "year", data.Year, "enter", len(res.Enter), "update", len(res.Update), "exit", len(res.Exit))
	return nil
}

// updateYear swaps the year label through a keyed join so a new year
// replaces the text node instead of rewriting it.
func (c *Scatter) updateYear(year string) error {
	res, err := c.labels.Reconcile([]string{year}, func(s string) string { return s })
	if err != nil {
		return err
	}
	removeExits(c.years, res.Exit)
	for _, m := range res.Enter {
		t := c.years.AddKeyed(scene.KindText, "year-svg-group", m.Key)
		t.Text = m.To
		t.Transform = scene.Transform{TX: c.cfg.PlotWidth() / 2, TY: 30}
		t.Style.FontSize = 36
		t.Style.Fill = "#808080"
		t.Style.Anchor = "middle"
	}
	return nil
}

// Point returns the circle plotted for a country.
func (c *Scatter) Point(country string) *scene.Node {
	return c.points.ByKey(country)
}

// OnHover shows the country's name under the plot.
func (c *Scatter) OnHover(country string) {
	c.OnHoverEnd()
	c.hover = c.plot.Group("hover")
	c.hover.Transform = scene.Transform{TX: c.cfg.PlotWidth() / 2, TY: c.cfg.PlotHeight() - 40}
	t := c.hover.Add(scene.KindText, "")
	t.Text = country
	t.Style.Anchor = "middle"
	t.Style.FontSize = 36
	t.Style.Fill = "#808080"
}

// OnHoverEnd removes the hover label.
func (c *Scatter) OnHoverEnd() {
	if c.hover != nil {
		c.hover.Remove()
		c.hover = nil
	}
}

// OnClick passes a plotted country to the SelectCountry callback with its
// continent color.
func (c *Scatter) OnClick(country string) error {
	node := c.points.ByKey(country)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCountry, country)
	}
	d, _ := c.marks.Value(country)
	col, err := c.color.Map(d.Continent)
	if err != nil {
		return err
	}
	if cb := c.opts.callbacks.SelectCountry; cb != nil {
		cb(country, node, col)
	}
	return nil
}

// UpdateInfo replaces the info panel with the selected country's figures.
// Nothing is drawn when the country is not in the current year.
func (c *Scatter) UpdateInfo(selected string) {
	if c.info != nil {
		c.info.Remove()
		c.info = nil
	}
	var found *Country
	for i := range c.shown {
		if c.shown[i].Country == selected {
			found = &c.shown[i]
			break
		}
	}
	if found == nil {
		return
	}

	c.info = c.plot.Group("info-svg-group")
	c.info.Transform = scene.Transform{TX: 20, TY: 18}
	lines := []string{
		found.Country,
		"Population: " + Commas(found.Population),
		"Life Expectancy: " + strconv.FormatFloat(found.LifeExp, 'f', -1, 64),
		"Income: " + Currency(found.Income),
	}
	for i, l := range lines {
		t := c.info.Add(scene.KindText, "")
		t.Y = float64(20 * i)
		t.Text = l
		t.Style.Fill = "#000000"
	}
}

var _ Widget = (*Scatter)(nil)
