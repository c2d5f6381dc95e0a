package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vizkit/scene"
)

func year(y string, countries ...Country) YearData {
	return YearData{Year: y, Countries: countries}
}

var (
	chad   = Country{Country: "Chad", Continent: "africa", Income: 1500, LifeExp: 50, Population: 1.5e7}
	chile  = Country{Country: "Chile", Continent: "americas", Income: 20000, LifeExp: 79, Population: 1.8e7}
	china  = Country{Country: "China", Continent: "asia", Income: 12000, LifeExp: 76, Population: 1.4e9}
	nodata = Country{Country: "Atlantis", Continent: "europe", Income: 0, LifeExp: 70, Population: 1e5}
)

func newScatter(t *testing.T, opts ...Option) *Scatter {
	t.Helper()
	c, err := NewScatter(Config{Width: 800, Height: 500, Margins: Margins{Left: 80, Right: 20, Top: 20, Bottom: 80}}, opts...)
	require.NoError(t, err)
	return c
}

func TestVisibleFiltersAndSortsByPopulation(t *testing.T) {
	got := Visible([]Country{chad, nodata, china, chile}, "all")
	require.Len(t, got, 3)
	assert.Equal(t, "China", got[0].Country)
	assert.Equal(t, "Chile", got[1].Country)

	got = Visible([]Country{chad, china, chile}, "asia")
	require.Len(t, got, 1)
	assert.Equal(t, "China", got[0].Country)
}

func TestScatterUpdateDrawsKeyedPoints(t *testing.T) {
	c := newScatter(t)
	require.NoError(t, c.Update(year("1800", chad, chile, china), "Chile", "all"))

	points := c.Root().SelectAll("point")
	require.Len(t, points, 3)
	assert.Equal(t, "China", points[0].Key, "largest population paints first")
	assert.Equal(t, SelectedFill, c.Point("Chile").Style.Fill)
	assert.Greater(t, c.Point("China").R, c.Point("Chad").R)

	labels := c.years.Children
	require.Len(t, labels, 1)
	assert.Equal(t, "1800", labels[0].Text)
}

func TestScatterExitFadesThenRemoves(t *testing.T) {
	c := newScatter(t)
	require.NoError(t, c.Update(year("1800", chad, chile), "", "all"))
	chadNode := c.Point("Chad")
	Settle(c)

	require.NoError(t, c.Update(year("1801", chile), "", "all"))
	assert.Nil(t, c.Point("Chad"), "exiting node is unbound at once")
	assert.Len(t, c.points.Children, 2)

	c.Frame(ScatterTransition / 2)
	assert.InDelta(t, 0.5, chadNode.Style.Opacity, 1e-9)
	assert.NotNil(t, chadNode.Parent())

	Settle(c)
	assert.Nil(t, chadNode.Parent())
	assert.Len(t, c.points.Children, 1)
	require.Len(t, c.years.Children, 1)
	assert.Equal(t, "1801", c.years.Children[0].Text)
}

func TestScatterUpdateInterruptsRunningExit(t *testing.T) {
	c := newScatter(t)
	require.NoError(t, c.Update(year("1800", chad, chile), "", "all"))
	chadNode := c.Point("Chad")
	require.NoError(t, c.Update(year("1801", chile), "", "all"))
	require.NoError(t, c.Update(year("1802", chile, chad), "", "all"))

	assert.Nil(t, chadNode.Parent(), "interrupted exit finishes")
	assert.NotNil(t, c.Point("Chad"))
	assert.Len(t, c.points.Children, 2)
}

func TestScatterMovesExistingPoints(t *testing.T) {
	c := newScatter(t, WithTransition(200*time.Millisecond))
	require.NoError(t, c.Update(year("1800", chile), "", "all"))
	node := c.Point("Chile")
	x0 := node.X

	moved := chile
	moved.Income = 40000
	require.NoError(t, c.Update(year("1801", moved), "", "all"))
	assert.Same(t, node, c.Point("Chile"))
	assert.Equal(t, x0, node.X)
	Settle(c)
	assert.Greater(t, node.X, x0)
}

func TestScatterUnknownContinent(t *testing.T) {
	c := newScatter(t)
	err := c.Update(year("1800", Country{Country: "X", Continent: "oceania", Income: 1, LifeExp: 1, Population: 1}), "", "all")
	assert.Error(t, err)
}

func TestScatterClickSelectsCountry(t *testing.T) {
	var name, color string
	var node *scene.Node
	c := newScatter(t, WithCallbacks(Callbacks{SelectCountry: func(n string, nd *scene.Node, col string) {
		name, node, color = n, nd, col
	}}))
	require.NoError(t, c.Update(year("1800", chad, china), "", "all"))

	require.NoError(t, c.OnClick("China"))
	assert.Equal(t, "China", name)
	assert.Same(t, c.Point("China"), node)
	want, _ := c.color.Map("asia")
	assert.Equal(t, want, color)

	assert.ErrorIs(t, c.OnClick("Narnia"), ErrUnknownCountry)
}

func TestScatterInfoAndHover(t *testing.T) {
	c := newScatter(t)
	require.NoError(t, c.Update(year("1800", china), "", "all"))

	c.UpdateInfo("China")
	require.NotNil(t, c.info)
	lines := c.info.Children
	require.Len(t, lines, 4)
	assert.Equal(t, "Population: 1,400,000,000", lines[1].Text)
	assert.Equal(t, "Income: $12,000", lines[3].Text)

	c.UpdateInfo("Chad")
	assert.Nil(t, c.info)

	c.OnHover("China")
	require.NotNil(t, c.hover)
	assert.Equal(t, "China", c.hover.Children[0].Text)
	c.OnHoverEnd()
	assert.Nil(t, c.plot.Select("hover"))
}
