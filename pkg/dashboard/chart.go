package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/tripspend/tripspend/pkg/expense"
)

const (
	ViewBox     = 400
	InnerRadius = 50
	OuterRadius = 150
)

var palette = map[expense.Category]string{
	expense.CategoryFuel:    "#636efa",
	expense.CategoryFood:    "#ef553b",
	expense.CategoryHotel:   "#00cc96",
	expense.CategoryToll:    "#ab63fa",
	expense.CategoryLeisure: "#ffa15a",
}

type Slice struct {
	Category expense.Category
	Label    string
	Color    string
	Path     string
	Percent  string
	Amount   expense.Money
}

// Chart is a donut chart ready to be drawn in a ViewBox x ViewBox SVG.
type Chart struct {
	ViewBox int
	Slices  []Slice
}

func Donut(summary Summary) Chart {
	chart := Chart{ViewBox: ViewBox}
	for _, total := range summary.ByCategory {
		if total.Amount.Cents <= 0 {
			continue
		}
		chart.Slices = append(chart.Slices, Slice{
			Category: total.Category,
			Label:    total.Category.Label(),
			Color:    color(total.Category),
			Path:     arcPath(total.StartAngle, total.EndAngle),
			Percent:  fmt.Sprintf("%.1f%%", total.Share*100),
			Amount:   total.Amount,
		})
	}
	return chart
}

func color(category expense.Category) string {
	if c, ok := palette[category]; ok {
		return c
	}
	return "#999999"
}

// arcPath draws the ring segment between two angles. A full turn is drawn as two halves
// because an SVG arc with equal end points renders nothing.
func arcPath(start, end float64) string {
	if end-start >= 2*math.Pi-1e-9 {
		return arcPath(0, math.Pi) + " " + arcPath(math.Pi, 2*math.Pi)
	}
	largeArc := 0
	if end-start > math.Pi {
		largeArc = 1
	}

	var b strings.Builder
	x, y := point(OuterRadius, start)
	fmt.Fprintf(&b, "M %.2f %.2f ", x, y)
	x, y = point(OuterRadius, end)
	fmt.Fprintf(&b, "A %d %d 0 %d 1 %.2f %.2f ", OuterRadius, OuterRadius, largeArc, x, y)
	x, y = point(InnerRadius, end)
	fmt.Fprintf(&b, "L %.2f %.2f ", x, y)
	x, y = point(InnerRadius, start)
	fmt.Fprintf(&b, "A %d %d 0 %d 0 %.2f %.2f Z", InnerRadius, InnerRadius, largeArc, x, y)
	return b.String()
}

func point(radius int, angle float64) (float64, float64) {
	center := float64(ViewBox) / 2
	x := center + float64(radius)*math.Sin(angle)
	y := center - float64(radius)*math.Cos(angle)
	return x, y
}
