package domain

// ChartType tags a chart payload. The set is closed: blocks carrying any
// other tag are dropped at the extraction boundary, they never reach the
// rest of the system.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// Valid reports whether t is one of the known chart types.
func (t ChartType) Valid() bool {
	switch t {
	case ChartBar, ChartLine, ChartPie:
		return true
	}
	return false
}

// Chart is an opaque payload carried from the model output to whatever
// renders it. The values are never interpreted here.
type Chart struct {
	Type   ChartType    `json:"type" yaml:"type"`
	Title  string       `json:"title" yaml:"title"`
	XLabel string       `json:"x_label" yaml:"x_label"`
	YLabel string       `json:"y_label" yaml:"y_label"`
	Data   []ChartPoint `json:"data" yaml:"data"`
}

// ChartPoint is one labeled value in a chart's data series.
type ChartPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}
