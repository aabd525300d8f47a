package filter

// The UI-construction capability is deliberately separate from the transform
// capability: the pipeline depends on Filter only, and front-ends probe for
// WidgetProvider when they need an editing surface. Widgets are declarative
// specs with no behavior, so building one has no side effects on any
// dataset.

// Field kinds understood by editing front-ends.
const (
	FieldFloat     = "float"
	FieldFloatList = "float_list"
	FieldVec3      = "vec3"
	FieldBool      = "bool"
	FieldChoice    = "choice"
)

// WidgetField describes one editable parameter.
type WidgetField struct {
	Name    string   // Params key the field edits
	Label   string   // Display label
	Kind    string   // One of the Field* kinds
	Default any      // Initial value
	Min     float64  // Numeric range hint (Kind float/vec3/float_list)
	Max     float64
	Choices []string // Kind choice only
}

// Widget is a declarative parameter-editing surface.
type Widget struct {
	Title  string
	Fields []WidgetField
}

// WidgetProvider is the optional UI capability. ok == false means the filter
// has no user-editable parameters beyond its defaults.
type WidgetProvider interface {
	ParamsWidget(defaults Params, bounds [6]float64) (w Widget, ok bool)
}
