// Package charts holds the static chart-type registry consumed by the view
// layer.
//
// Each widget on the dashboard carries a chart-type tag. The registry maps a
// tag to the option tree handed to the browser charting library. Lookups never
// fail: an unrecognised tag renders as [Default].
//
//	opt := charts.Builtin().Lookup("pie")
//	data, _ := json.Marshal(opt)
//
// [Registry.Suggest] offers close matches for mistyped tags so that callers
// can warn before storing one.
package charts
