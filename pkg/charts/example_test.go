package charts_test

import (
	"fmt"

	"github.com/matzehuels/gridboard/pkg/charts"
)

func ExampleRegistry_Resolve() {
	r := charts.Builtin()
	fmt.Println(r.Resolve("donut"))
	fmt.Println(r.Resolve("scatter"))
	// Output:
	// donut
	// bar
}

func ExampleRegistry_Suggest() {
	fmt.Println(charts.Builtin().Suggest("heat"))
	// Output: [heatMap]
}
