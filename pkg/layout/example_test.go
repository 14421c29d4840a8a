package layout_test

import (
	"fmt"

	"github.com/matzehuels/gridboard/pkg/layout"
)

func ExampleGenerate() {
	frag := layout.Generate(2, "2", "pie")
	for _, bp := range []layout.Breakpoint{layout.XXL, layout.MD, layout.XS} {
		p := frag[bp][0]
		fmt.Printf("%s: x=%d y=%d w=%d h=%d\n", bp, p.X, p.Y, p.W, p.H)
	}
	// Output:
	// xxl: x=8 y=0 w=4 h=3
	// md: x=0 y=3 w=3 h=3
	// xs: x=0 y=6 w=2 h=3
}

func ExampleRepair() {
	l := layout.Generate(0, "0", "bar")
	delete(l, layout.SM)

	fixed, repairs := layout.Repair(l, []string{"0"})
	fmt.Println(layout.Validate(fixed, []string{"0"}) == nil)
	for _, r := range repairs {
		fmt.Println(r)
	}
	// Output:
	// true
	// sm: widget "0" derived from xxl
}
