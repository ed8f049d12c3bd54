package buffer_test

import (
	"fmt"

	"github.com/matzehuels/geobuffer/pkg/buffer"
	"github.com/matzehuels/geobuffer/pkg/geom"
)

func ExampleBuffer() {
	square := geom.Polygon{Rings: [][]geom.Coord{{
		geom.C(0, 0), geom.C(10, 0), geom.C(10, 10), geom.C(0, 10), geom.C(0, 0),
	}}}

	// A negative distance shrinks the polygon
	shrunk, err := buffer.Buffer(square, -3, buffer.DefaultParameters())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Area: %.1f\n", geom.Area(shrunk))

	// ...until nothing is left
	eroded, _ := buffer.Buffer(square, -6, buffer.DefaultParameters())
	fmt.Println("Eroded:", eroded.IsEmpty())
	// Output:
	// Area: 16.0
	// Eroded: true
}

func ExampleBuffer_flatCap() {
	line := geom.LineString{Coords: []geom.Coord{geom.C(0, 0), geom.C(10, 0)}}

	params := buffer.DefaultParameters()
	params.Cap = buffer.CapFlat
	result, err := buffer.Buffer(line, 2, params)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("Area: %.1f\n", geom.Area(result))
	fmt.Println("Polygons:", len(geom.Polygons(result)))
	// Output:
	// Area: 40.0
	// Polygons: 1
}
