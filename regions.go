// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package mandel

import (
	"slices"

	"github.com/gogpu/mandel/grid"
)

// Classic regions / landmarks in the Mandelbrot set, as decimal bounds so
// deep regions keep their digits at extended precision.
var (
	// FullSet shows the whole set.
	FullSet = grid.BoundsText{ReStart: "-2", ReEnd: "1", ImStart: "-1", ImEnd: "1"}

	// SeahorseValley has dense filaments and repeating seahorse curls.
	SeahorseValley = grid.BoundsText{ReStart: "-0.8", ReEnd: "-0.7", ImStart: "0.05", ImEnd: "0.15"}

	// ElephantValley has a large bulb with trunk-like tendrils.
	ElephantValley = grid.BoundsText{ReStart: "-1.85", ReEnd: "-1.75", ImStart: "-0.10", ImEnd: "-0.02"}

	// SpiralMinibrot is a small copy of the set with tight spiral arms.
	SpiralMinibrot = grid.BoundsText{ReStart: "-0.7435", ReEnd: "-0.7420", ImStart: "0.1310", ImEnd: "0.1325"}

	// TripleSpiral is a threefold symmetric spiral.
	TripleSpiral = grid.BoundsText{ReStart: "-0.7480", ReEnd: "-0.7450", ImStart: "0.0950", ImEnd: "0.0980"}

	// DragonValley has deep, highly detailed spiral filaments.
	DragonValley = grid.BoundsText{ReStart: "-0.7400", ReEnd: "-0.7350", ImStart: "0.1800", ImEnd: "0.1850"}

	// MiniSpiralMinibrot is a copy of the set inside a spiral arm.
	MiniSpiralMinibrot = grid.BoundsText{ReStart: "-1.7390", ReEnd: "-1.7375", ImStart: "-0.0235", ImEnd: "-0.0220"}

	// DeepZoom is the default render region, a narrow window above the
	// main cardioid.
	DeepZoom = grid.BoundsText{
		ReStart: "-0.153004885037500013708",
		ReEnd:   "-0.152809695287500013708",
		ImStart: "1.039611370300000000002",
		ImEnd:   "1.039757762612500000002",
	}
)

// Regions maps the names accepted by WithRegion to their bounds.
var Regions = map[string]grid.BoundsText{
	"full":                 FullSet,
	"seahorse-valley":      SeahorseValley,
	"elephant-valley":      ElephantValley,
	"spiral-minibrot":      SpiralMinibrot,
	"triple-spiral":        TripleSpiral,
	"dragon-valley":        DragonValley,
	"mini-spiral-minibrot": MiniSpiralMinibrot,
	"deep-zoom":            DeepZoom,
}

// RegionNames returns the keys of Regions in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(Regions))
	for name := range Regions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
