// Package io reads and writes wallplan project files and plan output.
//
// # Project Files
//
// A project bundles a catalog (cabinet variants and processors) with one or
// more walls, each carrying its cells and planning settings. The same schema
// is accepted as TOML, YAML or JSON; the format is chosen by file extension
// (.toml, .yaml/.yml, .json):
//
//	name = "Arena tour"
//
//	[[variants]]
//	id = "p2.6"
//	width_mm = 500
//	height_mm = 500
//	units_wide = 1
//	units_high = 1
//	pixel_width = 192
//	pixel_height = 192
//	weight_kg = 7.5
//	power_typ = 80
//	power_max = 180
//	recommended_per_circuit = { "SOCAPEX@208" = 12 }
//
//	[[processors]]
//	id = "mx40"
//	ports = 20
//	max_pixels_per_port = { A8s = 525000, A10s = 650000 }
//
//	[[walls]]
//	id = "main"
//	width_units = 16
//	height_units = 9
//	unit_size_mm = 500
//
//	  [walls.plan]
//	  processor = "mx40"
//	  source = "SOCAPEX"
//
//	  [[walls.cells]]
//	  label = "C001"
//	  variant = "p2.6"
//	  x = 0
//	  y = 0
//
// Cell footprints (w, h) default to the variant's size on the wall's grid.
// Cells without an id get "<wall>-<label>"; cells without a label are
// numbered after the highest existing C000 label.
//
// # Plan Output
//
// [WriteJSON] and [ExportJSON] encode plan results as indented JSON.
package io
