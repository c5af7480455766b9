// Package pkg provides the core libraries for wallplan LED wall planning.
//
// # Overview
//
// wallplan turns a wall grid populated with LED cabinets into the paperwork a
// video crew builds from: processor port runs, power circuits and totals.
// The pkg directory is organized into three areas:
//
//  1. Domain model and engine - [wall], [errors], [grid], [layout],
//     [dataplan], [powerplan], [mirror], [totals]
//  2. Orchestration - [pipeline] plans whole projects with caching
//  3. Infrastructure - [io] project files, [cache] backends,
//     [observability] hooks, [buildinfo] version strings
//
// # Architecture
//
// The typical data flow:
//
//	Project file (TOML / YAML / JSON)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [grid] / [layout] (edit or auto-fill cells)
//	         ↓
//	    [pipeline] package (options, layout check, cache)
//	         ↓
//	    [dataplan] + [powerplan] + [totals], [mirror] for IMAG walls
//	         ↓
//	    Plan JSON / terminal tables
//
// The engine packages are pure: they take immutable snapshots and return
// new values, perform no I/O and never log.
//
// # Quick Start
//
//	p, _ := io.Load("arena.toml")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	set, _ := runner.PlanProject(ctx, p, pipeline.Options{})
//	for _, wp := range set.Walls {
//	    fmt.Println(wp.WallID, len(wp.Data.Runs), wp.Power.CircuitCount)
//	}
//
// Plan a single wall without the runner:
//
//	e, _ := p.Wall("main")
//	wp, _ := pipeline.Plan(p.Catalog, *e, pipeline.Options{})
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/dataplan/...           # Specific package
//	go test -run Example                 # Examples only
//
// [wall]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/wall
// [errors]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/errors
// [grid]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/layout
// [dataplan]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/dataplan
// [powerplan]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/powerplan
// [mirror]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/mirror
// [totals]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/totals
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/wallplan/pkg/buildinfo
package pkg
