/*
Package houseplanner scores how well every tile of a city satisfies a set of
commute requirements, so a house hunter can see which neighbourhoods suit
everyone in the household.

A requirement names one or more anchor locations, a travel mode and the
longest commute the person will tolerate. Scoring looks up the precomputed
travel time from the nearest anchor to every tile and maps it onto 0 to 100.
Aggregating several requirements keeps the weakest score per tile.

The module is layered:
  - storagemodels, registry and datastore define the storage port
  - datastore/memory and datastore/ddb implement it
  - entities encode domain records through the port
  - planner holds the scoring engine
  - api and cmd/planner expose it over HTTP and the command line

Basic Usage:

	cfg, _ := config.Load("planner.yaml")
	app, _ := houseplanner.NewApp(ctx, cfg, slog.Default())

	item, _ := app.Planner.ScoreRequirement(ctx, planner.RequirementRequest{...})
	composite, _ := app.Planner.Aggregate(ctx, "ADL", []uuid.UUID{item.RequirementID})
*/
package houseplanner
