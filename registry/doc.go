/*
Package registry holds the fixed table registry of the planner's storage layer.

There are exactly three tables, each identified by a TableKind and carrying a
compiled key schema:

	Requirements      RequirementId                  (versioned)
	SpatialDistances  SourceIndex + DestinationIndex
	Houses            H3Index + Address

All three expose a CityCodeIndex secondary index on CityCode.

Deployments name their tables freely as long as the name ends with the kind,
for example "prod-Requirements". Names are resolved once:

	names, err := registry.NewTableNames(
	    os.Getenv("REQUIREMENTS_TABLE_NAME"),
	    os.Getenv("SPATIAL_DISTANCES_TABLE_NAME"),
	    os.Getenv("HOUSES_TABLE_NAME"),
	)

after which every store addresses tables by kind only.
*/
package registry
