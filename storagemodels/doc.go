/*
Package storagemodels defines the wire model of the storage port.

Values on the wire are DynamoDB attribute values restricted to three tags:
string (S), number (N) and bool (BOOL). A Record maps attribute names to those
values.

Writes:

	storagemodels.WriteItem{Put: &storagemodels.Put{
	    Table:     registry.Requirements,
	    Item:      record,
	    Condition: storagemodels.UpdateNextVersion(),
	}}

Conditions are typed rather than expressed as strings:

	NoCondition()              overwrite / remove unconditionally
	CreateOnly()               attribute_not_exists(<partition key>)
	UpdateNextVersion()        item.version == stored.version + 1
	DeleteExpectingVersion(v)  stored.version == v

Queries:

	params := &storagemodels.QueryParams{
	    Table:     registry.SpatialDistances,
	    IndexName: registry.CityCodeIndex,
	    Key:       storagemodels.Equality{Attribute: "CityCode", Value: attribute.String("ADL")},
	    Limit:     100,
	}

Cursors:
QueryOutput.LastEvaluatedKey is turned into an opaque token with EncodeCursor
and back with DecodeCursor. Callers must treat the token as opaque.
*/
package storagemodels
