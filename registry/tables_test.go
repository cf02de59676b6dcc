/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForTableName(t *testing.T) {
	tests := []struct {
		name    string
		want    TableKind
		wantErr bool
	}{
		{name: "dev-Requirements", want: Requirements},
		{name: "prod-SpatialDistances", want: SpatialDistances},
		{name: "Houses", want: Houses},
		{name: "Requirements-archive", wantErr: true},
		{name: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KindForTableName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemas(t *testing.T) {
	req, ok := Schema(Requirements)
	require.True(t, ok)
	assert.False(t, req.Key.Composite())
	assert.True(t, req.Versioned)
	assert.Equal(t, []string{"RequirementId"}, req.Key.Columns())

	sd, ok := Schema(SpatialDistances)
	require.True(t, ok)
	assert.Equal(t, []string{"SourceIndex", "DestinationIndex"}, sd.Key.Columns())
	assert.Equal(t, "CityCode", sd.Indexes[CityCodeIndex].PartitionKey)

	houses, ok := Schema(Houses)
	require.True(t, ok)
	assert.Equal(t, "Address", houses.Key.SortKey)

	_, ok = Schema(TableKind(99))
	assert.False(t, ok)
}

func TestTableNames(t *testing.T) {
	names, err := NewTableNames("dev-Requirements", "dev-SpatialDistances")
	require.NoError(t, err)

	name, ok := names.Name(SpatialDistances)
	require.True(t, ok)
	assert.Equal(t, "dev-SpatialDistances", name)

	_, ok = names.Name(Houses)
	assert.False(t, ok)

	_, err = NewTableNames("a-Requirements", "b-Requirements")
	assert.Error(t, err)
}
