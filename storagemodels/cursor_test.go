/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package storagemodels

import (
	"encoding/base64"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nick-Sullivan/house-planner/attribute"
	"github.com/Nick-Sullivan/house-planner/errors"
)

func TestCursorRoundTrip(t *testing.T) {
	cursors := map[string]Record{
		"empty":       {},
		"single":      {"RequirementId": attribute.String("5f8e")},
		"composite":   {"H3Index": attribute.String("88b6b0a2d7fffff"), "Address": attribute.String("1 King William St: Adelaide")},
		"mixed tags":  {"Page": attribute.Int(3), "Flag": attribute.Bool(false), "Name": attribute.String("S:tricky")},
		"empty value": {"Name": attribute.String("")},
	}
	for name, cursor := range cursors {
		t.Run(name, func(t *testing.T) {
			token, err := EncodeCursor(cursor)
			require.NoError(t, err)

			decoded, err := DecodeCursor(token)
			require.NoError(t, err)
			assert.Equal(t, cursor, decoded)
		})
	}
}

func TestNilCursor(t *testing.T) {
	token, err := EncodeCursor(nil)
	require.NoError(t, err)
	assert.Equal(t, "", token)

	key, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestDecodeInvalidCursor(t *testing.T) {
	enc := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }
	tokens := map[string]string{
		"not base64":  "not-base64",
		"bad chars":   "%%%%",
		"not json":    enc("{oops"),
		"json array":  enc(`["S:a"]`),
		"json null":   enc(`null`),
		"unknown tag": enc(`{"A":"X:1"}`),
		"bad bool":    enc(`{"A":"B:maybe"}`),
		"untagged":    enc(`{"A":"plain"}`),
	}
	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCursor(token)
			assert.ErrorIs(t, err, errors.ErrInvalidCursor)
		})
	}
}

func TestEncodeUnsupportedAttribute(t *testing.T) {
	_, err := EncodeCursor(Record{"Blob": &types.AttributeValueMemberB{Value: []byte{1}}})
	assert.ErrorIs(t, err, errors.ErrInvalidCursor)
}
