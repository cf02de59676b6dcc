/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package storagemodels

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/goccy/go-json"

	"github.com/Nick-Sullivan/house-planner/errors"
)

const (
	cursorString = "S:"
	cursorNumber = "N:"
	cursorBool   = "B:"
)

// EncodeCursor serialises a last-evaluated key into an opaque, URL-safe token.
// A nil key encodes to the empty string.
func EncodeCursor(key Record) (string, error) {
	if key == nil {
		return "", nil
	}
	tagged := make(map[string]string, len(key))
	for name, av := range key {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			tagged[name] = cursorString + v.Value
		case *types.AttributeValueMemberN:
			tagged[name] = cursorNumber + v.Value
		case *types.AttributeValueMemberBOOL:
			tagged[name] = fmt.Sprintf("%s%t", cursorBool, v.Value)
		default:
			return "", fmt.Errorf("%w: attribute %q has unsupported type %T", errors.ErrInvalidCursor, name, av)
		}
	}
	raw, err := json.Marshal(tagged)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidCursor, err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// DecodeCursor reverses EncodeCursor. The empty token decodes to a nil key.
func DecodeCursor(token string) (Record, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidCursor, err)
	}
	var tagged map[string]string
	if err := json.Unmarshal(raw, &tagged); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidCursor, err)
	}
	if tagged == nil {
		return nil, fmt.Errorf("%w: not an object", errors.ErrInvalidCursor)
	}
	key := make(Record, len(tagged))
	for name, value := range tagged {
		switch {
		case strings.HasPrefix(value, cursorString):
			key[name] = &types.AttributeValueMemberS{Value: value[len(cursorString):]}
		case strings.HasPrefix(value, cursorNumber):
			key[name] = &types.AttributeValueMemberN{Value: value[len(cursorNumber):]}
		case value == cursorBool+"true":
			key[name] = &types.AttributeValueMemberBOOL{Value: true}
		case value == cursorBool+"false":
			key[name] = &types.AttributeValueMemberBOOL{Value: false}
		default:
			return nil, fmt.Errorf("%w: attribute %q has unknown tag", errors.ErrInvalidCursor, name)
		}
	}
	return key, nil
}
