/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package attribute

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/Nick-Sullivan/house-planner/errors"
)

// TimestampLayout is the stored form of timestamps, always UTC with microseconds.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Kind is the tag of a wire attribute.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// KindOf returns the tag of av. Sets, lists, maps, binary and null values are
// KindUnknown: no entity field is stored in those shapes.
func KindOf(av types.AttributeValue) Kind {
	switch av.(type) {
	case *types.AttributeValueMemberS:
		return KindString
	case *types.AttributeValueMemberN:
		return KindNumber
	case *types.AttributeValueMemberBOOL:
		return KindBool
	default:
		return KindUnknown
	}
}

// Clone returns a copy of av that shares no memory with it.
func Clone(av types.AttributeValue) types.AttributeValue {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return &types.AttributeValueMemberS{Value: v.Value}
	case *types.AttributeValueMemberN:
		return &types.AttributeValueMemberN{Value: v.Value}
	case *types.AttributeValueMemberBOOL:
		return &types.AttributeValueMemberBOOL{Value: v.Value}
	default:
		return av
	}
}

// Equal reports whether a and b carry the same tag and value.
func Equal(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		if av.Value == bv.Value {
			return true
		}
		x, errX := strconv.ParseFloat(av.Value, 64)
		y, errY := strconv.ParseFloat(bv.Value, 64)
		return errX == nil && errY == nil && x == y
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	default:
		return false
	}
}

// String encodes s as a string attribute.
func String(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

// Int encodes i as a number attribute.
func Int(i int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(i, 10)}
}

// Float encodes f as a number attribute.
func Float(f float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Bool encodes b as a bool attribute.
func Bool(b bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: b}
}

// Timestamp encodes t in TimestampLayout.
func Timestamp(t time.Time) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: t.UTC().Format(TimestampLayout)}
}

// UUID encodes id in its canonical hyphenated form.
func UUID(id uuid.UUID) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: id.String()}
}

func lookup(item map[string]types.AttributeValue, name string) (types.AttributeValue, error) {
	av, ok := item[name]
	if !ok || av == nil {
		return nil, errors.NewMissingFieldError(name)
	}
	return av, nil
}

func stringValue(name string, av types.AttributeValue) (string, error) {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.NewTypeMismatchError(name, "string, got "+KindOf(av).String())
	}
	return s.Value, nil
}

func numberValue(name string, av types.AttributeValue) (string, error) {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return "", errors.NewTypeMismatchError(name, "number, got "+KindOf(av).String())
	}
	return n.Value, nil
}

// ParseString reads a required string attribute.
func ParseString(item map[string]types.AttributeValue, name string) (string, error) {
	av, err := lookup(item, name)
	if err != nil {
		return "", err
	}
	return stringValue(name, av)
}

// ParseOptionalString reads a string attribute that may be absent.
func ParseOptionalString(item map[string]types.AttributeValue, name string) (*string, error) {
	av, ok := item[name]
	if !ok || av == nil {
		return nil, nil
	}
	s, err := stringValue(name, av)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseInt32 reads a required number attribute holding a 32-bit integer.
func ParseInt32(item map[string]types.AttributeValue, name string) (int32, error) {
	av, err := lookup(item, name)
	if err != nil {
		return 0, err
	}
	raw, err := numberValue(name, av)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, errors.NewTypeMismatchError(name, "32-bit integer")
	}
	return int32(i), nil
}

// ParseInt64 reads a required number attribute holding a 64-bit integer.
func ParseInt64(item map[string]types.AttributeValue, name string) (int64, error) {
	av, err := lookup(item, name)
	if err != nil {
		return 0, err
	}
	raw, err := numberValue(name, av)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewTypeMismatchError(name, "64-bit integer")
	}
	return i, nil
}

// ParseFloat64 reads a required number attribute as a float.
func ParseFloat64(item map[string]types.AttributeValue, name string) (float64, error) {
	av, err := lookup(item, name)
	if err != nil {
		return 0, err
	}
	raw, err := numberValue(name, av)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewTypeMismatchError(name, "float")
	}
	return f, nil
}

// ParseBool reads a required bool attribute.
func ParseBool(item map[string]types.AttributeValue, name string) (bool, error) {
	av, err := lookup(item, name)
	if err != nil {
		return false, err
	}
	b, ok := av.(*types.AttributeValueMemberBOOL)
	if !ok {
		return false, errors.NewTypeMismatchError(name, "bool, got "+KindOf(av).String())
	}
	return b.Value, nil
}

// ParseTimestamp reads a required string attribute in TimestampLayout as UTC.
func ParseTimestamp(item map[string]types.AttributeValue, name string) (time.Time, error) {
	s, err := ParseString(item, name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.NewTypeMismatchError(name, "timestamp "+TimestampLayout)
	}
	return t, nil
}

// ParseUUID reads a required string attribute holding a UUID.
func ParseUUID(item map[string]types.AttributeValue, name string) (uuid.UUID, error) {
	s, err := ParseString(item, name)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.NewTypeMismatchError(name, "UUID")
	}
	return id, nil
}
