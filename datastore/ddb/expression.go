/*
 * Copyright © 2025 Nick Sullivan, All rights reserved.
 */

package ddb

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Nick-Sullivan/house-planner/attribute"
	"github.com/Nick-Sullivan/house-planner/registry"
	"github.com/Nick-Sullivan/house-planner/storagemodels"
)

// expression is a DynamoDB expression with its placeholder bindings. The zero
// value is the empty expression.
type expression struct {
	text   string
	names  map[string]string
	values map[string]types.AttributeValue
}

func (e expression) empty() bool {
	return e.text == ""
}

// apply copies e into the expression fields of a request.
func (e expression) apply(text **string, names *map[string]string, values *map[string]types.AttributeValue) {
	if e.empty() {
		return
	}
	*text = aws.String(e.text)
	if len(e.names) > 0 {
		if *names == nil {
			*names = make(map[string]string, len(e.names))
		}
		for k, v := range e.names {
			(*names)[k] = v
		}
	}
	if len(e.values) > 0 {
		if *values == nil {
			*values = make(map[string]types.AttributeValue, len(e.values))
		}
		for k, v := range e.values {
			(*values)[k] = v
		}
	}
}

func attributeNotExists(attr string) expression {
	return expression{
		text:  "attribute_not_exists(#pk)",
		names: map[string]string{"#pk": attr},
	}
}

func attributeExists(attr string) expression {
	return expression{
		text:  "attribute_exists(#pk)",
		names: map[string]string{"#pk": attr},
	}
}

func versionEquals(v int32) expression {
	return expression{
		text:   "#version = :old_version",
		names:  map[string]string{"#version": registry.VersionAttribute},
		values: map[string]types.AttributeValue{":old_version": attribute.Int(int64(v))},
	}
}

// equals builds "#<tag> = :<tag>" for eq. tag keeps key and filter placeholders apart.
func equals(tag string, eq storagemodels.Equality) expression {
	return expression{
		text:   "#" + tag + " = :" + tag,
		names:  map[string]string{"#" + tag: eq.Attribute},
		values: map[string]types.AttributeValue{":" + tag: eq.Value},
	}
}
