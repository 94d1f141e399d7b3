// utils.go - Shared CLI utilities
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"regexp"
	"time"

	"github.com/agilira/go-errors"
	"github.com/agilira/proteus"
)

// targetType maps a CLI type name onto the reflect.Type handed to the
// resolution engine.
func (m *Manager) targetType(name string) (reflect.Type, error) {
	switch name {
	case "string", "":
		return reflect.TypeOf(""), nil
	case "int":
		return reflect.TypeOf(int(0)), nil
	case "int64":
		return reflect.TypeOf(int64(0)), nil
	case "uint":
		return reflect.TypeOf(uint(0)), nil
	case "bool":
		return reflect.TypeOf(false), nil
	case "float":
		return reflect.TypeOf(float64(0)), nil
	case "duration":
		return reflect.TypeOf(time.Duration(0)), nil
	case "url":
		return reflect.TypeOf((*url.URL)(nil)), nil
	case "ip":
		return reflect.TypeOf(net.IP{}), nil
	case "regexp":
		return reflect.TypeOf((*regexp.Regexp)(nil)), nil
	case "time":
		return reflect.TypeOf(time.Time{}), nil
	case "strings":
		return reflect.TypeOf([]string{}), nil
	case "level":
		return reflect.TypeOf(proteus.LevelInformation), nil
	default:
		return nil, errors.New(proteus.ErrCodeInvalidConfig, fmt.Sprintf("unknown target type: %s", name))
	}
}
