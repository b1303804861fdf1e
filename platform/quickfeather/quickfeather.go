// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package quickfeather provides the platform definition of the QuickLogic
// QuickFeather board.
//
package quickfeather

import (
	"bytes"
	_ "embed"

	"github.com/db47h/hwsoc/platform"
	"github.com/pkg/errors"
)

//go:embed quickfeather.yaml
var table []byte

// New returns a new QuickFeather platform. Each call returns a fresh
// platform with no resource claimed.
//
func New() (*platform.Platform, error) {
	t, err := platform.LoadTable(bytes.NewReader(table))
	if err != nil {
		return nil, errors.Wrap(err, "quickfeather")
	}
	return platform.New(t)
}
