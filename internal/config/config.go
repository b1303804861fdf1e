// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads QuickFeather SoC options from YAML files.
//
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/db47h/hwsoc"
	"github.com/db47h/hwsoc/target/quickfeather"
	"gopkg.in/yaml.v3"
)

// Decode reads options from r. Unknown keys are rejected. An empty document
// yields empty options.
//
func Decode(r io.Reader) (quickfeather.Options, error) {
	var o quickfeather.Options
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && err != io.EOF {
		return quickfeather.Options{}, hwsoc.ConfigError("config.decode", "%v", err)
	}
	return o, nil
}

// Load reads options from the named file.
//
func Load(path string) (quickfeather.Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return quickfeather.Options{}, hwsoc.WrapKind(err, "config.load", hwsoc.KindConfig)
	}
	return Decode(bytes.NewReader(b))
}

// Marshal encodes o as YAML.
//
func Marshal(o quickfeather.Options) ([]byte, error) {
	return yaml.Marshal(o)
}
