// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config resolves the single configuration option recognised
// per data source, DatabasePath, from this process's command line.
package config

import (
	"context"
	"errors"
	"flag"
)

var databasePath = flag.String("database-path", "", "directory holding table files for the default data source")

// Run validates that -database-path was supplied, following
// service/config.Run's validate-then-wait shape. Missing or unparseable
// configuration must fail open with GeneralError; Run is the
// process-lifetime half of that contract, and FlagConfigSource.String
// is the per-open half.
func Run(ctx context.Context) error {
	if len(*databasePath) == 0 {
		return errors.New("config: missing -database-path")
	}
	<-ctx.Done()
	return nil
}

// FlagConfigSource adapts the -database-path flag into an
// external.ConfigSource for the process's one implicit data source.
type FlagConfigSource struct{}

// String implements external.ConfigSource. DatabasePath is the only key
// this source recognises.
func (FlagConfigSource) String(key string) (string, bool) {
	if key != "DatabasePath" || *databasePath == "" {
		return "", false
	}
	return *databasePath, true
}
