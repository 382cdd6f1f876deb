// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tabledb-go/tdbhdf5/internal/cache"
	"github.com/tabledb-go/tdbhdf5/internal/config"
	"github.com/tabledb-go/tdbhdf5/internal/logging"
)

// stopTimeout bounds how long the background services get to wind down
// once an interrupt arrives before the process exits anyway.
const stopTimeout = 5 * time.Second

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Print(err)
	}
}

// run starts every background service this process owns (the
// -database-path configuration check and the handle-cache manager's
// periodic sweep) and waits
// for either an interrupt or the first failure among them.
func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notify := make(chan os.Signal, 1)
	signal.Notify(notify, os.Interrupt)

	manager := cache.NewManager(logging.Default{})
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return config.Run(gctx) })
	group.Go(func() error { return manager.SweepLoop(gctx, time.Minute) })

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-notify:
	}

	cancel()
	select {
	case err := <-done:
		return err
	case <-time.After(stopTimeout):
		return nil
	}
}
