/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/shoreline/engine"
	"github.com/spaghettifunk/shoreline/engine/config"
	"github.com/spaghettifunk/shoreline/engine/core"
	"github.com/spaghettifunk/shoreline/testbed"
)

func main() {
	configPath := flag.String("config", "testbed/scene.toml", "path of the TOML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("failed to load the configuration: %s", err)
	}

	tb, err := testbed.NewTestGame(cfg)
	if err != nil {
		panic(err)
	}

	engine, err := engine.New(tb.Game)
	if err != nil {
		panic(err)
	}

	if err := engine.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the render thread owns the context, so shutdown is requested through the event queue
	go func() {
		<-sigCh
		core.EventQueue(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
	}()

	// run engine
	runErr := engine.Run()
	if err := engine.Shutdown(); err != nil {
		core.LogError("shutdown failed: %s", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
