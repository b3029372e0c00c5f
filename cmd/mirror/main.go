package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/seitarof/mirror/internal/cli"
	"github.com/seitarof/mirror/internal/generator"
	"github.com/seitarof/mirror/internal/matcher"
	"github.com/seitarof/mirror/internal/parser"
	"github.com/seitarof/mirror/internal/resolver"
)

var version = "dev"

func main() {
	cfg, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
	if cfg.ShowVersion {
		fmt.Println(version)
		return
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Verbose {
		zc.Level.SetLevel(zap.DebugLevel)
	}
	log, err := zc.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	p := parser.New(log)
	m := matcher.NewTypeMatcher()
	r := resolver.New(resolver.DefaultRules()...)
	g := generator.New(generator.NewGoimportsFormatter(), generator.NewFileWriter())
	u := generator.NewUnitWriter()
	l := cli.NewScannerLister(log)

	runner := cli.NewRunner(p, m, r, g, u, l, os.Stdout, log)
	if err := runner.Run(cfg); err != nil {
		log.Fatal("run failed", zap.String("command", string(cfg.Command)), zap.Error(err))
	}
}
