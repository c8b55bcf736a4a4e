package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/detgeom/pkg/config"
	"github.com/chazu/detgeom/pkg/detector"
	"github.com/chazu/detgeom/pkg/engine"
	"github.com/chazu/detgeom/pkg/kernel"
	"github.com/chazu/detgeom/pkg/kernel/sdfx"
)

// App turns description files into detectors. Lisp descriptions go through
// the engine, everything else through the YAML loader.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	logger *slog.Logger
}

// NewApp creates an App with a fresh engine and the sdfx kernel.
func NewApp(logger *slog.Logger) *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
		logger: logger,
	}
}

func isLisp(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lisp", ".zy":
		return true
	}
	return false
}

// Tree reads a description file into a configuration tree.
func (a *App) Tree(path string) (config.Tree, error) {
	if !isLisp(path) {
		return config.Load(path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, evalErrs, err := a.engine.Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("%s: %w", path, errors.Join(errs...))
	}
	return tree, nil
}

// Load reads and builds the detector described by path. Construction
// warnings are logged.
func (a *App) Load(path string) (*detector.Detector, error) {
	tree, err := a.Tree(path)
	if err != nil {
		return nil, err
	}
	d, warnings, err := detector.New(tree,
		detector.WithKernel(a.kernel),
		detector.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range warnings {
		a.logger.Warn("detector description", "file", path, "warning", w.Error())
	}
	return d, nil
}
