package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mwantia/vinyl"
	"github.com/mwantia/vinyl/data"
	"github.com/mwantia/vinyl/log"
	"github.com/mwantia/vinyl/sink"
	"github.com/mwantia/vinyl/sink/billy"
	"github.com/mwantia/vinyl/sink/direct"
	"github.com/mwantia/vinyl/sink/memory"
	"github.com/mwantia/vinyl/sink/sqlite"
)

// SinkFactory creates an unopened sink for target.
type SinkFactory func(target string, logger *log.Logger) (sink.Sink, error)

// Environment is the API implementation backed by the local filesystem.
type Environment struct {
	log   *log.Logger
	sinks map[string]SinkFactory
}

func NewEnvironment(logger *log.Logger) *Environment {
	if logger == nil {
		logger = log.Nop()
	}

	return &Environment{
		log: logger,
		sinks: map[string]SinkFactory{
			"memory": func(_ string, logger *log.Logger) (sink.Sink, error) {
				return memory.NewMemorySink(memory.WithLogger(logger)), nil
			},
			"billy": func(_ string, logger *log.Logger) (sink.Sink, error) {
				return billy.NewBillySink(nil, billy.WithLogger(logger)), nil
			},
			"direct": func(target string, logger *log.Logger) (sink.Sink, error) {
				if target == "" {
					return nil, fmt.Errorf("direct sink requires a target directory")
				}
				return direct.NewDirectSink(target, direct.WithLogger(logger)), nil
			},
			"sqlite": func(target string, logger *log.Logger) (sink.Sink, error) {
				if target == "" {
					target = ":memory:"
				}
				return sqlite.NewSQLiteSink(target, sqlite.WithLogger(logger))
			},
		},
	}
}

// RegisterSink makes an additional sink available under name.
func (e *Environment) RegisterSink(name string, factory SinkFactory) {
	e.sinks[name] = factory
}

// Sinks returns the names of all known sinks in sorted order.
func (e *Environment) Sinks() []string {
	names := make([]string, 0, len(e.sinks))
	for name := range e.sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) Logger() *log.Logger {
	return e.log
}

func (e *Environment) Load(ctx context.Context, path, base string, stream bool) (*vinyl.File, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", data.ErrNotExist, path)
		}
		return nil, err
	}

	opts := []vinyl.Option{
		vinyl.WithPath(path),
		vinyl.WithStat(data.StatFromFileInfo(info)),
	}
	if base != "" {
		opts = append(opts, vinyl.WithBase(base))
	}

	switch {
	case info.IsDir():
	case stream:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, vinyl.WithStream(file))
	case info.Mode().IsRegular():
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, vinyl.WithBuffer(buf))
	}

	f, err := vinyl.New(opts...)
	if err != nil {
		return nil, err
	}

	e.log.Debug("loaded '%s' as %s", path, f.Kind())
	return f, nil
}

func (e *Environment) OpenSink(ctx context.Context, name, target string) (sink.Sink, error) {
	factory, ok := e.sinks[name]
	if !ok {
		return nil, fmt.Errorf("unknown sink '%s', available: %v", name, e.Sinks())
	}

	s, err := factory(target, e.log)
	if err != nil {
		return nil, err
	}

	if err := s.Open(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Release closes the stream held by f, if any.
func Release(f *vinyl.File) error {
	if r, ok := f.Stream(); ok {
		if c, ok := r.(io.Closer); ok {
			return c.Close()
		}
	}
	return nil
}
