package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Registry holds the commands available by name.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry(commands ...Command) *Registry {
	r := &Registry{
		commands: make(map[string]Command),
	}

	for _, c := range commands {
		r.Register(c)
	}

	return r
}

// Register adds c, replacing any command with the same name.
func (r *Registry) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands[c.Name()] = c
}

func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.commands[name]
	return c, ok
}

// Names returns all registered command names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.commands)
	slices.Sort(names)
	return names
}

// Run parses argv, where argv[0] is the command name, and executes the
// matching command.
func (r *Registry) Run(ctx context.Context, api API, argv []string, writer io.Writer) (int, error) {
	if len(argv) == 0 {
		return 2, fmt.Errorf("no command given, available: %v", r.Names())
	}

	c, ok := r.Get(argv[0])
	if !ok {
		return 2, fmt.Errorf("unknown command '%s', available: %v", argv[0], r.Names())
	}

	args, err := NewParser(c.GetFlags()).Parse(argv[1:])
	if err != nil {
		return 2, fmt.Errorf("%s: %w\nusage: %s", c.Name(), err, c.Usage())
	}

	return c.Execute(ctx, api, args, writer)
}

// Help writes a short description of every registered command.
func (r *Registry) Help(writer io.Writer) {
	for _, name := range r.Names() {
		c, _ := r.Get(name)
		fmt.Fprintf(writer, "  %-10s %s\n", name, c.Description())
		fmt.Fprintf(writer, "  %-10s usage: %s\n", "", c.Usage())
	}
}
