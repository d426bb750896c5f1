package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCommand struct{}

func (echoCommand) Name() string        { return "echo" }
func (echoCommand) Description() string { return "Print arguments" }
func (echoCommand) Usage() string       { return "echo [-u] <word>..." }

func (echoCommand) Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error) {
	out := strings.Join(args.Args, " ")
	if args.Bool("upper") {
		out = strings.ToUpper(out)
	}
	fmt.Fprintln(writer, out)
	return 0, nil
}

func (echoCommand) GetFlags() *CommandFlagSet {
	return &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"upper": {Name: "upper", Short: "u", Type: "bool"},
		},
	}
}

func TestRegistry_Run(t *testing.T) {
	r := NewRegistry(echoCommand{})

	var buf bytes.Buffer
	code, err := r.Run(t.Context(), NewEnvironment(nil), []string{"echo", "-u", "hello", "world"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "HELLO WORLD\n", buf.String())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry(echoCommand{})

	code, err := r.Run(t.Context(), nil, nil, io.Discard)
	assert.Equal(t, 2, code)
	assert.ErrorContains(t, err, "no command given")

	code, err = r.Run(t.Context(), nil, []string{"nope"}, io.Discard)
	assert.Equal(t, 2, code)
	assert.ErrorContains(t, err, "unknown command 'nope'")

	code, err = r.Run(t.Context(), nil, []string{"echo", "--loud"}, io.Discard)
	assert.Equal(t, 2, code)
	assert.ErrorContains(t, err, "usage: echo [-u] <word>...")
}

func TestRegistry_NamesAndHelp(t *testing.T) {
	r := NewRegistry()
	r.Register(echoCommand{})

	assert.Equal(t, []string{"echo"}, r.Names())

	var buf bytes.Buffer
	r.Help(&buf)
	assert.Contains(t, buf.String(), "Print arguments")
}
