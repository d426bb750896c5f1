// Package builtin contains the commands shipped with the vinyl CLI.
package builtin

import "github.com/mwantia/vinyl/cmd"

// Commands returns a new instance of every builtin command.
func Commands() []cmd.Command {
	return []cmd.Command{
		&InspectCommand{},
		&CpCommand{},
	}
}
