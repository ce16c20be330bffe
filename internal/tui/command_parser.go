package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandKind identifies a command line command.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandMan
	CommandHelp
	CommandQuit
	CommandWipe
	CommandTab
	CommandMove
)

// commandNames maps every accepted spelling to its command.
var commandNames = map[string]CommandKind{
	"man":  CommandMan,
	"help": CommandHelp,
	"h":    CommandHelp,
	"quit": CommandQuit,
	"q":    CommandQuit,
	"wipe": CommandWipe,
	"w":    CommandWipe,
	"tab":  CommandTab,
	"move": CommandMove,
}

// ParsedCommand represents a parsed command input.
type ParsedCommand struct {
	Name string
	Args []string
}

// ParseCommandInput parses a command string like ":man 2 read" into name and
// args. The leading ':' is optional and arguments are split on whitespace.
func ParseCommandInput(input string) ParsedCommand {
	input = strings.TrimPrefix(strings.TrimSpace(input), ":")

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return ParsedCommand{}
	}
	return ParsedCommand{Name: parts[0], Args: parts[1:]}
}

// Command is a resolved command line command.
type Command struct {
	Kind   CommandKind
	Topics []string // CommandMan
	Index  int      // CommandTab and CommandMove, 0-based
}

// ResolveCommand turns parsed input into a command. Unknown names and bad
// arguments are reported as errors suitable for the status line.
func ResolveCommand(p ParsedCommand) (Command, error) {
	if p.Name == "" {
		return Command{Kind: CommandNone}, nil
	}

	kind, ok := commandNames[p.Name]
	if !ok {
		return Command{}, fmt.Errorf("Unknown command '%s'", p.Name) //nolint:staticcheck // shown verbatim in the status line
	}

	cmd := Command{Kind: kind}
	switch kind {
	case CommandMan:
		if len(p.Args) == 0 {
			return Command{}, fmt.Errorf("usage: :%s <topic>...", p.Name)
		}
		cmd.Topics = p.Args
	case CommandTab, CommandMove:
		if len(p.Args) != 1 {
			return Command{}, fmt.Errorf("usage: :%s <n>", p.Name)
		}
		n, err := strconv.Atoi(p.Args[0])
		if err != nil || n < 1 {
			return Command{}, fmt.Errorf("invalid tab number '%s'", p.Args[0])
		}
		cmd.Index = n - 1
	}
	return cmd, nil
}
