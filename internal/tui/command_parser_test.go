package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ParsedCommand
	}{
		{
			name:     "simple command with colon",
			input:    ":help",
			expected: ParsedCommand{Name: "help", Args: []string{}},
		},
		{
			name:     "simple command without colon",
			input:    "q",
			expected: ParsedCommand{Name: "q", Args: []string{}},
		},
		{
			name:     "command with multiple args",
			input:    ":man 2 read write",
			expected: ParsedCommand{Name: "man", Args: []string{"2", "read", "write"}},
		},
		{
			name:     "command with extra whitespace",
			input:    "  :tab   3  ",
			expected: ParsedCommand{Name: "tab", Args: []string{"3"}},
		},
		{
			name:     "empty input",
			input:    "",
			expected: ParsedCommand{},
		},
		{
			name:     "only colon",
			input:    ":",
			expected: ParsedCommand{},
		},
		{
			name:     "only whitespace",
			input:    "   ",
			expected: ParsedCommand{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseCommandInput(tt.input)
			assert.Equal(t, tt.expected.Name, result.Name)
			assert.Len(t, result.Args, len(tt.expected.Args))
			for i := range tt.expected.Args {
				assert.Equal(t, tt.expected.Args[i], result.Args[i])
			}
		})
	}
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{input: "", want: Command{Kind: CommandNone}},
		{input: ":man ls cat", want: Command{Kind: CommandMan, Topics: []string{"ls", "cat"}}},
		{input: ":help", want: Command{Kind: CommandHelp}},
		{input: ":h", want: Command{Kind: CommandHelp}},
		{input: ":quit", want: Command{Kind: CommandQuit}},
		{input: ":q", want: Command{Kind: CommandQuit}},
		{input: ":wipe", want: Command{Kind: CommandWipe}},
		{input: ":w", want: Command{Kind: CommandWipe}},
		{input: ":tab 2", want: Command{Kind: CommandTab, Index: 1}},
		{input: ":move 1", want: Command{Kind: CommandMove, Index: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveCommand(ParseCommandInput(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCommand_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: ":frobnicate", want: "Unknown command 'frobnicate'"},
		{input: ":man", want: "usage: :man <topic>..."},
		{input: ":tab", want: "usage: :tab <n>"},
		{input: ":tab two", want: "invalid tab number 'two'"},
		{input: ":move 0", want: "invalid tab number '0'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ResolveCommand(ParseCommandInput(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}
