package cli_test

import (
	"testing"

	"github.com/aretw0/calcgame/internal/cli"
	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want cli.Command
	}{
		{"", cli.Command{Kind: cli.CmdEmpty}},
		{"   ", cli.Command{Kind: cli.CmdEmpty}},
		{"=", cli.Command{Kind: cli.CmdCalculate}},
		{"1+2=", cli.Command{Kind: cli.CmdCalculate, Text: "1+2"}},
		{" 3*4 = ", cli.Command{Kind: cli.CmdCalculate, Text: "3*4"}},
		{"1+2", cli.Command{Kind: cli.CmdPress, Text: "1+2"}},
		{"c", cli.Command{Kind: cli.CmdClear}},
		{":clear", cli.Command{Kind: cli.CmdClear}},
		{"U", cli.Command{Kind: cli.CmdUndo}},
		{":redo", cli.Command{Kind: cli.CmdRedo}},
		{":help", cli.Command{Kind: cli.CmdHelp}},
		{":catalog", cli.Command{Kind: cli.CmdCatalog}},
		{":quit", cli.Command{Kind: cli.CmdQuit}},
		{"exit", cli.Command{Kind: cli.CmdQuit}},
		{"cos(0)", cli.Command{Kind: cli.CmdPress, Text: "cos(0)"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ParseCommand(tt.line))
		})
	}
}
