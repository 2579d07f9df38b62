package cli

import "strings"

// CommandKind identifies what a REPL line asks for.
type CommandKind int

const (
	CmdEmpty CommandKind = iota
	CmdPress
	CmdCalculate
	CmdClear
	CmdUndo
	CmdRedo
	CmdHelp
	CmdCatalog
	CmdQuit
)

// Command is a parsed REPL line. Text holds the keys to press; for
// CmdCalculate it may be empty.
type Command struct {
	Kind CommandKind
	Text string
}

var keywords = map[string]CommandKind{
	"c":        CmdClear,
	":clear":   CmdClear,
	"u":        CmdUndo,
	":undo":    CmdUndo,
	"r":        CmdRedo,
	":redo":    CmdRedo,
	"?":        CmdHelp,
	":help":    CmdHelp,
	":catalog": CmdCatalog,
	":q":       CmdQuit,
	":quit":    CmdQuit,
	"exit":     CmdQuit,
}

// ParseCommand interprets a REPL line. A trailing "=" presses what precedes
// it and then calculates.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Kind: CmdEmpty}
	}
	if kind, ok := keywords[strings.ToLower(line)]; ok {
		return Command{Kind: kind}
	}
	if text, ok := strings.CutSuffix(line, "="); ok {
		return Command{Kind: CmdCalculate, Text: strings.TrimSpace(text)}
	}
	return Command{Kind: CmdPress, Text: line}
}
