package tableagent

import (
	"fmt"
	"strings"
)

// Command is a sealed interface representing one parsed line of user input.
// The unexported marker method prevents external implementations.
type Command interface {
	command()
}

// LoadCommand loads a CSV file (or glob) and its schema description file.
type LoadCommand struct {
	DataPath   string
	SchemaPath string
}

func (LoadCommand) command() {}

// QuitCommand ends the session.
type QuitCommand struct{}

func (QuitCommand) command() {}

// HelpCommand prints the command reference.
type HelpCommand struct{}

func (HelpCommand) command() {}

// TablesCommand lists the loaded tables.
type TablesCommand struct{}

func (TablesCommand) command() {}

// SchemaCommand shows column metadata for one loaded table.
type SchemaCommand struct {
	Table string
}

func (SchemaCommand) command() {}

// ShowSQLCommand shows the SQL generated for the last question.
type ShowSQLCommand struct{}

func (ShowSQLCommand) command() {}

// Question is free-form text treated as a natural-language question
// against the loaded tables.
type Question struct {
	Text string
}

func (Question) command() {}

// Interface compliance checks.
var (
	_ Command = LoadCommand{}
	_ Command = QuitCommand{}
	_ Command = HelpCommand{}
	_ Command = TablesCommand{}
	_ Command = SchemaCommand{}
	_ Command = ShowSQLCommand{}
	_ Command = Question{}
)

// ParseCommand classifies a line of user input. Slash prefixes select
// commands; anything else is a Question. Malformed slash commands return
// errors wrapping ErrUsage or ErrUnknownCommand.
func ParseCommand(input string) (Command, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return Question{Text: input}, nil
	}

	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/q", "/quit", "/exit":
		return QuitCommand{}, nil
	case "/load":
		if len(fields) != 3 {
			return nil, fmt.Errorf("expected /load <file_path> <table_columns_description>: %w", ErrUsage)
		}
		return LoadCommand{DataPath: fields[1], SchemaPath: fields[2]}, nil
	case "/help":
		return HelpCommand{}, nil
	case "/tables":
		return TablesCommand{}, nil
	case "/schema":
		if len(fields) != 2 {
			return nil, fmt.Errorf("expected /schema <table>: %w", ErrUsage)
		}
		return SchemaCommand{Table: fields[1]}, nil
	case "/sql":
		return ShowSQLCommand{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", fields[0], ErrUnknownCommand)
	}
}
