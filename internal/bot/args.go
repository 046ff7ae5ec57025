package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// UsageError reports command arguments that do not fit the command's schema.
// Usage is the text shown to the user.
type UsageError struct {
	Command string
	Usage   string
	Reason  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("/%s: %s", e.Command, e.Reason)
}

// AddRowArgs is "/addrow Title, Category, Price".
type AddRowArgs struct {
	Title    string
	Category string
	Price    string
}

func ParseAddRowArgs(raw string) (AddRowArgs, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return AddRowArgs{}, &UsageError{Command: CommandAddRow, Usage: msgAddRowNoArgs, Reason: "no arguments"}
	}

	var parts []string
	for _, part := range strings.Split(strings.Join(fields, " "), ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) != 3 {
		return AddRowArgs{}, &UsageError{
			Command: CommandAddRow,
			Usage:   msgAddRowUsage,
			Reason:  fmt.Sprintf("expected 3 comma-separated values, got %d", len(parts)),
		}
	}

	return AddRowArgs{Title: parts[0], Category: parts[1], Price: parts[2]}, nil
}

// UpdateCellArgs is "/updatecell <row> <col> <value...>". Row and Col are 1-based.
type UpdateCellArgs struct {
	Row   int
	Col   int
	Value string
}

func ParseUpdateCellArgs(raw string) (UpdateCellArgs, error) {
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return UpdateCellArgs{}, &UsageError{
			Command: CommandUpdateCell,
			Usage:   msgUpdateCellUsage,
			Reason:  fmt.Sprintf("expected at least 3 arguments, got %d", len(fields)),
		}
	}

	row, err := parseIndex(CommandUpdateCell, msgUpdateCellUsage, "row", fields[0])
	if err != nil {
		return UpdateCellArgs{}, err
	}
	col, err := parseIndex(CommandUpdateCell, msgUpdateCellUsage, "column", fields[1])
	if err != nil {
		return UpdateCellArgs{}, err
	}

	return UpdateCellArgs{Row: row, Col: col, Value: strings.Join(fields[2:], " ")}, nil
}

// DeleteRowArgs is "/deleterow <row>". Row is 1-based.
type DeleteRowArgs struct {
	Row int
}

func ParseDeleteRowArgs(raw string) (DeleteRowArgs, error) {
	fields := strings.Fields(raw)
	if len(fields) != 1 {
		return DeleteRowArgs{}, &UsageError{
			Command: CommandDeleteRow,
			Usage:   msgDeleteRowUsage,
			Reason:  fmt.Sprintf("expected 1 argument, got %d", len(fields)),
		}
	}

	row, err := parseIndex(CommandDeleteRow, msgDeleteRowUsage, "row", fields[0])
	if err != nil {
		return DeleteRowArgs{}, err
	}
	return DeleteRowArgs{Row: row}, nil
}

// parseIndex parses a 1-based sheet index.
func parseIndex(command, usage, name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &UsageError{Command: command, Usage: usage, Reason: fmt.Sprintf("%s %q is not an integer", name, s)}
	}
	if n < 1 {
		return 0, &UsageError{Command: command, Usage: usage, Reason: fmt.Sprintf("%s must be at least 1, got %d", name, n)}
	}
	return n, nil
}
