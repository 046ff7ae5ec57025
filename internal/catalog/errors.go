package catalog

import "fmt"

// WorksheetNotFoundError is returned by row stores when the configured
// worksheet does not exist in the spreadsheet.
type WorksheetNotFoundError struct {
	Name string
}

func (e *WorksheetNotFoundError) Error() string {
	return fmt.Sprintf("worksheet %q not found", e.Name)
}
