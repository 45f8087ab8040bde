package cli

import (
	"errors"
	"fmt"

	"github.com/logtriage/logtriage/internal/output"
)

// outputError normalizes failure emission across commands: a structured
// NDJSON record for machine consumers, plain stderr text otherwise.
func outputError(globals *Globals, code, message string) error {
	if globals != nil && globals.Format == "ndjson" {
		if err := output.NewNDJSONWriter(globals.Stdout).WriteError(code, message); err != nil {
			return err
		}
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
	}
	return errors.New(message)
}
