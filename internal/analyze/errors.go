package analyze

import (
	"fmt"
	"time"
)

// ConfigError reports an invalid analyzer configuration. Configuration is
// validated before any analysis begins; nothing is partially produced.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// OrderError reports an input event whose timestamp precedes the previous
// event's. Raised only under the strict order policy.
type OrderError struct {
	Previous time.Time
	Got      time.Time
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("out-of-order event: %s arrived after %s",
		e.Got.Format(time.RFC3339Nano), e.Previous.Format(time.RFC3339Nano))
}
