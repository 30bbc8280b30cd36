package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Boundary errors surfaced by the chat gateway. The delivery pipeline keys
// its isolation behavior off these: Forbidden aborts the remaining articles
// for one target only, NotFound is tolerated on placeholder edits/deletes.
var (
	ErrForbidden = errors.New("missing channel permission")
	ErrNotFound  = errors.New("message no longer exists")
)

// MalformedEntryError marks a single feed item that cannot become an Article.
// The source adapter skips the item and continues, never aborting the batch.
type MalformedEntryError struct {
	Link   string
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed feed entry %s: %s", e.Link, e.Reason)
}

// MissingConfigError is fatal at startup only: the process refuses to run
// half-configured and reports every absent required value.
type MissingConfigError struct {
	Keys []string
}

func (e *MissingConfigError) Error() string {
	return "missing required configuration: " + strings.Join(e.Keys, ", ")
}
