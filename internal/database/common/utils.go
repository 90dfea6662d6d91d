package common

import (
	"fmt"
	"regexp"
)

// validIdentifier matches plain SQL identifiers; anything else is refused before
// it can be spliced into a statement.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

func CheckIdentifier(name string) error {
	if !IsValidIdentifier(name) {
		return fmt.Errorf("invalid identifier: %q", name)
	}
	return nil
}
