package models

import (
	"strconv"

	"github.com/pkg/errors"
)

// ID is a numeric backend identifier. Form controls naturally carry text, so
// ids are parsed and validated at the boundary with ParseID instead of being
// passed around as strings. The zero value means "not selected" for lookup
// fields and "new record" for member ids.
type ID int

// ParseID converts a form or path value into an ID. The empty string parses
// to the zero ID. Non-numeric or negative input is rejected.
func ParseID(s string) (ID, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return ID(n), nil
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id == 0
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}
