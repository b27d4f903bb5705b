package controllers

import (
	"strings"

	"github.com/google/uuid"
)

// publicIDParam reads a path parameter holding a public ID. Only the
// canonical hyphenated form is accepted; the result is lower-cased.
func publicIDParam(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 36 {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
