package fileformat

import (
	"path/filepath"
	"strings"

	"github.com/twinj/uuid"
)

// UniqueFormat keeps the extension of fn and replaces the rest with a UUID.
func UniqueFormat(fn string) string {
	ext := strings.ToLower(filepath.Ext(fn))
	return uuid.NewV4().String() + ext
}
