package fileformat

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// UniqueFormat turns an uploaded filename into a collision-free object key,
// keeping the original extension.
func UniqueFormat(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return uuid.New().String() + ext
}
