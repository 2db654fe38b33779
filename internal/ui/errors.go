package ui

import (
	"errors"
	"fmt"
)

var errEmptyPath = errors.New("enter a folder path")

type notFolderError struct {
	Path string
}

func (e notFolderError) Error() string {
	return fmt.Sprintf("not a folder: %s", e.Path)
}
