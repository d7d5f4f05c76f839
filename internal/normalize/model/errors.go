package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingConfig  = errors.New("missing required configuration")
	ErrEmptySource    = errors.New("source file is empty")
	ErrDuplicateTable = errors.New("sources map to the same table")

	ErrUnreadableSource = errors.New("source could not be parsed")
)

// MissingConfigError lists every required setting that was absent.
type MissingConfigError struct {
	Settings []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingConfig, strings.Join(e.Settings, ", "))
}

func (e *MissingConfigError) Unwrap() error { return ErrMissingConfig }

// DecodeError reports a header that is neither UTF-8 nor BOM-prefixed UTF-8.
// Charset is chardet's best guess, empty when it had none.
type DecodeError struct {
	File       string
	Charset    string
	Confidence int
}

func (e *DecodeError) Error() string {
	msg := "header is not valid UTF-8"
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Charset != "" {
		msg += fmt.Sprintf(" (looks like %s, confidence %d%%); re-encode the file as UTF-8", e.Charset, e.Confidence)
	}
	return msg
}
