package main

import (
	"context"
	"encoding/csv"
	"errors"

	"schemagen/internal/normalize/model"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK     = 0
	exitConfig = 2
	exitInput  = 3
	exitIO     = 4
	exitVerify = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

// classify picks the exit code for an error coming out of the handlers.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		de *model.DecodeError
		pe *csv.ParseError
	)
	switch {
	case errors.Is(err, model.ErrMissingConfig):
		return withCode(exitConfig, err)
	case errors.As(err, &de), errors.As(err, &pe),
		errors.Is(err, model.ErrEmptySource), errors.Is(err, model.ErrDuplicateTable),
		errors.Is(err, model.ErrUnreadableSource):
		return withCode(exitInput, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return withCode(exitIO, err)
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}
