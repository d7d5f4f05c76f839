package handler

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"

	"schemagen/internal/normalize/model"
)

// recoverSource must be deferred directly. A panic inside a reader (the xls
// parser panics on some damaged workbooks) becomes an error naming the file.
func recoverSource(src model.Source, log zerolog.Logger, err *error) {
	if rec := recover(); rec != nil {
		log.Error().
			Interface("panic", rec).
			Bytes("stack", debug.Stack()).
			Msg("panic")
		*err = fmt.Errorf("%s: %w: %v", src.FileName, model.ErrUnreadableSource, rec)
	}
}
