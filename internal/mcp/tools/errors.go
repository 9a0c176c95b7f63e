package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/trace-har/internal/extract"
	"github.com/usestring/trace-har/internal/output"
	"github.com/usestring/trace-har/pkg/tracesource"
)

// Error codes for MCP tool responses.
const (
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeMissingMember     = "MISSING_MEMBER"
	ErrCodeMalformedRecord   = "MALFORMED_RECORD"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeOutputExists      = "OUTPUT_EXISTS"
	ErrCodeInternal          = "INTERNAL"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapConvertError converts a conversion or output error to a coded error.
func WrapConvertError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	coded = &CodedError{Code: ErrCodeInternal, Message: "conversion failed", Cause: err}

	var memberErr *tracesource.MemberError
	var recordErr *extract.RecordError
	switch {
	case errors.Is(err, tracesource.ErrUnsupportedFormat):
		coded.Code = ErrCodeUnsupportedFormat
		coded.Message = "not a trace directory or .zip archive"
	case errors.Is(err, tracesource.ErrMissingMember) && errors.As(err, &memberErr):
		coded.Code = ErrCodeMissingMember
		coded.Message = fmt.Sprintf("trace member %s not found", memberErr.Member)
	case errors.As(err, &memberErr):
		coded.Message = fmt.Sprintf("reading trace member %s failed", memberErr.Member)
	case errors.As(err, &recordErr):
		coded.Code = ErrCodeMalformedRecord
		coded.Message = fmt.Sprintf("bad record at %s:%d", recordErr.Member, recordErr.Line)
	case errors.Is(err, output.ErrOutputExists):
		coded.Code = ErrCodeOutputExists
		coded.Message = "output file exists; set overwrite to replace it"
	}

	slog.Warn("tool error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
