// Package service implements the request-style operations of the platform
// core. Every precondition is checked before any write; errors carry a
// structured code from the connect taxonomy.
package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
)

func invalidArgumentf(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// invalidRequest builds an InvalidArgument error carrying BadRequest field
// violations as error details.
func invalidRequest(violations []*errdetails.BadRequest_FieldViolation) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, errors.New("invalid request"))
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: violations,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

func fieldViolation(field, description string) *errdetails.BadRequest_FieldViolation {
	return &errdetails.BadRequest_FieldViolation{
		Field:       field,
		Description: description,
	}
}

func notFoundf(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeNotFound, fmt.Errorf(format, args...))
}

func permissionDeniedf(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodePermissionDenied, fmt.Errorf(format, args...))
}

func failedPreconditionf(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf(format, args...))
}

func alreadyExistsf(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeAlreadyExists, fmt.Errorf(format, args...))
}

func internalf(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInternal, fmt.Errorf(format, args...))
}
