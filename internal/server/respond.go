package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
)

var errUnauthenticated = errors.New("missing identity header")

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

// writeError maps a service error's connect code to an HTTP status and a
// structured JSON body. Internal details are logged, never exposed.
func writeError(w http.ResponseWriter, err error) {
	code := connect.CodeInternal
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		code = connectErr.Code()
	}

	message := err.Error()
	if code == connect.CodeInternal {
		slog.Default().Error("internal error", "error", err)
		message = "internal error"
	}

	writeJSON(w, httpStatus(code), errorResponse{
		Code:    code.String(),
		Message: message,
	})
}

func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodePermissionDenied:
		return http.StatusForbidden
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case connect.CodeAlreadyExists:
		return http.StatusConflict
	case connect.CodeUnauthenticated:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    connect.CodeInvalidArgument.String(),
			Message: "invalid JSON request body",
		})
		return false
	}
	return true
}
