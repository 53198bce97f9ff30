package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"devcircle/rollcall/internal/constants"
	"devcircle/rollcall/internal/models/dtos/responses"
)

// respondSuccess sends the standard success envelope.
func respondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	writeJSON(w, code, responses.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: time.Since(initTime).String(),
		Data:         data,
	})
}

// respondDomainError maps a domain error to its transport status and error
// code. The services stay free of HTTP; this table is the only place domain
// meaning turns into status codes.
func respondDomainError(w http.ResponseWriter, initTime time.Time, err error) {
	code := constants.CodeFor(err)

	details := &responses.ErrorDetails{Code: string(code)}
	var missingTags *constants.MissingTagsError
	if errors.As(err, &missingTags) {
		details.MissingTags = missingTags.MissingTags
	}

	writeJSON(w, statusForCode(code), responses.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      err.Error(),
		ResponseTime: time.Since(initTime).String(),
		Errors:       details,
	})
}

// respondError sends an error envelope with an explicit status code, for
// boundary failures (bad JSON, missing params) that never reach a service.
func respondError(w http.ResponseWriter, initTime time.Time, message string, errCode constants.ErrorCode, statusCode int) {
	writeJSON(w, statusCode, responses.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      message,
		ResponseTime: time.Since(initTime).String(),
		Errors:       &responses.ErrorDetails{Code: string(errCode)},
	})
}

func statusForCode(code constants.ErrorCode) int {
	switch code {
	case constants.CodeEventNotFound, constants.CodeUserNotFound, constants.CodeTagNotFound:
		return http.StatusNotFound
	case constants.CodeMissingRequiredTags, constants.CodeDiscordNotLinked,
		constants.CodeEventTooEarly, constants.CodeEventFull,
		constants.CodeEventNotActive, constants.CodeValidation:
		return http.StatusBadRequest
	case constants.CodeRateLimited:
		return http.StatusTooManyRequests
	}
	// External failures and everything unclassified are retryable 500s.
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, body responses.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
