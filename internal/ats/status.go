// Package ats talks to the upstream applicant-tracking-system (ATS) API.
//
// Every outbound call ends in CheckResponse, which classifies the HTTP
// status into an *apperr.Error:
//
//	200          -> nil (no side effects)
//	404          -> apperr.NotFound(labels...)      "<labels>: Not Found", 404
//	anything else-> log line + apperr.RequestFailed  "<labels>: Request Failed", 500
//
// The classifier never reads the body and never retries.
package ats

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/job-board-backend/internal/apperr"
)

// CheckStatus classifies an upstream status code. labels identify the call
// (e.g. "ATS", "Candidates") and prefix the resulting error message.
func CheckStatus(status int, statusText string, labels ...string) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return apperr.NotFound(labels...)
	default:
		log.Error().
			Str("labels", apperr.JoinLabels(labels...)).
			Int("status", status).
			Str("status_text", statusText).
			Msg("upstream request failed")
		return apperr.RequestFailed(labels...)
	}
}

// CheckResponse is CheckStatus for an *http.Response. A nil response is
// classified as a failed request.
func CheckResponse(resp *http.Response, labels ...string) error {
	if resp == nil {
		return CheckStatus(0, "no response", labels...)
	}
	return CheckStatus(resp.StatusCode, statusText(resp), labels...)
}

// statusText prefers the server's reason phrase ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	s := resp.Status
	if len(s) > 4 && s[3] == ' ' {
		return s[4:]
	}
	if s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode)
}
