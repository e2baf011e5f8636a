package ez

import (
	"errors"

	"go-docstore-repo/internal/errs"
	"go-docstore-repo/internal/store"
	resp "go-docstore-repo/internal/transport/http/response"
)

// AErr is an error that already carries its response code.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }

func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Classify maps an error onto a response code and a client-safe message.
func Classify(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Msg
	}
	if errors.Is(err, store.ErrDuplicate) {
		return resp.CodeConflict, "already exists"
	}
	var ise *errs.InvalidStateError
	if errors.As(err, &ise) {
		if ise.Missing {
			return resp.CodeNotFound, ise.Msg
		}
		return resp.CodeBadRequest, ise.Msg
	}
	return resp.CodeServerError, resp.CodeMsgMap[resp.CodeServerError]
}
