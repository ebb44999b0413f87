package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vi13x/antc-trx/internal/domain"
)

var (
	ErrUnauthorized = errors.New("Silakan login sebagai admin terlebih dahulu!")
	ErrBadLogin     = errors.New("Username atau password salah!")
	ErrNotImage     = errors.New("File yang dipilih bukan gambar yang valid!")
	ErrTooLarge     = errors.New("Ukuran file terlalu besar!")
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Error carries an HTTP status along with the failure.
type Error struct {
	Err    error
	Status int
}

func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status}
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// translate maps domain failures onto HTTP statuses.
func translate(err error) *Error {
	var we *Error
	if errors.As(err, &we) {
		return we
	}
	if _, ok := domain.IsValidation(err); ok {
		return &Error{Err: err, Status: http.StatusBadRequest}
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &Error{Err: err, Status: http.StatusNotFound}
	case errors.Is(err, domain.ErrDenied):
		return &Error{Err: ErrBadLogin, Status: http.StatusUnauthorized}
	}
	return &Error{Err: err, Status: http.StatusInternalServerError}
}

func Respond(ctx *gin.Context, data interface{}, statusCode int) error {
	if data == nil || statusCode == http.StatusNoContent {
		ctx.Status(statusCode)
		return nil
	}
	ctx.JSON(statusCode, data)
	return nil
}

func RespondError(ctx *gin.Context, err error) {
	we := translate(err)
	resp := ErrorResponse{Error: we.Err.Error()}
	if ve, ok := domain.IsValidation(we.Err); ok {
		resp = ErrorResponse{Error: ve.Message, Field: ve.Field}
	}
	if we.Status == http.StatusInternalServerError {
		resp.Error = http.StatusText(http.StatusInternalServerError)
	}
	ctx.AbortWithStatusJSON(we.Status, resp)
}

func RespondDownloadFile(ctx *gin.Context, data []byte, filename string) error {
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "application/json", data)
	return nil
}
