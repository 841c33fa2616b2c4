package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"

	"github.com/labstack/echo/v4"
)

const successCode = "SUCCESS_200"

// Response is the envelope every API response is wrapped in
type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, Response{Success: true, Code: successCode, Message: message, Data: data})
}

// ErrorHandler renders errors returned by handlers and middleware in the
// response envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Printf("Error writing error response: %v", err)
	}
}

func errorResponse(err error) (int, Response) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		resp := Response{Code: appErr.Code.Code, Message: appErr.Message}
		if resp.Message == "" {
			resp.Message = appErr.Code.Message
		}
		if len(appErr.Fields) > 0 {
			resp.Data = appErr.Fields
		}
		return appErr.Code.Status, resp
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code := apperr.BadRequest
		switch {
		case httpErr.Code == http.StatusUnauthorized:
			code = apperr.Unauthorized
		case httpErr.Code == http.StatusForbidden:
			code = apperr.Forbidden
		case httpErr.Code >= http.StatusInternalServerError:
			code = apperr.InternalServerError
		}
		return httpErr.Code, Response{Code: code.Code, Message: code.Message}
	}

	code := apperr.InternalServerError
	return code.Status, Response{Code: code.Code, Message: code.Message}
}
