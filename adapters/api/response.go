package api

import (
	"net/http"

	"cordex/internal/errors"

	"github.com/go-chi/render"
)

// APIResponse is the envelope of every JSON reply
type APIResponse struct {
	Status int         `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

// ErrorBody is the data of a failed reply
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func success(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, APIResponse{Status: 0, Msg: "ok", Data: data})
}

func failure(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	render.Status(r, status)
	render.JSON(w, r, APIResponse{
		Status: status,
		Msg:    http.StatusText(status),
		Data:   ErrorBody{Code: errors.GetCode(err), Message: err.Error()},
	})
}
