package httpx

import (
	"net/http"

	"github.com/go-chi/render"
)

// The JSON reply shapes: submissions and other end-user calls get
// {success,msg,data}; admin tables get {code,msg,count,data} with code 0 on
// success.

type reply struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
}

type tableReply struct {
	Code  int    `json:"code"`
	Msg   string `json:"msg"`
	Count int64  `json:"count"`
	Data  any    `json:"data"`
}

func Success(w http.ResponseWriter, r *http.Request, msg string, data any) {
	render.JSON(w, r, reply{Success: true, Msg: msg, Data: data})
}

func Fail(w http.ResponseWriter, r *http.Request, msg string) {
	render.JSON(w, r, reply{Success: false, Msg: msg})
}

func Table(w http.ResponseWriter, r *http.Request, count int64, data any) {
	render.JSON(w, r, tableReply{Code: 0, Msg: "success", Count: count, Data: data})
}
