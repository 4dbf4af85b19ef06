package handler

import (
	"net/http"

	"wedding-backend/bootstrap"
)

var httpHandler http.Handler

func init() {
	var err error
	httpHandler, err = bootstrap.NewHandler()
	if err != nil {
		panic("app create: " + err.Error())
	}
}

// Handler is the Vercel serverless entry point. All requests are rewritten here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()
	httpHandler.ServeHTTP(w, r)
}
