package handlers

import (
	"net/http"

	"github.com/devpatel-io/taskflow/internal/config"
	"github.com/devpatel-io/taskflow/internal/monitoring"
	"github.com/devpatel-io/taskflow/internal/utils"
)

// serverError reports the failure to the sink and answers with a generic
// message. Outside production the real error is included to ease debugging.
func serverError(w http.ResponseWriter, sink monitoring.Sink, err error, action string) {
	sink.CaptureException(err, map[string]string{"action": action})

	message := "Internal server error"
	if config.Envs.Environment != "production" {
		message = err.Error()
	}
	utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
		Success: false,
		Message: message,
	})
}

func notFound(w http.ResponseWriter, message string) {
	utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
		Success: false,
		Message: message,
	})
}

func badRequest(w http.ResponseWriter, message string) {
	utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
		Success: false,
		Message: message,
	})
}
