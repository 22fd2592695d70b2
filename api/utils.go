package api

import (
	"encoding/json"
	"net/http"

	"hermannm.dev/devlog/log"
	"hermannm.dev/wrap"
)

func sendJSON(res http.ResponseWriter, value any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(res).Encode(value); err != nil {
		log.ErrorCause(err, "failed to serialize response")
	}
}

func sendClientError(res http.ResponseWriter, err error, message string) {
	if err != nil {
		message = wrap.Error(err, message).Error()
	}
	sendError(res, message, http.StatusBadRequest)
}

func sendServerError(res http.ResponseWriter, err error, message string) {
	if err != nil {
		message = wrap.Error(err, message).Error()
	}
	sendError(res, message, http.StatusInternalServerError)
}

func sendError(res http.ResponseWriter, message string, statusCode int) {
	log.Warn(message)
	http.Error(res, message, statusCode)
}
