package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
)

func Index(w http.ResponseWriter) {
	Message(w, http.StatusOK, "coursechat index")
}

func Message(w http.ResponseWriter, status int, message string, details ...any) {
	w.WriteHeader(status)
	response := struct {
		Message string `json:"message"`
		Details []any  `json:"details,omitempty"`
	}{
		Message: message,
		Details: details,
	}
	body, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		fmt.Fprintf(w, `{"message": %q, "details":%q}`, message, marshalErr.Error())
		return
	}
	fmt.Fprint(w, string(body))
}

func Error(w http.ResponseWriter, status int, message string, err error, details ...any) {
	w.WriteHeader(status)
	response := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Details []any  `json:"details,omitempty"`
	}{
		Message: message,
		Error:   err.Error(),
		Details: details,
	}
	body, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		fmt.Fprintf(w, `{"message": %q, "error": %q, "details":%q}`, message, err.Error(), marshalErr.Error())
		return
	}

	fmt.Fprint(w, string(body))
}

func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		Error(w, http.StatusInternalServerError, "could not marshal response", err)
		return
	}
	w.WriteHeader(status)
	fmt.Fprint(w, string(body))
}
