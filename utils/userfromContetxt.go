package utils

import (
	"net/http"

	"goodnight/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return requestingUserID
}
