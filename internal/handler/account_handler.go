package handler

import (
	"net/http"

	"github.com/Ari-Han-t/CAPS/internal/service"
	"github.com/Ari-Han-t/CAPS/internal/view"
)

func accountHandler(sess *service.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		props := sess.Account.Props()
		writeJSON(w, http.StatusOK, map[string]any{
			"props": props,
			"panel": view.NewAccountPanel(props),
		})
	}
}
