package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/parkerwhite/eqchat/internal/handler/chat"
	middlewarePkg "github.com/parkerwhite/eqchat/internal/middleware"
	"github.com/parkerwhite/eqchat/internal/service/history"
	"github.com/parkerwhite/eqchat/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(completer chatHandler.Completer, recorder chatHandler.Recorder, store history.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Server is running",
		})
	})

	chatHandler.New(completer, recorder, store).RegisterRoutes(r)

	return r
}
