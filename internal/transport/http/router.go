package http

import (
	"net/http"
	"time"

	httpmw "github.com/labdesk/workbench/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Deps struct {
	Handler        *Handler
	Verifier       *httpmw.TokenVerifier
	Roulette       http.HandlerFunc // websocket feed
	CORSOrigins    []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmw.RequestID)
	r.Use(httpmw.Logging)

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", httpmw.HeaderRequestID},
			ExposedHeaders:   []string{"Content-Disposition", httpmw.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ok(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// WS endpoint authenticates on its own (query token)
	if d.Roulette != nil {
		r.Get("/ws/roulette", d.Roulette)
	}

	h := d.Handler
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware(d.Verifier, Unauthorized))
		if d.RequestTimeout > 0 {
			pr.Use(middleware.Timeout(d.RequestTimeout))
		}

		pr.Route("/members", func(rm chi.Router) {
			rm.Get("/", h.ListMembers)
			rm.Post("/", h.CreateMember)
			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetMember)
				rr.Patch("/", h.UpdateMember)
				rr.Delete("/", h.DeactivateMember)
			})
		})

		pr.Post("/roulette/draw", h.Draw)

		pr.Route("/memos", func(rm chi.Router) {
			rm.Get("/", h.ListMemos)
			rm.Post("/", h.CreateMemo)
			rm.Get("/export", h.ExportAllMemos)
			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetMemo)
				rr.Put("/", h.UpdateMemo)
				rr.Delete("/", h.DeleteMemo)
				rr.Get("/export", h.ExportMemo)
			})
		})
	})

	return r
}
