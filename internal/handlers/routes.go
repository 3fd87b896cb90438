package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/example/filmora/internal/catalog"
	"github.com/example/filmora/internal/prefs"
	"github.com/example/filmora/internal/uploads"
)

// Deps bundles everything the authenticated API surface needs.
type Deps struct {
	Catalog *catalog.Service
	Gateway MetadataSearcher
	Prefs   *prefs.Service
	Uploads *uploads.Signer
	Errors  *Errors
}

// Mount attaches all authenticated routes to r. The caller wraps r in
// auth.RequireUser; nothing here re-checks the token.
func Mount(r chi.Router, d Deps) {
	e := d.Errors
	if e == nil {
		e = &Errors{}
	}

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", ListMovies(d.Catalog, e))
		r.Post("/", CreateMovie(d.Catalog, e))
		r.Post("/import/external", ImportMovie(d.Catalog, e))
		r.Get("/search", SearchExternal(d.Gateway, e))
		r.Get("/external/{id}", GetExternalDetails(d.Gateway, e))
		r.Get("/{id}", GetMovie(d.Catalog, e))
		r.Put("/{id}", UpdateMovie(d.Catalog, e))
		r.Delete("/{id}", DeleteMovie(d.Catalog, e))
	})

	r.Route("/preferences", func(r chi.Router) {
		r.Get("/", GetPreferences(d.Prefs, e))
		r.Put("/", UpdatePreferences(d.Prefs, e))
	})

	r.Get("/uploads/auth", UploadAuth(d.Uploads))
}
