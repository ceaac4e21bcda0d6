package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/bind"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/respond"
)

// ListBookmarks serves GET /api/bookmarks?tag=&unread_only=&page=&size=
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := bind.DecodeQuery(r, d.DefaultPageSize, d.MaxPageSize)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		bookmarks, err := d.Bookmarks.List(r.Context(), params.Tag, params.UnreadOnly, params.Page, params.Size)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		if bookmarks == nil {
			bookmarks = []domain.Bookmark{}
		}
		respond.JSON(w, http.StatusOK, bookmarks)
	}
}

// GetBookmark serves GET /api/bookmarks/{id}
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Bookmarks.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, b)
	}
}

// CreateBookmark serves POST /api/bookmarks
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := bind.DecodeJSON[domain.CreateBookmarkRequest](w, r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		b, err := d.Bookmarks.Create(r.Context(), req)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusCreated, b)
	}
}

// UpdateBookmark serves PUT /api/bookmarks/{id}
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := bind.DecodeJSON[domain.UpdateBookmarkRequest](w, r)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}

		b, err := d.Bookmarks.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, b)
	}
}

// DeleteBookmark serves DELETE /api/bookmarks/{id}
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Bookmarks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
