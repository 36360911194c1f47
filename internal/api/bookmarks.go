package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/logger"
	"github.com/bookmarkd/bookmarkd/internal/metrics"
	"github.com/bookmarkd/bookmarkd/internal/shorturl"
	"github.com/bookmarkd/bookmarkd/internal/store"
)

// bookmarksAPIHandler provides REST handlers for bookmark management.
type bookmarksAPIHandler struct {
	bookmarks store.BookmarkStoreIface
	log       logger.Logger
}

// registerBookmarkRoutes registers bookmark routes on r.
func registerBookmarkRoutes(r chi.Router, bookmarks store.BookmarkStoreIface, log logger.Logger) {
	h := &bookmarksAPIHandler{bookmarks: bookmarks, log: log}
	// NOTE: /bookmarks/stats MUST be registered before /bookmarks/{id} so chi
	// does not treat "stats" as an id.
	r.Get("/bookmarks", h.List)
	r.Post("/bookmarks", h.Create)
	r.Get("/bookmarks/stats", h.Stats)
	r.Get("/bookmarks/{id}", h.Get)
	r.Put("/bookmarks/{id}", h.Update)
	r.Patch("/bookmarks/{id}", h.Update)
	r.Delete("/bookmarks/{id}", h.Delete)
}

// Create creates a new bookmark owned by the caller.
// POST /api/v1/bookmarks
//
// @Summary      Create a bookmark
// @Description  Creates a bookmark with a generated short-link alias. The URL must be globally unique.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        body  body      CreateBookmarkRequest  true  "Bookmark to create"
// @Success      201   {object}  BookmarkResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Security     BearerToken
// @Router       /bookmarks [post]
func (h *bookmarksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if err := store.ValidateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_URL")
		return
	}

	// Friendly pre-check; the unique index on bookmarks.url is the real
	// guarantee and surfaces as ErrURLTaken from Create below.
	if _, err := h.bookmarks.GetByURL(r.Context(), req.URL); err == nil {
		metrics.URLConflictsTotal.Inc()
		writeError(w, http.StatusConflict, "url already exists", "URL_CONFLICT")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	alias, err := shorturl.NewAlias()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	bookmark, err := h.bookmarks.Create(r.Context(), user.ID, req.URL, req.Body, alias)
	if err != nil {
		if errors.Is(err, store.ErrURLTaken) {
			metrics.URLConflictsTotal.Inc()
			writeError(w, http.StatusConflict, "url already exists", "URL_CONFLICT")
			return
		}
		h.log.Error("create bookmark", logger.String("url", req.URL), logger.Err(err))
		if isDBLockError(err) {
			writeError(w, http.StatusServiceUnavailable, "server is busy, please retry", "DB_BUSY")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.BookmarksCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, toBookmarkResponse(bookmark))
}

// List returns one page of the caller's bookmarks in insertion order.
// GET /api/v1/bookmarks
//
// @Summary      List bookmarks
// @Description  Returns the caller's bookmarks, paginated. Out-of-range pages yield an empty data array.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        page      query     int  false  "Page number (default 1)"
// @Param        per_page  query     int  false  "Page size (default 5, max 100)"
// @Success      200  {object}  BookmarkListResponse
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Security     BearerToken
// @Router       /bookmarks [get]
func (h *bookmarksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	page, perPage := parsePagination(r)

	total, err := h.bookmarks.CountByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	bookmarks, err := h.bookmarks.ListByOwnerPage(r.Context(), user.ID, (page-1)*perPage, perPage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := BookmarkListResponse{
		Data: make([]BookmarkResponse, 0, len(bookmarks)),
		Meta: buildMeta(page, perPage, total),
	}
	for _, b := range bookmarks {
		resp.Data = append(resp.Data, toBookmarkResponse(b))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single bookmark by id. Owner only; an id owned by someone
// else is a 404, never a 403.
// GET /api/v1/bookmarks/{id}
//
// @Summary      Get a bookmark
// @Description  Returns a single bookmark by id. Unowned ids look identical to missing ones.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        id   path      int  true  "Bookmark ID"
// @Success      200  {object}  BookmarkResponse
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Security     BearerToken
// @Router       /bookmarks/{id} [get]
func (h *bookmarksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	bookmark, err := h.bookmarks.GetByOwnerAndID(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

// Update mutates url and body of an owned bookmark. short_url, visits, and
// created_at are immutable.
// PUT /api/v1/bookmarks/{id}
//
// @Summary      Update a bookmark
// @Description  Updates url and body. The short-link alias and visit counter never change.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Bookmark ID"
// @Param        body  body      UpdateBookmarkRequest  true  "Fields to update"
// @Success      200   {object}  BookmarkResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Security     BearerToken
// @Router       /bookmarks/{id} [put]
func (h *bookmarksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.bookmarks.GetByOwnerAndID(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	var req UpdateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if err := store.ValidateURL(req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_URL")
		return
	}

	// Uniqueness holds on update too: the new url may only collide with the
	// bookmark being updated itself.
	if existing, err := h.bookmarks.GetByURL(r.Context(), req.URL); err == nil && existing.ID != id {
		metrics.URLConflictsTotal.Inc()
		writeError(w, http.StatusConflict, "url already exists", "URL_CONFLICT")
		return
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	bookmark, err := h.bookmarks.Update(r.Context(), user.ID, id, req.URL, req.Body)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "NOT_FOUND")
			return
		}
		if errors.Is(err, store.ErrURLTaken) {
			metrics.URLConflictsTotal.Inc()
			writeError(w, http.StatusConflict, "url already exists", "URL_CONFLICT")
			return
		}
		h.log.Error("update bookmark", logger.Int64("id", id), logger.Err(err))
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, toBookmarkResponse(bookmark))
}

// Delete removes an owned bookmark permanently.
// DELETE /api/v1/bookmarks/{id}
//
// @Summary      Delete a bookmark
// @Description  Deletes a bookmark by id. Responds 204 with an empty body.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        id   path  int  true  "Bookmark ID"
// @Success      204  "No Content"
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Security     BearerToken
// @Router       /bookmarks/{id} [delete]
func (h *bookmarksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.bookmarks.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found", "NOT_FOUND")
			return
		}
		h.log.Error("delete bookmark", logger.Int64("id", id), logger.Err(err))
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.BookmarksDeletedTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns id, url, short_url, and visits for every bookmark the caller
// owns, unpaginated.
// GET /api/v1/bookmarks/stats
//
// @Summary      Bookmark visit stats
// @Description  Returns visit counts for all of the caller's bookmarks.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Success      200  {object}  BookmarkStatsResponse
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Security     BearerToken
// @Router       /bookmarks/stats [get]
func (h *bookmarksAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	bookmarks, err := h.bookmarks.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := BookmarkStatsResponse{Data: make([]BookmarkStats, 0, len(bookmarks))}
	for _, b := range bookmarks {
		resp.Data = append(resp.Data, BookmarkStats{
			ID:       b.ID,
			URL:      b.URL,
			ShortURL: b.ShortURL,
			Visits:   b.Visits,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseID reads the {id} path parameter. Non-integer ids cannot match any
// record, so they answer 404 like the rest of the not-found cases.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "item not found", "NOT_FOUND")
		return 0, false
	}
	return id, true
}

func toBookmarkResponse(b *store.Bookmark) BookmarkResponse {
	return BookmarkResponse{
		ID:        b.ID,
		URL:       b.URL,
		Body:      b.Body,
		ShortURL:  b.ShortURL,
		Visits:    b.Visits,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
