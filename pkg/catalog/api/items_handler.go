package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-catalog/pkg/catalog"
)

// maxMultipartMemory bounds how much of a multipart body is buffered in
// memory before spilling to temp files.
const maxMultipartMemory = 32 << 20

// ItemsHandler handles HTTP requests for catalog items
type ItemsHandler struct {
	service catalog.Service
}

// NewItemsHandler creates a new items handler
func NewItemsHandler(service catalog.Service) *ItemsHandler {
	return &ItemsHandler{service: service}
}

// Routes returns the routes for items
func (h *ItemsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateItem)
	r.Get("/", h.ListItems)
	r.Get("/{id}", h.GetItem)
	r.Put("/{id}", h.UpdateItem)
	r.Delete("/{id}", h.DeleteItem)

	return r
}

// CreateItem creates a new catalog item from a multipart form carrying the
// scalar fields plus an optional cover file and a required content file.
func (h *ItemsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	coverBytes, coverName, err := formFileBytes(r, "cover")
	if err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "failed to read cover file")
		return
	}
	contentBytes, contentName, err := formFileBytes(r, "content")
	if err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "failed to read content file")
		return
	}

	req := catalog.CreateItemRequest{
		Title:        r.FormValue("title"),
		Course:       r.FormValue("course"),
		Author:       r.FormValue("author"),
		Kind:         catalog.ItemKind(r.FormValue("kind")),
		CoverBytes:   coverBytes,
		CoverName:    coverName,
		ContentBytes: contentBytes,
		ContentName:  contentName,
	}

	item, err := h.service.CreateItem(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "create item")
		return
	}

	slog.Info("item created", "item_id", item.ID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

// ListItems returns all catalog items in storage order.
func (h *ItemsHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err, "list items")
		return
	}
	if items == nil {
		items = []*catalog.Item{}
	}

	render.JSON(w, r, items)
}

// GetItem retrieves a catalog item by ID
func (h *ItemsHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get item")
		return
	}

	render.JSON(w, r, item)
}

// UpdateItem partially updates a catalog item. Absent scalar fields and
// absent files leave the stored values unchanged.
func (h *ItemsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	coverBytes, coverName, err := formFileBytes(r, "cover")
	if err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "failed to read cover file")
		return
	}
	contentBytes, contentName, err := formFileBytes(r, "content")
	if err != nil {
		writeErrorMessage(w, r, http.StatusBadRequest, "failed to read content file")
		return
	}

	req := catalog.UpdateItemRequest{
		ID:           id,
		Title:        formValue(r, "title"),
		Course:       formValue(r, "course"),
		Author:       formValue(r, "author"),
		CoverBytes:   coverBytes,
		CoverName:    coverName,
		ContentBytes: contentBytes,
		ContentName:  contentName,
	}
	if kind := formValue(r, "kind"); kind != nil {
		k := catalog.ItemKind(*kind)
		req.Kind = &k
	}

	item, err := h.service.UpdateItem(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "update item")
		return
	}

	slog.Info("item updated", "item_id", item.ID.String())
	render.JSON(w, r, item)
}

// DeleteItem removes a catalog item and releases its stored binaries.
func (h *ItemsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, err, "delete item")
		return
	}

	slog.Info("item deleted", "item_id", id.String())
	render.JSON(w, r, map[string]string{"message": "item deleted"})
}

// itemID parses the {id} URL parameter, writing a 404 when it is not a
// valid identifier. An unparseable id cannot name a record.
func itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeErrorMessage(w, r, http.StatusNotFound, "item not found")
		return uuid.Nil, false
	}
	return id, true
}

// formFileBytes reads a single optional file field out of a parsed
// multipart form. A missing field yields nil bytes and no error.
func formFileBytes(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

// formValue returns a pointer to the field value when the field was
// supplied, nil otherwise, so handlers can distinguish "absent" from
// "empty".
func formValue(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vals, ok := r.MultipartForm.Value[field]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

// writeError maps service errors onto the HTTP taxonomy: not-found to 404,
// validation failures to 400, everything else to a generic 500 with the
// detail logged server-side only.
func writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var verr *catalog.ValidationError
	switch {
	case errors.Is(err, catalog.ErrItemNotFound):
		writeErrorMessage(w, r, http.StatusNotFound, "item not found")
	case errors.As(err, &verr):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	default:
		slog.Error("request failed", "op", op, "error", err)
		writeErrorMessage(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func writeErrorMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": message})
}
