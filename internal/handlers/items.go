package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/alextreichler/openmarket/internal/ledger"
	"github.com/alextreichler/openmarket/internal/models"
)

const (
	maxUploadBytes = 10 << 20
	imageWidth     = 800
)

func (h *LedgerHandler) Items(w http.ResponseWriter, r *http.Request) {
	items, err := h.Ledger.Items(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(items), "items": items})
}

func (h *LedgerHandler) Item(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Ledger.Item(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	var li ledger.Listing
	if err := decodeJSON(w, r, &li); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.Ledger.List(r.Context(), Caller(r.Context()), li)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.Ledger.Item(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *LedgerHandler) Delist(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Ledger.Delist(r.Context(), Caller(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage stores a resized JPEG copy of the uploaded image and points
// the item at it.
func (h *LedgerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := Caller(ctx)
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	// Check before touching the disk.
	if err := h.Ledger.RequireRole(ctx, caller, ledger.ItemSeller(id)); err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, fmt.Errorf("%w: file too large, max 10MB", ledger.ErrInvalidInput))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: image file is required", ledger.ErrInvalidInput))
		return
	}
	defer file.Close()

	var img image.Image
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		writeError(w, r, fmt.Errorf("%w: unsupported image format, only PNG, JPG, JPEG are allowed", ledger.ErrInvalidInput))
		return
	}
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: failed to decode image", ledger.ErrInvalidInput))
		return
	}

	// Resize image (max width 800px, preserve aspect ratio)
	if img.Bounds().Dx() > imageWidth {
		img = resize.Resize(imageWidth, 0, img, resize.Lanczos3)
	}

	filename := uuid.New().String() + ".jpg"
	uploadPath := filepath.Join(h.UploadDir, filename)
	if err := writeJPEG(uploadPath, img); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Ledger.UpdateImage(ctx, caller, id, "/uploads/"+filename); err != nil {
		os.Remove(uploadPath)
		writeError(w, r, err)
		return
	}
	slog.Info("Item image updated", "item_id", id, "file", filename)

	item, err := h.Ledger.Item(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func writeJPEG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}
