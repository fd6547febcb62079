package gallery

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"goodnight/models"
	"goodnight/utils"

	"github.com/julienschmidt/httprouter"
)

const maxUpload = 32 << 20

type Handlers struct {
	Store        Store
	UploadDir    string
	PublicPrefix string
	Now          func() time.Time
}

func (h *Handlers) dir() string    { return filepath.Join(h.UploadDir, "gallery") }
func (h *Handlers) prefix() string { return path.Join(h.PublicPrefix, "gallery") }

func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	images, err := h.Store.List(r.Context())
	if err != nil {
		log.Printf("[Gallery] %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load gallery")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, images)
}

// Upload stores every file sent in the "images" field.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "No images uploaded")
		return
	}
	for _, fh := range files {
		if !utils.IsImage(fh) {
			utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image type: "+fh.Filename)
			return
		}
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	saved := make([]models.GalleryImage, 0, len(files))
	for _, fh := range files {
		img, err := utils.SaveImage(fh, h.dir(), h.prefix())
		if err != nil {
			log.Printf("[Gallery] save %s: %v", fh.Filename, err)
			utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"error": "Invalid image " + fh.Filename, "saved": saved})
			return
		}
		doc := models.GalleryImage{ID: img.ID, Path: img.Path, ThumbPath: img.ThumbPath, CreatedAt: now}
		if err := h.Store.Insert(r.Context(), doc); err != nil {
			log.Printf("[Gallery] %v", err)
			h.removeFiles(doc)
			utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{"error": "Database error", "saved": saved})
			return
		}
		saved = append(saved, doc)
	}
	log.Printf("[Gallery] uploaded %d image(s)", len(saved))
	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	id := ps.ByName("id")
	img, err := h.Store.Get(ctx, id)
	if err == nil {
		err = h.Store.Delete(ctx, id)
	}
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Image not found")
		return
	}
	if err != nil {
		log.Printf("[Gallery] %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	h.removeFiles(img)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"deleted": id})
}

func (h *Handlers) removeFiles(img models.GalleryImage) {
	for _, p := range []string{img.Path, img.ThumbPath} {
		local := utils.LocalPath(h.dir(), h.prefix(), p)
		if local == "" {
			continue
		}
		if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
			log.Printf("[Gallery] remove %s: %v", local, err)
		}
	}
}
