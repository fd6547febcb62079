package rooms

import (
	"errors"
	"log"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"goodnight/models"
	"goodnight/utils"

	"github.com/julienschmidt/httprouter"
)

const maxUpload = 10 << 20

type Handlers struct {
	Store        Store
	UploadDir    string
	PublicPrefix string
	Now          func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func find(types []models.RoomType, id string) (models.RoomType, bool) {
	for _, rt := range types {
		if rt.ID == id {
			return rt, true
		}
	}
	return models.RoomType{}, false
}

// List returns the catalog. ?guests= keeps the types that fit that many
// people.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	types, err := h.Store.RoomTypes(r.Context())
	if err != nil {
		log.Printf("[Rooms] %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load rooms")
		return
	}
	if guests := utils.QueryInt(r, "guests", 0); guests > 0 {
		fit := make([]models.RoomType, 0, len(types))
		for _, rt := range types {
			if rt.MaxOccupancy >= guests {
				fit = append(fit, rt)
			}
		}
		types = fit
	}
	utils.RespondWithJSON(w, http.StatusOK, types)
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	types, err := h.Store.RoomTypes(r.Context())
	if err != nil {
		log.Printf("[Rooms] %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load rooms")
		return
	}
	rt, ok := find(types, ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rt)
}

// Update changes the price or description of a room type. A multipart
// body may also carry a new photo in the "image" field.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	var in models.RoomUpdate
	fields := map[string]any{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		if v := r.FormValue("price"); v != "" {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid price")
				return
			}
			in.Price = &p
		}
		if _, ok := r.MultipartForm.Value["description"]; ok {
			d := r.FormValue("description")
			in.Description = &d
		}
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			if !utils.IsImage(files[0]) {
				utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image type")
				return
			}
			img, err := utils.SaveImage(files[0], filepath.Join(h.UploadDir, "rooms"), path.Join(h.PublicPrefix, "rooms"))
			if err != nil {
				log.Printf("[Rooms] upload for %s: %v", id, err)
				utils.RespondWithError(w, http.StatusBadRequest, "Invalid image")
				return
			}
			fields["imagePath"] = img.Path
			fields["thumbPath"] = img.ThumbPath
		}
	} else if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if in.Price != nil {
		if *in.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Price must be positive")
			return
		}
		fields["price"] = *in.Price
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if len(fields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	fields["updatedAt"] = h.now()

	ctx := r.Context()
	if err := h.Store.Update(ctx, id, fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Room not found")
			return
		}
		log.Printf("[Rooms] %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update room")
		return
	}
	log.Printf("[Rooms] updated %s", id)

	types, err := h.Store.RoomTypes(ctx)
	if err != nil {
		log.Printf("[Rooms] %v", err)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"updated": id})
		return
	}
	rt, _ := find(types, id)
	utils.RespondWithJSON(w, http.StatusOK, rt)
}
