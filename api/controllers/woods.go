package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/timbermill-backend/api/responses"
	"github.com/angelmondragon/timbermill-backend/api/validators"
	"github.com/angelmondragon/timbermill-backend/internal/woods"
	pkgerrors "github.com/angelmondragon/timbermill-backend/pkg/errors"
	"github.com/angelmondragon/timbermill-backend/pkg/logger"
)

const woodImageField = "image"

// woodRequest is the JSON form of a wood. Stock and price may be numbers or
// numeric strings.
type woodRequest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Stock       validators.NumericString `json:"stock"`
	Price       validators.NumericString `json:"price"`
}

func (p woodRequest) toInput() woods.Input {
	return woods.Input{
		Name:        p.Name,
		Description: p.Description,
		Stock:       p.Stock.String(),
		Price:       p.Price.String(),
	}
}

func ListWoods(svc woods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wood service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CreateWood accepts a multipart form with an optional "image" file part, or
// a plain JSON body without an image.
func CreateWood(svc woods.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wood service unavailable"))
			return
		}

		var (
			input woods.Input
			image *woods.ImageUpload
		)

		if validators.IsMultipart(r) {
			if err := validators.ParseMultipartForm(w, r, maxUploadBytes); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			defer func() {
				_ = r.MultipartForm.RemoveAll()
			}()

			input = woods.Input{
				Name:        r.FormValue("name"),
				Description: r.FormValue("description"),
				Stock:       r.FormValue("stock"),
				Price:       r.FormValue("price"),
			}

			upload, err := validators.FormFile(r, woodImageField)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if upload != nil {
				defer upload.Close()
				image = &woods.ImageUpload{Filename: upload.Filename, Body: upload.File}
			}
		} else {
			var payload woodRequest
			if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input = payload.toInput()
		}

		created, err := svc.Create(r.Context(), input, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// UpdateWood replaces name, description, stock and price. The image is kept.
func UpdateWood(svc woods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wood service unavailable"))
			return
		}

		var payload woodRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), chi.URLParam(r, "id"), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func DeleteWood(svc woods.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wood service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "Wood deleted successfully")
	}
}
