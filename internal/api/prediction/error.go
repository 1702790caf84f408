package prediction

import (
	"FishBiomass/pkg/response"
	"net/http"
)

var (
	ErrInvalidQuantity  = response.NewError(http.StatusBadRequest, response.KindValidation, "quantity must be a positive integer")
	ErrInvalidRequest   = response.NewError(http.StatusBadRequest, response.KindValidation, "invalid prediction request")
	ErrMissingImage     = response.NewError(http.StatusBadRequest, response.KindValidation, "image file is required")
	ErrInvalidFileType  = response.NewError(http.StatusBadRequest, response.KindValidation, "invalid file type")
	ErrFileTooLarge     = response.NewError(http.StatusBadRequest, response.KindValidation, "file too large")
	ErrImageDecode      = response.NewError(http.StatusBadRequest, response.KindImageDecode, "image could not be decoded")
	ErrModelUnavailable = response.NewError(http.StatusServiceUnavailable, response.KindModelUnavailable, "weight model unavailable")

	ErrExtractContour      = response.NewError(http.StatusInternalServerError, response.KindInternal, "failed to extract contour")
	ErrRecordObservation   = response.NewError(http.StatusInternalServerError, response.KindInternal, "failed to record prediction")
	ErrInternalServerError = response.NewError(http.StatusInternalServerError, response.KindInternal, "internal server error")
)
