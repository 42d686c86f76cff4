package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Upload a character image
// @Description Store an image in object storage and attach it to the character
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param characterId path string true "Character ID"
// @Param file formData file true "Image file (jpg, png or webp, max 10MB)"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/admin/characters/{characterId}/image [post]
func (h *MediaHandler) UploadCharacterImage(c *fiber.Ctx) error {
	characterID := c.Params("characterId")

	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "Image file is required")
	}

	resp, err := h.mediaSvc.UploadCharacterImage(characterID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Image uploaded", resp)
}

// @Summary Delete a media asset
// @Description Remove the stored object and its database record
// @Tags admin
// @Produce json
// @Security Bearer
// @Param assetId path string true "Media asset ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/admin/media/{assetId} [delete]
func (h *MediaHandler) DeleteMediaAsset(c *fiber.Ctx) error {
	assetID := c.Params("assetId")

	if err := h.mediaSvc.DeleteMediaAsset(assetID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Media asset deleted", nil)
}
