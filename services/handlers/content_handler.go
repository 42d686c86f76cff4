package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary List characters
// @Description Browse historical figures, optionally filtered by category and era
// @Tags content
// @Produce json
// @Param category query string false "Category filter" Enums(prophets, companions, scholars)
// @Param era query string false "Era filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} shared.Response{data=dto.CharacterListResponse}
// @Router /api/characters [get]
func (h *ContentHandler) GetCharacters(c *fiber.Ctx) error {
	var req dto.CharacterListRequest
	if err := c.QueryParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid query parameters")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.contentSvc.GetCharacters(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get character details
// @Description Full character record including ordered levels
// @Tags content
// @Produce json
// @Param characterId path string true "Character ID"
// @Success 200 {object} shared.Response{data=dto.CharacterResponse}
// @Router /api/characters/{characterId} [get]
func (h *ContentHandler) GetCharacterDetails(c *fiber.Ctx) error {
	characterID := c.Params("characterId")

	resp, err := h.contentSvc.GetCharacterDetails(characterID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List categories
// @Tags content
// @Produce json
// @Success 200 {object} shared.Response{data=[]string}
// @Router /api/categories [get]
func (h *ContentHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.contentSvc.GetCategories()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", categories)
}

// @Summary List eras
// @Tags content
// @Produce json
// @Success 200 {object} shared.Response{data=[]string}
// @Router /api/eras [get]
func (h *ContentHandler) GetEras(c *fiber.Ctx) error {
	eras, err := h.contentSvc.GetEras()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", eras)
}
