package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

type AdminHandler struct {
	userSvc    UserServiceInterface
	contentSvc ContentServiceInterface
}

func NewAdminHandler(userSvc UserServiceInterface, contentSvc ContentServiceInterface) *AdminHandler {
	return &AdminHandler{
		userSvc:    userSvc,
		contentSvc: contentSvc,
	}
}

// @Summary Platform statistics
// @Description Totals for users, characters and recorded progress
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.AdminStatsResponse}
// @Router /api/admin/stats [get]
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	resp, err := h.userSvc.GetAdminStats()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Create a character
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param characterRequest body dto.CreateCharacterRequest true "Character details"
// @Success 201 {object} shared.Response{data=model.Character}
// @Router /api/admin/characters [post]
func (h *AdminHandler) CreateCharacter(c *fiber.Ctx) error {
	var req dto.CreateCharacterRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	character, err := h.contentSvc.CreateCharacter(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Character created", character)
}

// @Summary Update a character
// @Description Partial update; omitted fields are left unchanged
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param characterId path string true "Character ID"
// @Param characterRequest body dto.UpdateCharacterRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=model.Character}
// @Router /api/admin/characters/{characterId} [put]
func (h *AdminHandler) UpdateCharacter(c *fiber.Ctx) error {
	characterID := c.Params("characterId")

	var req dto.UpdateCharacterRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	character, err := h.contentSvc.UpdateCharacter(characterID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Character updated", character)
}

// @Summary Deactivate a character
// @Description Soft delete; the character stops appearing in public listings
// @Tags admin
// @Produce json
// @Security Bearer
// @Param characterId path string true "Character ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/admin/characters/{characterId} [delete]
func (h *AdminHandler) DeleteCharacter(c *fiber.Ctx) error {
	characterID := c.Params("characterId")

	if err := h.contentSvc.DeleteCharacter(characterID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Character deleted", nil)
}

// @Summary Add a level to a character
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param characterId path string true "Character ID"
// @Param levelRequest body dto.CreateLevelRequest true "Level details"
// @Success 201 {object} shared.Response{data=model.Level}
// @Router /api/admin/characters/{characterId}/levels [post]
func (h *AdminHandler) CreateLevel(c *fiber.Ctx) error {
	characterID := c.Params("characterId")

	var req dto.CreateLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	level, err := h.contentSvc.CreateLevel(characterID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Level created", level)
}

// @Summary Add a quiz to a level
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param levelId path string true "Level ID"
// @Param quizRequest body dto.CreateQuizRequest true "Quiz details"
// @Success 201 {object} shared.Response{data=model.Quiz}
// @Router /api/admin/levels/{levelId}/quizzes [post]
func (h *AdminHandler) CreateQuiz(c *fiber.Ctx) error {
	levelID := c.Params("levelId")

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	quiz, err := h.contentSvc.CreateQuiz(levelID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Quiz created", quiz)
}
