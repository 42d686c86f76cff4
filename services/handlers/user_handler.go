package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/on-their-footsteps/footsteps_api/dto"
	"github.com/on-their-footsteps/footsteps_api/shared"
)

type UserHandler struct {
	userSvc UserServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

// @Summary Get current user profile
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.UserProfileResponse}
// @Router /api/users/me [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetUserProfile(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get current user progress
// @Description Per-character completion and XP earned
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.UserProgressResponse}
// @Router /api/users/me/progress [get]
func (h *UserHandler) GetProgress(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetUserProgress(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Complete a level
// @Description Grade submitted answers, record progress and award XP
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param characterId path string true "Character ID"
// @Param levelId path string true "Level ID"
// @Param completeRequest body dto.CompleteLevelRequest true "Submitted answers keyed by quiz ID"
// @Success 200 {object} shared.Response{data=dto.CompleteLevelResponse}
// @Router /api/characters/{characterId}/levels/{levelId}/complete [post]
func (h *UserHandler) CompleteLevel(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	characterID := c.Params("characterId")
	levelID := c.Params("levelId")

	var req dto.CompleteLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.userSvc.CompleteLevel(userID, characterID, levelID, req.Answers)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Level completed", resp)
}
