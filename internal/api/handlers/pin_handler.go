package handlers

import (
	"FoodShare/domain"
	"FoodShare/internal/api/presenters"
	"FoodShare/pkg/campus"
	"FoodShare/pkg/pin"
	"FoodShare/pkg/projection"
	"FoodShare/pkg/workspace"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PinHandler interface {
		CreatePin(c *fiber.Ctx) error
		GetPins(c *fiber.Ctx) error
		GetMyPins(c *fiber.Ctx) error
		GetPinView(c *fiber.Ctx) error
		GetPin(c *fiber.Ctx) error
		UpdatePin(c *fiber.Ctx) error
		DeletePin(c *fiber.Ctx) error
		ToggleBookmark(c *fiber.Ctx) error
		GetBookmarks(c *fiber.Ctx) error
	}

	pinHandler struct {
		pinService       pin.PinService
		workspaceService workspace.WorkspaceService
		validator        *validator.Validate
	}
)

func NewPinHandler(pinService pin.PinService, workspaceService workspace.WorkspaceService, validator *validator.Validate) PinHandler {
	return &pinHandler{
		pinService:       pinService,
		workspaceService: workspaceService,
		validator:        validator,
	}
}

func (h *pinHandler) CreatePin(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreatePinRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreatePin, err)
	}

	res, err := h.pinService.CreatePin(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedCreatePin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreatePin)
}

// GetPins returns the snapshot of one campus, or of every campus when the
// campus query parameter is absent.
func (h *pinHandler) GetPins(c *fiber.Ctx) error {
	campusID := c.Query("campus")
	var (
		res domain.EventSet
		err error
	)
	if campusID == "" {
		res, err = h.pinService.ListAll(c.Context())
	} else if _, err = campus.Resolve(campusID); err == nil {
		res, err = h.pinService.ListByCampus(c.Context(), campusID)
	}
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetPins, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPins)
}

func (h *pinHandler) GetMyPins(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	res, err := h.pinService.ListMine(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetPins, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPins)
}

func (h *pinHandler) GetPinView(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	tab := projection.ParseTab(c.Query("tab"))
	res, err := h.workspaceService.Project(c.Context(), userID, c.Query("campus"), tab)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetPinView, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPinView)
}

func (h *pinHandler) GetPin(c *fiber.Ctx) error {
	res, err := h.pinService.GetPin(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetPins, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPins)
}

func (h *pinHandler) UpdatePin(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdatePinRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdatePin, err)
	}

	res, err := h.pinService.UpdatePin(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedUpdatePin, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdatePin)
}

func (h *pinHandler) DeletePin(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	if err := h.pinService.DeletePin(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedDeletePin, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeletePin)
}

func (h *pinHandler) ToggleBookmark(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	res, err := h.pinService.ToggleBookmark(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedToggleBookmark, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessToggleBookmark)
}

func (h *pinHandler) GetBookmarks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	ids, err := h.pinService.GetBookmarks(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetBookmarks, err)
	}
	return presenters.SuccessResponse(c, domain.BookmarksResponse{PinIDs: ids}, fiber.StatusOK, domain.MessageSuccessGetBookmarks)
}
