package handlers

import (
	"FoodShare/domain"
	"FoodShare/internal/api/presenters"
	"FoodShare/pkg/campus"
	"FoodShare/pkg/projection"
	"FoodShare/pkg/workspace"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CampusHandler interface {
		GetCampuses(c *fiber.Ctx) error
		GetCampus(c *fiber.Ctx) error
		RenderMap(c *fiber.Ctx) error
		MapClick(c *fiber.Ctx) error
		PublishSnapshot(c *fiber.Ctx) error
		Workspace(c *fiber.Ctx) error
		Landing(c *fiber.Ctx) error
		CampusPicker(c *fiber.Ctx) error
	}

	campusHandler struct {
		workspaceService workspace.WorkspaceService
		validator        *validator.Validate
	}
)

func NewCampusHandler(workspaceService workspace.WorkspaceService, validator *validator.Validate) CampusHandler {
	return &campusHandler{
		workspaceService: workspaceService,
		validator:        validator,
	}
}

func (h *campusHandler) GetCampuses(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, campus.All(), fiber.StatusOK, domain.MessageSuccessGetCampuses)
}

func (h *campusHandler) GetCampus(c *fiber.Ctx) error {
	res, err := campus.Resolve(c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetCampuses, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCampuses)
}

// RenderMap returns the campus map as a PNG with the caller's visible pins.
func (h *campusHandler) RenderMap(c *fiber.Ctx) error {
	req := workspace.MapRequest{
		CampusID:   c.Params("id"),
		UserID:     c.Locals("user_id").(string),
		Width:      c.QueryInt("width", workspace.DefaultMapWidth),
		Height:     c.QueryInt("height", workspace.DefaultMapHeight),
		SelectedID: c.Query("selected"),
		EditingID:  c.Query("editing"),
	}
	if req.Width < 64 || req.Width > 4096 || req.Height < 64 || req.Height > 4096 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRenderMap, domain.ErrInvalidViewport)
	}

	png, err := h.workspaceService.RenderMap(c.Context(), req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedRenderMap, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).Send(png)
}

func (h *campusHandler) MapClick(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.MapClickRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMapClick, err)
	}

	res, err := h.workspaceService.Click(c.Context(), userID, c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedMapClick, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessMapClick)
}

func (h *campusHandler) PublishSnapshot(c *fiber.Ctx) error {
	res, err := h.workspaceService.PublishSnapshot(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedPublishMap, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessPublishMap)
}

// Workspace serves /map. Anonymous callers are sent to the landing page and
// a missing or unknown campus to the picker.
func (h *campusHandler) Workspace(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	view, selected := h.workspaceService.Route(userID != "", c.Query("campus"))
	if view != campus.ViewMap {
		return c.Redirect(view.Path(), fiber.StatusFound)
	}

	res, err := h.workspaceService.Load(c.Context(), userID, selected, projection.ParseTab(c.Query("tab")))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.StatusFor(err), domain.MessageFailedGetWorkspace, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetWorkspace)
}

func (h *campusHandler) Landing(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	res := domain.PageResponse{View: campus.ViewLanding.String(), Authenticated: userID != ""}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPage)
}

func (h *campusHandler) CampusPicker(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	res := domain.PageResponse{
		View:          campus.ViewCampusPicker.String(),
		Authenticated: userID != "",
		Campuses:      campus.All(),
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPage)
}
