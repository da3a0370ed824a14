package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grdlib/feedback-api/internal/models"
	"github.com/grdlib/feedback-api/internal/service"
	appErrors "github.com/grdlib/feedback-api/pkg/errors"
	"github.com/grdlib/feedback-api/pkg/response"
)

// UserHandler wires the student login and admin management endpoints.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Login godoc
// @Summary Student login
// @Description Signs in a student by institutional email
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body models.UserLoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// CreateAdmin godoc
// @Summary Create admin account
// @Description Registers a new admin account
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body models.CreateAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/accounts [post]
func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admin payload"))
		return
	}

	admin, err := h.service.CreateAdmin(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, models.UserInfo{ID: admin.ID, Email: admin.Email, Role: admin.Role})
}

// DeleteAdmin godoc
// @Summary Delete admin account
// @Description Removes an admin account by email
// @Tags Admins
// @Produce json
// @Param email path string true "Admin email"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/accounts/{email} [delete]
func (h *UserHandler) DeleteAdmin(c *gin.Context) {
	if err := h.service.DeleteAdmin(c.Request.Context(), c.Param("email"), actorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AdminLastLogins godoc
// @Summary Admin last logins
// @Description Lists every admin with its last login timestamp
// @Tags Admins
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/accounts/last-logins [get]
func (h *UserHandler) AdminLastLogins(c *gin.Context) {
	logins, err := h.service.AdminLastLogins(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logins, nil)
}
