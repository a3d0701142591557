package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/service"
	"github.com/petstoryclub/petstory-backend/internal/errors"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

type UpdateRoleRequest struct {
	Role model.UserRole `json:"role" binding:"required"`
}

// GetMe returns (and auto-provisions) the caller's profile
// GET /api/v1/me
func (ctrl *ProfileController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := ctrl.profileService.GetOrCreateProfile(userID)
	if err != nil {
		log.Error("Failed to load profile", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}

// UpdateMe updates the caller's profile fields
// PUT /api/v1/me
func (ctrl *ProfileController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var input service.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "ข้อมูลโปรไฟล์ไม่ถูกต้อง")
		return
	}

	profile, err := ctrl.profileService.UpdateProfile(userID, input)
	if err != nil {
		if stderrors.Is(err, service.ErrProfileNotFound) {
			errors.NotFound(c, errors.ResourceNotFound, "ไม่พบโปรไฟล์")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}

// ListUsers returns every profile for the admin console
// GET /api/v1/admin/users
func (ctrl *ProfileController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.profileService.ListUsers()
	if err != nil {
		log.Error("Failed to list users", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// UpdateUserRole promotes or demotes a user
// PATCH /api/v1/admin/users/:id/role
func (ctrl *ProfileController) UpdateUserRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "สิทธิ์ผู้ใช้ไม่ถูกต้อง")
		return
	}

	if err := ctrl.profileService.UpdateUserRole(adminID, id, req.Role); err != nil {
		if stderrors.Is(err, service.ErrProfileNotFound) {
			errors.NotFound(c, errors.ResourceNotFound, "ไม่พบผู้ใช้")
			return
		}
		if stderrors.Is(err, service.ErrInvalidRole) {
			errors.BadRequest(c, errors.ValidationInvalidInput, "ไม่สามารถกำหนดสิทธิ์นี้ได้")
			return
		}
		log.Error("Failed to update user role", err, map[string]interface{}{
			"target_user_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	log.Info("User role updated", map[string]interface{}{
		"admin_id":       adminID,
		"target_user_id": id,
		"role":           req.Role,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "อัปเดตสิทธิ์ผู้ใช้แล้ว",
	})
}
