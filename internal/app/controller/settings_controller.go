package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petstoryclub/petstory-backend/internal/app/service"
	"github.com/petstoryclub/petstory-backend/internal/errors"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
)

type SettingsController struct {
	settingsService service.SettingsService
}

func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{
		settingsService: settingsService,
	}
}

// GetSettings returns site branding and payment instructions. Public: the
// storefront needs it before login.
// GET /api/v1/settings
func (ctrl *SettingsController) GetSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	settings, err := ctrl.settingsService.GetSettings()
	if err != nil {
		log.Error("Failed to load site settings", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UpdateSettings replaces the settings row
// PUT /api/v1/admin/settings
func (ctrl *SettingsController) UpdateSettings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "ข้อมูลการตั้งค่าไม่ถูกต้อง")
		return
	}

	settings, err := ctrl.settingsService.UpdateSettings(input)
	if err != nil {
		log.Error("Failed to update site settings", err, nil)
		errors.InternalError(c, "")
		return
	}

	log.Info("Site settings updated", nil)
	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}

// UploadSiteAsset uploads one branding image (hero_bg, hero_image, logo)
// POST /api/v1/admin/settings/assets/:kind
func (ctrl *SettingsController) UploadSiteAsset(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	kind := c.Param("kind")

	fh, err := c.FormFile("image")
	if err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "กรุณาเลือกรูปภาพ")
		return
	}

	f, err := fh.Open()
	if err != nil {
		errors.BadRequest(c, errors.UploadFailed, "อ่านไฟล์ไม่สำเร็จ")
		return
	}
	defer f.Close()

	settings, err := ctrl.settingsService.UploadSiteAsset(c.Request.Context(), kind, service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidUpload) {
			errors.BadRequest(c, errors.UploadInvalidFileType, "ชนิดไฟล์หรือช่องอัปโหลดไม่ถูกต้อง")
			return
		}
		log.Error("Failed to upload site asset", err, map[string]interface{}{
			"kind": kind,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"settings": settings,
	})
}
