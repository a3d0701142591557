package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petstoryclub/petstory-backend/internal/app/service"
	"github.com/petstoryclub/petstory-backend/internal/errors"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

// ListCategories returns all categories
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategoryBySlug returns one category
// GET /api/v1/categories/:slug
func (ctrl *CategoryController) GetCategoryBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category, err := ctrl.categoryService.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "ไม่พบหมวดหมู่")
			return
		}
		log.Error("Failed to fetch category", err, map[string]interface{}{
			"slug": c.Param("slug"),
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// CreateCategory creates a category
// POST /api/v1/admin/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "ข้อมูลหมวดหมู่ไม่ถูกต้อง")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(input)
	if err != nil {
		info := errors.ParseError(err, "category")
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": input.Name,
		})
		if info.Code == errors.CategorySlugExists {
			errors.Conflict(c, info.Code, info.Message)
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// UpdateCategory updates a category
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "ข้อมูลหมวดหมู่ไม่ถูกต้อง")
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, input)
	if err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "ไม่พบหมวดหมู่")
			return
		}
		info := errors.ParseError(err, "category")
		log.Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		if info.Code == errors.CategorySlugExists {
			errors.Conflict(c, info.Code, info.Message)
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// DeleteCategory removes a category. Its products survive uncategorized.
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "ไม่พบหมวดหมู่")
			return
		}
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	log.Info("Category deleted", map[string]interface{}{
		"category_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "ลบหมวดหมู่เรียบร้อยแล้ว",
	})
}

// UploadCategoryImage sets the category image
// POST /api/v1/admin/categories/:id/image
func (ctrl *CategoryController) UploadCategoryImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

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

	category, err := ctrl.categoryService.SetCategoryImage(c.Request.Context(), id, service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		if stderrors.Is(err, service.ErrCategoryNotFound) {
			errors.NotFound(c, errors.CategoryNotFound, "ไม่พบหมวดหมู่")
			return
		}
		if stderrors.Is(err, service.ErrInvalidUpload) {
			errors.BadRequest(c, errors.UploadInvalidFileType, "ไฟล์ต้องเป็นรูปภาพขนาดไม่เกิน 5MB")
			return
		}
		log.Error("Failed to set category image", err, map[string]interface{}{
			"category_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}
