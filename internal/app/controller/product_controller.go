package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/internal/app/service"
	"github.com/petstoryclub/petstory-backend/internal/errors"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "รหัสไม่ถูกต้อง")
		return 0, false
	}
	return uint(id), true
}

// ListProducts returns the storefront catalog
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		FeaturedOnly: c.Query("featured") == "true",
		ActiveOnly:   true,
		SortBy:       repository.ProductSort(c.Query("sort")),
	}

	if maxPriceStr := c.Query("max_price"); maxPriceStr != "" {
		maxPrice, err := strconv.ParseFloat(maxPriceStr, 64)
		if err != nil || maxPrice < 0 {
			errors.BadRequest(c, errors.ValidationInvalidRange, "ราคาสูงสุดไม่ถูกต้อง")
			return
		}
		filter.MaxPrice = &maxPrice
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductBySlug returns one product for the detail page
// GET /api/v1/products/:slug
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.productService.GetProductBySlug(c.Param("slug"))
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "ไม่พบสินค้า")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": c.Param("slug"),
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// ListAllProducts returns the full catalog including inactive products
// GET /api/v1/admin/products
func (ctrl *ProductController) ListAllProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		SortBy:       repository.ProductSort(c.Query("sort")),
	}

	products, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products for admin", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// CreateProduct creates a product
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "ข้อมูลสินค้าไม่ถูกต้อง")
		return
	}

	product, err := ctrl.productService.CreateProduct(input)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidPrice) {
			errors.BadRequest(c, errors.ValidationInvalidRange, "ราคาต้องไม่ติดลบ")
			return
		}
		info := errors.ParseError(err, "product")
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		if info.Code == errors.ProductSlugExists {
			errors.Conflict(c, info.Code, info.Message)
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "ข้อมูลสินค้าไม่ถูกต้อง")
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, input)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "ไม่พบสินค้า")
			return
		}
		if stderrors.Is(err, service.ErrInvalidPrice) {
			errors.BadRequest(c, errors.ValidationInvalidRange, "ราคาต้องไม่ติดลบ")
			return
		}
		info := errors.ParseError(err, "product")
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		if info.Code == errors.ProductSlugExists {
			errors.Conflict(c, info.Code, info.Message)
			return
		}
		errors.InternalError(c, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a product and its images
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "ไม่พบสินค้า")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "ลบสินค้าเรียบร้อยแล้ว",
	})
}

// UploadProductImages replaces the product's image set
// POST /api/v1/admin/products/:id/images
func (ctrl *ProductController) UploadProductImages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "ไม่พบไฟล์รูปภาพ")
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		errors.BadRequest(c, errors.ValidationRequired, "กรุณาเลือกรูปภาพอย่างน้อย 1 รูป")
		return
	}

	uploads := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			log.Error("Failed to open uploaded file", err, map[string]interface{}{
				"filename": fh.Filename,
			})
			errors.BadRequest(c, errors.UploadFailed, "อ่านไฟล์ไม่สำเร็จ")
			return
		}
		defer f.Close()

		uploads = append(uploads, service.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	product, err := ctrl.productService.ReplaceProductImages(c.Request.Context(), id, uploads)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "ไม่พบสินค้า")
			return
		}
		if stderrors.Is(err, service.ErrInvalidUpload) {
			errors.BadRequest(c, errors.UploadInvalidFileType, "ไฟล์ต้องเป็นรูปภาพขนาดไม่เกิน 5MB")
			return
		}
		log.Error("Failed to replace product images", err, map[string]interface{}{
			"product_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
