package controller

import (
	stderrors "errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/internal/app/service"
	"github.com/petstoryclub/petstory-backend/internal/errors"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
	"github.com/petstoryclub/petstory-backend/internal/storage"
)

type OrderController struct {
	orderService  service.OrderService
	reportService service.ReportService
	store         *storage.S3Storage
}

func NewOrderController(
	orderService service.OrderService,
	reportService service.ReportService,
	store *storage.S3Storage,
) *OrderController {
	return &OrderController{
		orderService:  orderService,
		reportService: reportService,
		store:         store,
	}
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// CreateOrder converts the cart into an order. The form is multipart so the
// bank transfer slip can ride along; a failed slip upload does not block the
// order.
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	input := service.CheckoutInput{
		ShippingAddress: model.ShippingAddress{
			Name:        c.PostForm("name"),
			Phone:       c.PostForm("phone"),
			AddressLine: c.PostForm("address_line"),
			District:    c.PostForm("district"),
			Province:    c.PostForm("province"),
			PostalCode:  c.PostForm("postal_code"),
		},
		PaymentMethod: c.PostForm("payment_method"),
		Notes:         c.PostForm("notes"),
	}

	if fh, err := c.FormFile("payment_slip"); err == nil {
		if url, uploadErr := ctrl.uploadSlip(c, userID, fh); uploadErr != nil {
			// Slip upload must never block checkout; the customer can
			// re-attach it from the order page.
			log.Warn("Payment slip upload failed, continuing checkout", map[string]interface{}{
				"user_id": userID,
				"error":   uploadErr.Error(),
			})
		} else {
			input.PaymentSlipURL = url
		}
	}

	order, err := ctrl.orderService.CreateOrderFromCart(userID, input)
	if err != nil {
		ctrl.respondCheckoutError(c, err)
		return
	}

	log.Info("Order created", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

func (ctrl *OrderController) uploadSlip(c *gin.Context, userID uint, fh *multipart.FileHeader) (string, error) {
	if err := ctrl.store.ValidateContentType(fh.Header.Get("Content-Type"), storage.AllowedImageTypes); err != nil {
		return "", err
	}
	if err := ctrl.store.ValidateFileSize(fh.Size, storage.MaxUploadSize); err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := storage.PaymentSlipKey(userID, fh.Filename)
	return ctrl.store.Upload(c.Request.Context(), key, fh.Header.Get("Content-Type"), f)
}

// GetOrders returns the user's own orders
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one order with its progress position
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	order, err := ctrl.orderService.GetOrderByID(userID, id, role == model.RoleAdmin)
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "ไม่พบคำสั่งซื้อ")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":          order,
		"progress_index": order.Status.ProgressIndex(),
	})
}

// AttachPaymentSlip adds or replaces the transfer slip on a pending order
// POST /api/v1/orders/:id/slip
func (ctrl *OrderController) AttachPaymentSlip(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("payment_slip")
	if err != nil {
		errors.BadRequest(c, errors.ValidationRequired, "กรุณาแนบสลิปการโอนเงิน")
		return
	}

	if err := ctrl.store.ValidateContentType(fh.Header.Get("Content-Type"), storage.AllowedImageTypes); err != nil {
		errors.BadRequest(c, errors.UploadInvalidFileType, "ไฟล์สลิปต้องเป็นรูปภาพ")
		return
	}
	if err := ctrl.store.ValidateFileSize(fh.Size, storage.MaxUploadSize); err != nil {
		errors.BadRequest(c, errors.UploadFileTooLarge, "ไฟล์สลิปต้องมีขนาดไม่เกิน 5MB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		errors.BadRequest(c, errors.UploadFailed, "อ่านไฟล์ไม่สำเร็จ")
		return
	}
	defer f.Close()

	key := storage.PaymentSlipKey(userID, fh.Filename)
	url, err := ctrl.store.Upload(c.Request.Context(), key, fh.Header.Get("Content-Type"), f)
	if err != nil {
		log.Error("Failed to upload payment slip", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": id,
		})
		errors.InternalError(c, "อัปโหลดสลิปไม่สำเร็จ กรุณาลองใหม่")
		return
	}

	if err := ctrl.orderService.AttachPaymentSlip(userID, id, url); err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "ไม่พบคำสั่งซื้อ")
			return
		}
		if stderrors.Is(err, service.ErrInvalidStatusTransition) {
			errors.BadRequest(c, errors.OrderInvalidTransition, "คำสั่งซื้อนี้ได้รับการยืนยันแล้ว")
			return
		}
		log.Error("Failed to attach payment slip", err, map[string]interface{}{
			"order_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_slip_url": url,
	})
}

// ListOrders returns all orders for the admin console
// GET /api/v1/admin/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.OrderStatus(c.Query("status"))
	orders, err := ctrl.orderService.ListOrders(status)
	if err != nil {
		if stderrors.Is(err, service.ErrInvalidStatusTransition) {
			errors.BadRequest(c, errors.ValidationInvalidInput, "สถานะไม่ถูกต้อง")
			return
		}
		log.Error("Failed to list orders", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus advances or cancels an order
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "สถานะไม่ถูกต้อง")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(id, req.Status)
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "ไม่พบคำสั่งซื้อ")
			return
		}
		if stderrors.Is(err, service.ErrInvalidStatusTransition) {
			errors.BadRequest(c, errors.OrderInvalidTransition, "ไม่สามารถเปลี่ยนสถานะนี้ได้")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// ExportOrders streams the order list as an XLSX workbook
// GET /api/v1/admin/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	status := model.OrderStatus(c.Query("status"))
	f, err := ctrl.reportService.BuildOrdersWorkbook(status)
	if err != nil {
		log.Error("Failed to build orders workbook", err, nil)
		errors.InternalError(c, "สร้างไฟล์รายงานไม่สำเร็จ")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream orders workbook", err, nil)
	}
}

// GetDashboardStats returns the admin dashboard cards
// GET /api/v1/admin/dashboard
func (ctrl *OrderController) GetDashboardStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.orderService.GetDashboardStats()
	if err != nil {
		log.Error("Failed to compute dashboard stats", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

func (ctrl *OrderController) respondCheckoutError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrCartEmpty):
		errors.BadRequest(c, errors.CartEmpty, "ตะกร้าของคุณว่างเปล่า")
	case stderrors.Is(err, service.ErrIncompleteAddress):
		errors.BadRequest(c, errors.OrderIncompleteAddress, "กรุณากรอกชื่อ เบอร์โทร ที่อยู่ และรหัสไปรษณีย์")
	case stderrors.Is(err, service.ErrInvalidPaymentMethod):
		errors.BadRequest(c, errors.OrderInvalidPayment, "วิธีชำระเงินไม่ถูกต้อง")
	case stderrors.Is(err, service.ErrProductNotFound):
		errors.BadRequest(c, errors.ProductInactive, "สินค้าบางรายการไม่พร้อมจำหน่ายแล้ว")
	default:
		log.Error("Checkout failed", err, nil)
		errors.InternalError(c, "สั่งซื้อไม่สำเร็จ กรุณาลองใหม่อีกครั้ง")
	}
}
