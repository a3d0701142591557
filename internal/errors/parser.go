package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a raw database/transport error into a code and a Thai
// message safe to show the user. context hints at the entity involved
// ("product", "category", "order", ...).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "เกิดข้อผิดพลาดที่เซิร์ฟเวอร์"}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// Unique constraint violation (postgres 23505, sqlite "UNIQUE constraint failed")
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return parseDuplicateKeyError(errStr, context)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStr, "foreign key constraint") {
		if strings.Contains(errStr, "still referenced") {
			return ErrorInfo{Code: ResourceConflict, Message: "ไม่สามารถลบได้ เนื่องจากมีข้อมูลที่เกี่ยวข้องอยู่"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "ไม่พบข้อมูลที่อ้างอิง"}
	}

	// Not-null constraint violation (23502)
	if strings.Contains(errStr, "null value") && strings.Contains(errStr, "not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "ข้อมูลที่จำเป็นไม่ครบถ้วน"}
	}

	// Network / connectivity failures towards the database or object storage
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{Code: InternalExternalAPI, Message: "ไม่สามารถเชื่อมต่อบริการภายนอกได้ กรุณาลองใหม่"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง"}
}

func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	if strings.Contains(errStr, "slug") {
		if strings.Contains(context, "category") {
			return ErrorInfo{Code: CategorySlugExists, Message: "slug หมวดหมู่นี้ถูกใช้แล้ว"}
		}
		return ErrorInfo{Code: ProductSlugExists, Message: "slug สินค้านี้ถูกใช้แล้ว"}
	}
	if strings.Contains(errStr, "pkey") || strings.Contains(errStr, "primary key") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "ข้อมูลนี้มีอยู่แล้ว กรุณาลองใหม่"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "ข้อมูลนี้มีอยู่แล้ว"}
}

func notFoundMessage(context string) string {
	context = strings.ToLower(context)
	switch {
	case strings.Contains(context, "product"):
		return "ไม่พบสินค้า"
	case strings.Contains(context, "category"):
		return "ไม่พบหมวดหมู่"
	case strings.Contains(context, "order"):
		return "ไม่พบคำสั่งซื้อ"
	case strings.Contains(context, "cart"):
		return "ไม่พบสินค้าในตะกร้า"
	case strings.Contains(context, "profile"), strings.Contains(context, "user"):
		return "ไม่พบผู้ใช้"
	}
	return "ไม่พบข้อมูลที่ต้องการ"
}
