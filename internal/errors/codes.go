package errors

// Error code constants, CATEGORY_SPECIFIC_DETAIL. The storefront maps these
// codes to localized messages; the message field carries a Thai default.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_ / CATEGORY_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductSlugExists  = "PRODUCT_SLUG_EXISTS"
	ProductInactive    = "PRODUCT_INACTIVE"
	CategoryNotFound   = "CATEGORY_NOT_FOUND"
	CategorySlugExists = "CATEGORY_SLUG_EXISTS"

	// ==================== Cart (CART_) ====================
	CartItemNotFound      = "CART_ITEM_NOT_FOUND"
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK"
	CartSizeRequired      = "CART_SIZE_REQUIRED"
	CartInvalidSize       = "CART_INVALID_SIZE"
	CartEmpty             = "CART_EMPTY"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderIncompleteAddress = "ORDER_INCOMPLETE_ADDRESS"
	OrderInvalidPayment    = "ORDER_INVALID_PAYMENT"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"

	// ==================== Payments (PAYMENT_) ====================
	PaymentInvalidAmount    = "PAYMENT_INVALID_AMOUNT"
	PaymentTargetNotSet     = "PAYMENT_TARGET_NOT_SET"
	PaymentInvalidPromptPay = "PAYMENT_INVALID_PROMPTPAY"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
