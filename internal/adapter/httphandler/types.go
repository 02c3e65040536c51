package httphandler

type (
	Product struct {
		ID          int64    `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Images      []string `json:"images"`
	}

	Cart struct {
		Lines     []CartLine `json:"lines"`
		ItemCount int        `json:"item_count"`
		Total     float64    `json:"total"`
	}

	CartLine struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Qty      int     `json:"qty"`
		Subtotal float64 `json:"subtotal"`
	}
)

type (
	AddItemRequest struct {
		ID  int64    `json:"id"`
		Qty *float64 `json:"qty"`
	}

	SetQuantityRequest struct {
		Qty float64 `json:"qty"`
	}

	AddItemResponse struct {
		Added bool `json:"added"`
		Cart  Cart `json:"cart"`
	}
)

type (
	CheckoutRequest struct {
		Fields map[string]string `json:"fields"`
	}

	CheckoutResponse struct {
		Completed bool         `json:"completed"`
		Errors    []FieldError `json:"errors,omitempty"`
	}

	FieldError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
)

type ErrorResponse struct {
	Error string `json:"error"`
}
