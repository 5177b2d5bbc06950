package pricing

// ServiceQuote стоимость услуги по выбранному тарифному плану
type ServiceQuote struct {
	ServiceID int64   `json:"service_id"`
	PlanID    int64   `json:"plan_id"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
}

// OrderQuote суммарная стоимость набора позиций заказа
type OrderQuote struct {
	ItemIDs    []int64 `json:"item_ids"`
	CategoryID int64   `json:"category_id"`
	Total      float64 `json:"total"`
	Currency   string  `json:"currency"`
}

type orderQuoteRequest struct {
	ItemIDs    []int64 `json:"item_ids"`
	CategoryID int64   `json:"category_id"`
}

// ErrorResponse модель ошибки от PricingService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
