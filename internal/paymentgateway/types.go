package paymentgateway

// CreateOrderRequest — тело запроса на создание заказа в шлюзе.
// Сумма передаётся в минимальных единицах валюты.
type CreateOrderRequest struct {
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"` // наш ID заявки, для сверки на стороне шлюза
}

// CreateOrderResponse — ответ шлюза на создание заказа.
type CreateOrderResponse struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}
