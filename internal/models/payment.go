package models

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// RegistrationResultResponse mirrors the checkout return page: one of
// success / error / warning / info plus a human message.
type RegistrationResultResponse struct {
	State   string `json:"state"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
