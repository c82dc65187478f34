package domain

// Contact holds the owner contact constants rendered into replies.
type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// WhatsAppLink returns the wa.me link for the contact phone.
func (c Contact) WhatsAppLink() string {
	return "https://wa.me/" + c.Phone
}
