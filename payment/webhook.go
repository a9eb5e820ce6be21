package payment

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/shopspring/decimal"
)

var ErrMalformedWebhook = errors.New("malformed payment webhook")

// signedFields are hashed, in this order, after the secret to form tran_check.
var signedFields = []string{
	"tran_store", "tran_type", "tran_class", "tran_test", "tran_ref",
	"tran_prevref", "tran_firstref", "tran_order", "tran_currency",
	"tran_amount", "tran_cartid", "tran_desc", "tran_status",
	"tran_authcode", "tran_authmessage",
}

// Sign computes the tran_check value for form.
func Sign(secret string, form url.Values) string {
	parts := make([]string, 0, len(signedFields)+1)
	parts = append(parts, secret)
	for _, f := range signedFields {
		parts = append(parts, strings.TrimSpace(form.Get(f)))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

func VerifyWebhook(secret string, form url.Values) bool {
	provided := strings.ToLower(strings.TrimSpace(form.Get("tran_check")))
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(Sign(secret, form)), []byte(provided)) == 1
}

type Webhook struct {
	CartID   string
	Ref      string
	Approved bool
	Status   string
	Message  string
	Amount   decimal.Decimal
	Currency string
	Method   string
	Customer Customer
	Address  models.ShippingAddress
}

// ParseWebhook reads a Telr transaction advice. tran_status "A" means authorised.
func ParseWebhook(form url.Values) (Webhook, error) {
	get := func(k string) string { return strings.TrimSpace(form.Get(k)) }

	w := Webhook{
		CartID:   get("tran_cartid"),
		Ref:      get("tran_ref"),
		Status:   get("tran_status"),
		Message:  get("tran_authmessage"),
		Currency: get("tran_currency"),
		Method:   get("card_payment"),
	}
	if w.CartID == "" {
		return w, errors.Join(ErrMalformedWebhook, errors.New("missing tran_cartid"))
	}
	w.Approved = strings.EqualFold(w.Status, "A")
	if w.Approved && w.Ref == "" {
		return w, errors.Join(ErrMalformedWebhook, errors.New("approved transaction without tran_ref"))
	}
	if raw := get("tran_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return w, errors.Join(ErrMalformedWebhook, err)
		}
		w.Amount = amount
	}
	if w.Method == "" {
		w.Method = "card"
	}

	w.Address = models.ShippingAddress{
		FirstName: get("bill_fname"),
		LastName:  get("bill_sname"),
		Address:   get("bill_addr1"),
		Locality:  get("bill_addr2"),
		City:      get("bill_city"),
		Region:    get("bill_region"),
		Country:   get("bill_country"),
		Phone:     get("bill_phone1"),
		Email:     get("bill_email"),
	}
	w.Customer = Customer{
		Name:  w.Address.FullName(),
		Email: w.Address.Email,
		Phone: w.Address.Phone,
	}
	return w, nil
}

// Confirmation converts an advice into the input order creation expects.
func (w Webhook) Confirmation() Confirmation {
	status := models.PaymentStatusFailed
	if w.Approved {
		status = models.PaymentStatusPaid
	}
	return Confirmation{Ref: w.Ref, Status: status, Amount: w.Amount, Method: w.Method}
}
