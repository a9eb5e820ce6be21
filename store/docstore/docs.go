package docstore

import (
	"time"

	"github.com/junaidrashid-git/beauty-api/models"
)

// Firestore has no decimal type, so money crosses this boundary as float64.

type productDoc struct {
	Name            string    `firestore:"name"`
	Description     string    `firestore:"description"`
	OriginalPrice   float64   `firestore:"originalPrice"`
	DiscountedPrice float64   `firestore:"discountedPrice"`
	Category        string    `firestore:"category"`
	CategorySlug    string    `firestore:"categorySlug"`
	Quantity        int       `firestore:"quantity"`
	Status          string    `firestore:"status"`
	ImageURL        string    `firestore:"imageUrl"`
	CreatedAt       time.Time `firestore:"createdAt,serverTimestamp"`
	UpdatedAt       time.Time `firestore:"updatedAt,serverTimestamp"`
}

func toProductDoc(p *models.Product) productDoc {
	return productDoc{
		Name:            p.Name,
		Description:     p.Description,
		OriginalPrice:   p.OriginalPrice.InexactFloat64(),
		DiscountedPrice: p.DiscountedPrice.InexactFloat64(),
		Category:        p.Category,
		CategorySlug:    p.CategorySlug,
		Quantity:        p.Quantity,
		Status:          string(p.Status),
		ImageURL:        p.ImageURL,
		CreatedAt:       p.CreatedAt,
	}
}

func (d productDoc) model(id string) models.Product {
	return models.Product{
		ID:              id,
		Name:            d.Name,
		Description:     d.Description,
		OriginalPrice:   money(d.OriginalPrice),
		DiscountedPrice: money(d.DiscountedPrice),
		Category:        d.Category,
		CategorySlug:    d.CategorySlug,
		Quantity:        d.Quantity,
		Status:          models.ProductStatus(d.Status),
		ImageURL:        d.ImageURL,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

type cartItemDoc struct {
	ProductID string    `firestore:"productId"`
	Name      string    `firestore:"name"`
	ImageURL  string    `firestore:"imageUrl"`
	Price     float64   `firestore:"price"`
	Quantity  int       `firestore:"quantity"`
	AddedAt   time.Time `firestore:"addedAt,serverTimestamp"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

func (d cartItemDoc) model(uid, id string) models.CartItem {
	return models.CartItem{
		ID:        id,
		UserID:    uid,
		ProductID: d.ProductID,
		Name:      d.Name,
		ImageURL:  d.ImageURL,
		Price:     money(d.Price),
		Quantity:  d.Quantity,
		AddedAt:   d.AddedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type favoriteDoc struct {
	UserID    string    `firestore:"userId"`
	ProductID string    `firestore:"productId"`
	Name      string    `firestore:"name"`
	ImageURL  string    `firestore:"imageUrl"`
	Price     float64   `firestore:"price"`
	Category  string    `firestore:"category"`
	AddedAt   time.Time `firestore:"addedAt,serverTimestamp"`
}

func (d favoriteDoc) model(id string) models.Favorite {
	return models.Favorite{
		ID:        id,
		UserID:    d.UserID,
		ProductID: d.ProductID,
		Name:      d.Name,
		ImageURL:  d.ImageURL,
		Price:     money(d.Price),
		Category:  d.Category,
		AddedAt:   d.AddedAt,
	}
}

type addressDoc struct {
	FirstName string `firestore:"firstName"`
	LastName  string `firestore:"lastName"`
	Address   string `firestore:"address"`
	City      string `firestore:"city"`
	Region    string `firestore:"region"`
	Locality  string `firestore:"locality"`
	Country   string `firestore:"country"`
	Phone     string `firestore:"phone"`
	Email     string `firestore:"email"`
}

func toAddressDoc(a models.ShippingAddress) addressDoc {
	return addressDoc(a)
}

func (d addressDoc) model() models.ShippingAddress {
	return models.ShippingAddress(d)
}

type orderItemDoc struct {
	ProductID string  `firestore:"productId"`
	Name      string  `firestore:"name"`
	Price     float64 `firestore:"price"`
	Quantity  int     `firestore:"quantity"`
	ImageURL  string  `firestore:"imageUrl"`
}

type orderDoc struct {
	OrderNumber     string         `firestore:"orderNumber"`
	UserID          string         `firestore:"userId"`
	CustomerName    string         `firestore:"customerName"`
	CustomerEmail   string         `firestore:"customerEmail"`
	CustomerPhone   string         `firestore:"customerPhone"`
	ShippingAddress addressDoc     `firestore:"shippingAddress"`
	Items           []orderItemDoc `firestore:"items"`
	TotalAmount     float64        `firestore:"totalAmount"`
	Status          string         `firestore:"status"`
	PaymentStatus   string         `firestore:"paymentStatus"`
	PaymentMethod   string         `firestore:"paymentMethod"`
	PaymentRef      string         `firestore:"paymentRef,omitempty"`
	ShippingMethod  string         `firestore:"shippingMethod"`
	TrackingNumber  string         `firestore:"trackingNumber,omitempty"`
	CreatedAt       time.Time      `firestore:"createdAt"`
	UpdatedAt       time.Time      `firestore:"updatedAt"`
}

func toOrderDoc(o *models.Order) orderDoc {
	d := orderDoc{
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: toAddressDoc(o.ShippingAddress),
		TotalAmount:     o.TotalAmount.InexactFloat64(),
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentMethod:   o.PaymentMethod,
		ShippingMethod:  o.ShippingMethod,
		TrackingNumber:  o.TrackingNumber,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.PaymentRef != nil {
		d.PaymentRef = *o.PaymentRef
	}
	for _, it := range o.Items {
		d.Items = append(d.Items, orderItemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
	}
	return d
}

func (d orderDoc) model(id string) models.Order {
	o := models.Order{
		ID:              id,
		OrderNumber:     d.OrderNumber,
		UserID:          d.UserID,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		CustomerPhone:   d.CustomerPhone,
		ShippingAddress: d.ShippingAddress.model(),
		Items:           []models.OrderItem{},
		TotalAmount:     money(d.TotalAmount),
		Status:          models.OrderStatus(d.Status),
		PaymentStatus:   models.PaymentStatus(d.PaymentStatus),
		PaymentMethod:   d.PaymentMethod,
		ShippingMethod:  d.ShippingMethod,
		TrackingNumber:  d.TrackingNumber,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.PaymentRef != "" {
		ref := d.PaymentRef
		o.PaymentRef = &ref
	}
	for _, it := range d.Items {
		o.Items = append(o.Items, models.OrderItem{
			OrderID:   id,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     money(it.Price),
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
	}
	return o
}

type bookingDoc struct {
	UserID    string    `firestore:"userId"`
	Plan      string    `firestore:"plan"`
	Date      string    `firestore:"date"`
	Time      string    `firestore:"time"`
	Amount    float64   `firestore:"amount"`
	Status    string    `firestore:"status"`
	Notes     string    `firestore:"notes,omitempty"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func (d bookingDoc) model(id string) models.Booking {
	return models.Booking{
		ID:        id,
		UserID:    d.UserID,
		Plan:      d.Plan,
		Date:      d.Date,
		Time:      d.Time,
		Amount:    money(d.Amount),
		Status:    models.BookingStatus(d.Status),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type userDoc struct {
	Email     string     `firestore:"email"`
	Name      string     `firestore:"name"`
	Phone     string     `firestore:"phone"`
	Role      string     `firestore:"role"`
	Address   addressDoc `firestore:"address"`
	CreatedAt time.Time  `firestore:"createdAt"`
	UpdatedAt time.Time  `firestore:"updatedAt"`
}

func (d userDoc) model(id string) models.User {
	return models.User{
		ID:        id,
		Email:     d.Email,
		Name:      d.Name,
		Phone:     d.Phone,
		Role:      d.Role,
		Address:   d.Address.model(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
