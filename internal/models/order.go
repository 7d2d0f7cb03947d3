package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
)

type ShippingInfo struct {
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	PhoneNo string `bson:"phoneNo" json:"phoneNo"`
	Country string `bson:"country" json:"country"`
	PinCode int    `bson:"pinCode" json:"pinCode"`
}

// OrderItem fige nom, prix et image du produit au moment de la commande,
// tout en gardant la référence vers le document produit vivant.
type OrderItem struct {
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Image    string             `bson:"image" json:"image"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
}

type PaymentInfo struct {
	ID     string `bson:"id" json:"id"`
	Status string `bson:"status" json:"status"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShippingInfo  ShippingInfo       `bson:"shippingInfo" json:"shippingInfo"`
	OrderItems    []OrderItem        `bson:"orderItems" json:"orderItems"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	PaymentInfo   PaymentInfo        `bson:"paymentInfo" json:"paymentInfo"`
	PaidAt        time.Time          `bson:"paidAt" json:"paidAt"`
	ItemPrice     float64            `bson:"itemPrice" json:"itemPrice"`
	TaxPrice      float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	OrderStatus   string             `bson:"orderStatus" json:"orderStatus"`
	DeliveredAt   time.Time          `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsDelivered indique si la commande a atteint son état terminal :
// plus aucune modification ni annulation n'est alors permise.
func (o *Order) IsDelivered() bool {
	return o.OrderStatus == OrderStatusDelivered
}

// ValidStatus vérifie qu'un statut demandé fait partie de l'énumération.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}
