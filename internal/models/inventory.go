package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockMovement journalise chaque variation de stock d'un produit.
type StockMovement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Type      string             `bson:"type" json:"type"` // "sale", "restock", "adjustment"
	Quantity  int                `bson:"quantity" json:"quantity"`
	PrevStock int                `bson:"prevStock" json:"prevStock"`
	NewStock  int                `bson:"newStock" json:"newStock"`
	OrderID   primitive.ObjectID `bson:"order,omitempty" json:"order,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
