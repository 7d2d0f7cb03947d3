package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// ProductFetch abstrait la lecture d'un produit pour la vérification de
// stock (et permet de tester les messages sans base).
type ProductFetch func(ctx context.Context, id primitive.ObjectID) (*models.Product, error)

// FetchProduct lit le produit dans la collection products.
func FetchProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := database.Products().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ShortageMessage décrit la pénurie d'un produit : nom, reste en stock
// quand il y en a, et l'instruction de réduire la quantité demandée.
// À stock zéro, pas de mention du reste.
func ShortageMessage(name string, stock, quantity int) string {
	if stock > 0 {
		return fmt.Sprintf("%s est en rupture de stock, il n'en reste que ( %d ). Veuillez réduire la quantité demandée ( %d ) et réessayer.", name, stock, quantity)
	}
	return fmt.Sprintf("%s est en rupture de stock.", name)
}

// OutOfStockMessages vérifie chaque ligne de commande et collecte les
// messages de pénurie. Liste vide = tout est disponible. Une quantité
// nulle ou négative est refusée d'emblée : laissée passer, elle
// traverserait la garde stock >= quantité et gonflerait l'inventaire
// au décrément.
func OutOfStockMessages(ctx context.Context, items []models.OrderItem, fetch ProductFetch) ([]string, error) {
	var shortages []string

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperror.BadRequest(fmt.Sprintf("Quantité invalide pour l'article %s.", item.Name))
		}
		product, err := fetch(ctx, item.Product)
		if err != nil {
			return nil, err
		}
		if product == nil {
			shortages = append(shortages, fmt.Sprintf("Produit introuvable pour l'article %s.", item.Name))
			continue
		}
		if product.Stock < item.Quantity {
			shortages = append(shortages, ShortageMessage(product.Name, product.Stock, item.Quantity))
		}
	}
	return shortages, nil
}

// CombineShortages assemble les pénuries en un seul message, numéroté
// dès qu'il y en a plusieurs.
func CombineShortages(shortages []string) string {
	if len(shortages) == 0 {
		return ""
	}
	if len(shortages) == 1 {
		return shortages[0]
	}

	numbered := make([]string, len(shortages))
	for i, msg := range shortages {
		numbered[i] = fmt.Sprintf("%d:- %s", i+1, msg)
	}
	return strings.Join(numbered, ", ")
}

// CheckStock renvoie une erreur 400 décrivant toutes les pénuries, ou nil
// si la commande entière est servable. Aucune mutation n'a lieu ici.
func CheckStock(ctx context.Context, items []models.OrderItem) error {
	shortages, err := OutOfStockMessages(ctx, items, FetchProduct)
	if err != nil {
		return err
	}
	if msg := CombineShortages(shortages); msg != "" {
		return apperror.BadRequest(msg)
	}
	return nil
}

// FulfillOrder décrémente le stock de chaque ligne au passage en livraison.
// Tous les décréments tournent dans une seule transaction Mongo, chacun
// gardé par stock >= quantité : une pénurie apparue entre la vérification
// et la livraison annule toute la transition, jamais un stock négatif.
// Un produit supprimé entre-temps est ignoré (décrément sans objet).
func FulfillOrder(ctx context.Context, order *models.Order) error {
	session, err := database.Mongo.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, item := range order.OrderItems {
			if err := decrementStock(sc, order.ID, item); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func decrementStock(ctx context.Context, orderID primitive.ObjectID, item models.OrderItem) error {
	after := options.After
	var updated models.Product

	err := database.Products().FindOneAndUpdate(ctx,
		bson.M{"_id": item.Product, "stock": bson.M{"$gte": item.Quantity}},
		bson.M{"$inc": bson.M{"stock": -item.Quantity}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&updated)

	if errors.Is(err, mongo.ErrNoDocuments) {
		product, ferr := FetchProduct(ctx, item.Product)
		if ferr != nil {
			return ferr
		}
		if product == nil {
			// Produit disparu entre validation et livraison : no-op.
			return nil
		}
		return apperror.BadRequest(ShortageMessage(product.Name, product.Stock, item.Quantity))
	}
	if err != nil {
		return err
	}

	movement := models.StockMovement{
		ProductID: item.Product,
		Type:      "sale",
		Quantity:  item.Quantity,
		PrevStock: updated.Stock + item.Quantity,
		NewStock:  updated.Stock,
		OrderID:   orderID,
		CreatedAt: time.Now(),
	}
	_, err = database.StockMovements().InsertOne(ctx, movement)
	return err
}
