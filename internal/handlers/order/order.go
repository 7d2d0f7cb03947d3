package order

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
	"velora_back_end/internal/services"
)

const defaultDeliveryDelay = 7 * 24 * time.Hour

type createOrderInput struct {
	ShippingInfo models.ShippingInfo `json:"shippingInfo"`
	OrderItems   []models.OrderItem  `json:"orderItems"`
	PaymentInfo  models.PaymentInfo  `json:"paymentInfo"`
	ItemPrice    float64             `json:"itemPrice"`
	TaxPrice     float64             `json:"taxPrice"`
	ShippingPrice float64            `json:"shippingPrice"`
	TotalPrice   float64             `json:"totalPrice"`
}

// CreateOrder crée une commande après vérification du stock et du paiement.
func CreateOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Error(apperror.Unauthorized("Connectez-vous d'abord pour accéder à cette ressource"))
		return
	}

	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Données de commande invalides"))
		return
	}
	if len(input.OrderItems) == 0 {
		c.Error(apperror.BadRequest("Aucun article dans la commande"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := services.CheckStock(ctx, input.OrderItems); err != nil {
		c.Error(err)
		return
	}
	if err := services.VerifyPayment(input.PaymentInfo); err != nil {
		c.Error(err)
		return
	}

	now := time.Now()
	order := models.Order{
		ID:            primitive.NewObjectID(),
		ShippingInfo:  input.ShippingInfo,
		User:          user.ID,
		OrderItems:    input.OrderItems,
		PaymentInfo:   input.PaymentInfo,
		PaidAt:        now,
		ItemPrice:     input.ItemPrice,
		TaxPrice:      input.TaxPrice,
		ShippingPrice: input.ShippingPrice,
		TotalPrice:    input.TotalPrice,
		OrderStatus:   models.OrderStatusProcessing,
		DeliveredAt:   now.Add(defaultDeliveryDelay),
		CreatedAt:     now,
	}

	if _, err := database.Orders().InsertOne(ctx, order); err != nil {
		c.Error(apperror.Internal("Impossible de créer la commande"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   order,
	})
}

// GetMyOrders renvoie les commandes de l'utilisateur connecté.
func GetMyOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Error(apperror.Unauthorized("Connectez-vous d'abord pour accéder à cette ressource"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.Orders().Find(ctx, bson.M{"user": user.ID})
	if err != nil {
		c.Error(apperror.Internal("Impossible de récupérer les commandes"))
		return
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.Error(apperror.Internal("Impossible de récupérer les commandes"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"totalOrders": len(orders),
		"orders":      orders,
	})
}

type updateMyOrderInput struct {
	ShippingInfo *models.ShippingInfo `json:"shippingInfo"`
	OrderItems   []models.OrderItem   `json:"orderItems"`
}

// UpdateMyOrder permet au client de modifier sa commande tant qu'elle
// n'a pas été livrée.
func UpdateMyOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Error(apperror.Unauthorized("Connectez-vous d'abord pour accéder à cette ressource"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Identifiant de commande invalide"))
		return
	}

	var input updateMyOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Données de commande invalides"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	order, err := findOrder(ctx, orderID)
	if err != nil {
		c.Error(err)
		return
	}
	if order.User != user.ID {
		c.Error(apperror.Forbidden("Vous n'êtes pas autorisé à modifier cette commande"))
		return
	}
	if order.IsDelivered() {
		c.Error(apperror.BadRequest("Vous avez déjà reçu cette commande"))
		return
	}

	update := bson.M{}
	if input.ShippingInfo != nil {
		update["shippingInfo"] = input.ShippingInfo
	}
	if input.OrderItems != nil {
		if err := services.CheckStock(ctx, input.OrderItems); err != nil {
			c.Error(err)
			return
		}
		update["orderItems"] = input.OrderItems
	}
	if len(update) == 0 {
		c.Error(apperror.BadRequest("Aucune modification fournie"))
		return
	}

	var updated models.Order
	err = database.Orders().FindOneAndUpdate(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": update},
		afterUpdate(),
	).Decode(&updated)
	if err != nil {
		c.Error(apperror.Internal("Impossible de mettre à jour la commande"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   updated,
	})
}

// CancelMyOrder annule une commande non livrée de l'utilisateur connecté.
func CancelMyOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Error(apperror.Unauthorized("Connectez-vous d'abord pour accéder à cette ressource"))
		return
	}

	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Identifiant de commande invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := findOrder(ctx, orderID)
	if err != nil {
		c.Error(err)
		return
	}
	if order.User != user.ID {
		c.Error(apperror.Forbidden("Vous n'êtes pas autorisé à annuler cette commande"))
		return
	}
	if order.IsDelivered() {
		c.Error(apperror.BadRequest("Vous avez déjà reçu cette commande"))
		return
	}

	if _, err := database.Orders().DeleteOne(ctx, bson.M{"_id": order.ID}); err != nil {
		c.Error(apperror.Internal("Impossible d'annuler la commande"))
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAllOrders renvoie toutes les commandes avec le chiffre d'affaires (admin).
func GetAllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.Orders().Find(ctx, bson.M{})
	if err != nil {
		c.Error(apperror.Internal("Impossible de récupérer les commandes"))
		return
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.Error(apperror.Internal("Impossible de récupérer les commandes"))
		return
	}

	var totalAmount float64
	for _, o := range orders {
		totalAmount += o.TotalPrice
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"totalOrders": len(orders),
		"totalAmount": totalAmount,
		"orders":      orders,
	})
}

// GetSingleOrder renvoie une commande par identifiant (admin).
func GetSingleOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Identifiant de commande invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := findOrder(ctx, orderID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

type updateOrderInput struct {
	ShippingInfo  *models.ShippingInfo `json:"shippingInfo"`
	OrderItems    []models.OrderItem   `json:"orderItems"`
	ItemPrice     *float64             `json:"itemPrice"`
	TaxPrice      *float64             `json:"taxPrice"`
	ShippingPrice *float64             `json:"shippingPrice"`
	TotalPrice    *float64             `json:"totalPrice"`
}

// UpdateOrder modifie le contenu d'une commande (admin).
func UpdateOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Identifiant de commande invalide"))
		return
	}

	var input updateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Données de commande invalides"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	order, err := findOrder(ctx, orderID)
	if err != nil {
		c.Error(err)
		return
	}

	update := bson.M{}
	if input.ShippingInfo != nil {
		update["shippingInfo"] = input.ShippingInfo
	}
	if input.OrderItems != nil {
		update["orderItems"] = input.OrderItems
	}
	if input.ItemPrice != nil {
		update["itemPrice"] = *input.ItemPrice
	}
	if input.TaxPrice != nil {
		update["taxPrice"] = *input.TaxPrice
	}
	if input.ShippingPrice != nil {
		update["shippingPrice"] = *input.ShippingPrice
	}
	if input.TotalPrice != nil {
		update["totalPrice"] = *input.TotalPrice
	}
	if len(update) == 0 {
		c.Error(apperror.BadRequest("Aucune modification fournie"))
		return
	}

	var updated models.Order
	err = database.Orders().FindOneAndUpdate(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": update},
		afterUpdate(),
	).Decode(&updated)
	if err != nil {
		c.Error(apperror.Internal("Impossible de mettre à jour la commande"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   updated,
	})
}

// CancelOrder supprime une commande non livrée (admin).
func CancelOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Identifiant de commande invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := findOrder(ctx, orderID)
	if err != nil {
		c.Error(err)
		return
	}
	if order.IsDelivered() {
		c.Error(apperror.BadRequest("Vous avez déjà reçu cette commande"))
		return
	}

	if _, err := database.Orders().DeleteOne(ctx, bson.M{"_id": order.ID}); err != nil {
		c.Error(apperror.Internal("Impossible d'annuler la commande"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Commande annulée",
	})
}

type updateStatusInput struct {
	Status string `json:"status"`
}

// UpdateStatus fait avancer le statut d'une commande. Le stock n'est
// décrémenté qu'au passage en "Delivered", dans une transaction.
func UpdateStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("Identifiant de commande invalide"))
		return
	}

	var input updateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Status == "" {
		c.Error(apperror.BadRequest("Statut de commande manquant"))
		return
	}
	if !models.ValidOrderStatus(input.Status) {
		c.Error(apperror.BadRequest("Statut de commande invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 20*time.Second)
	defer cancel()

	order, err := findOrder(ctx, orderID)
	if err != nil {
		c.Error(err)
		return
	}
	if order.IsDelivered() {
		c.Error(apperror.BadRequest("Cette commande a déjà été livrée"))
		return
	}

	update := bson.M{"orderStatus": input.Status}
	if input.Status == models.OrderStatusDelivered {
		if err := services.CheckStock(ctx, order.OrderItems); err != nil {
			c.Error(err)
			return
		}
		if err := services.FulfillOrder(ctx, order); err != nil {
			c.Error(err)
			return
		}
		update["deliveredAt"] = time.Now()
	}

	var updated models.Order
	err = database.Orders().FindOneAndUpdate(ctx,
		bson.M{"_id": order.ID},
		bson.M{"$set": update},
		afterUpdate(),
	).Decode(&updated)
	if err != nil {
		c.Error(apperror.Internal("Impossible de mettre à jour la commande"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Statut de la commande mis à jour",
		"order":   updated,
	})
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	after := options.After
	return options.FindOneAndUpdate().SetReturnDocument(after)
}

func findOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := database.Orders().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Commande introuvable")
	}
	if err != nil {
		return nil, apperror.Internal("Impossible de récupérer la commande")
	}
	return &order, nil
}
