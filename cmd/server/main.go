package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/routes"
)

func main() {
	config.Load()

	if config.App.StripeSecretKey != "" {
		stripe.Key = config.App.StripeSecretKey
		log.Println("✅ Stripe initialisé")
	} else {
		log.Println("⚠️ STRIPE_SECRET_KEY absent : vérification des paiements désactivée")
	}

	database.ConnectDatabases()
	defer database.Close()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.App.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.ErrorHandler())

	routes.RegisterRoutes(r)

	log.Println("🚀 Serveur Velora lancé sur le port", config.App.Port)
	if err := r.Run(":" + config.App.Port); err != nil {
		log.Fatal("❌ Serveur arrêté :", err)
	}
}
