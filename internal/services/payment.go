package services

import (
	"log"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/config"
	"velora_back_end/internal/models"
)

// VerifyPayment confronte le paymentInfo fourni par le client au
// PaymentIntent Stripe correspondant. Sans clé Stripe configurée (dev),
// le paiement est accepté tel quel.
func VerifyPayment(info models.PaymentInfo) error {
	if info.ID == "" || info.Status == "" {
		return apperror.BadRequest("Informations de paiement manquantes")
	}

	if config.App.StripeSecretKey == "" {
		return nil
	}

	intent, err := paymentintent.Get(info.ID, nil)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		return apperror.BadRequest("Paiement introuvable")
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return apperror.BadRequest("Le paiement n'a pas abouti")
	}
	return nil
}
