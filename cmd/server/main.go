package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"shopmall_back_end/internal/config"
	"shopmall_back_end/internal/database"
	"shopmall_back_end/internal/routes"
	"shopmall_back_end/internal/store"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY manquante — le paiement côté widget sera indisponible")
	} else {
		log.Println("✅ Stripe initialisé")
	}

	database.ConnectDatabases()

	if err := store.Init(); err != nil {
		log.Fatalf("❌ Échec initialisation des stores: %v", err)
	}

	r := gin.Default()
	routes.RegisterRoutes(r)

	port := config.Get("PORT", "8080")
	log.Println("🚀 Serveur boutique lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Serveur arrêté: %v", err)
	}
}
