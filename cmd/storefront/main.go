package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v83"

	"shopmall_back_end/internal/config"
	"shopmall_back_end/internal/storefront/api"
	"shopmall_back_end/internal/storefront/cart"
	"shopmall_back_end/internal/storefront/checkout"
	"shopmall_back_end/internal/storefront/session"
	"shopmall_back_end/internal/storefront/storage"
)

// Client terminal de la boutique : catalogue, panier persistant,
// tunnel de commande. Le panier vit dans un fichier local partagé
// entre instances, observé pour refléter les modifications externes.
func main() {
	config.Load()

	stripe.Key = config.Get("STRIPE_SECRET_KEY", "")

	baseURL := config.Get("SHOP_API_URL", "http://localhost:8080")
	statePath := config.Get("SHOP_STATE_FILE", "shopmall_state.json")

	store, err := storage.NewFile(statePath, 500*time.Millisecond)
	if err != nil {
		log.Fatalf("❌ Stockage local inaccessible: %v", err)
	}
	defer store.Close()

	cartStore, err := cart.New(store)
	if err != nil {
		log.Fatalf("❌ Panier illisible: %v", err)
	}
	defer cartStore.Close()

	sessionStore, err := session.New(store)
	if err != nil {
		log.Fatalf("❌ Session illisible: %v", err)
	}
	defer sessionStore.Close()

	client := api.NewClient(baseURL)
	if account := sessionStore.Current(); account != nil {
		client.SetToken(account.Token)
		fmt.Printf("👤 Connecté en tant que %s\n", account.Name)
	}

	// Badge de panier : mis à jour sur toute mutation, locale ou
	// venue d'une autre instance.
	cartStore.Subscribe(func(items []cart.Entry) {
		count := 0
		for _, entry := range items {
			count += entry.Quantity
		}
		fmt.Printf("🛒 Panier: %d article(s)\n", count)
	})

	fmt.Println("🚀 Boutique — tapez 'help' pour la liste des commandes")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		run(ctx, cmd, args, client, cartStore, sessionStore, scanner)
		cancel()

		if cmd == "quit" || cmd == "exit" {
			return
		}
	}
}

func run(ctx context.Context, cmd string, args []string, client *api.Client, cartStore *cart.Store, sessionStore *session.Store, scanner *bufio.Scanner) {
	switch cmd {
	case "help":
		fmt.Println(`list                 catalogue complet
search <mots>        recherche
category <nom>       produits d'une catégorie
add <id>             ajouter au panier
qty <id> <n>         changer la quantité
remove <id>          retirer du panier
cart                 contenu et totaux du panier
login <email>        se connecter
logout               se déconnecter
checkout             passer la commande
orders               historique de commandes
quit                 quitter`)

	case "list":
		products, err := client.ListProducts(ctx)
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		for _, p := range products {
			fmt.Printf("  %-12s %-30s %8.2f €  stock %d\n", p.ID, p.Name, p.Price, p.Stock)
		}

	case "search":
		products, err := client.SearchProducts(ctx, strings.Join(args, " "))
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		for _, p := range products {
			fmt.Printf("  %-12s %-30s %8.2f €\n", p.ID, p.Name, p.Price)
		}

	case "category":
		if len(args) != 1 {
			fmt.Println("usage: category <nom>")
			return
		}
		products, err := client.ProductsByCategory(ctx, args[0])
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		for _, p := range products {
			fmt.Printf("  %-12s %-30s %8.2f €\n", p.ID, p.Name, p.Price)
		}

	case "add":
		if len(args) != 1 {
			fmt.Println("usage: add <id>")
			return
		}
		p, err := client.GetProduct(ctx, args[0])
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		if err := cartStore.Add(cart.Entry{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Image:    p.Image,
		}); err != nil {
			fmt.Println("❌", err)
		}

	case "qty":
		if len(args) != 2 {
			fmt.Println("usage: qty <id> <n>")
			return
		}
		var n int
		if _, err := fmt.Sscanf(args[1], "%d", &n); err != nil {
			fmt.Println("usage: qty <id> <n>")
			return
		}
		if err := cartStore.SetQuantity(args[0], n); err != nil {
			fmt.Println("❌", err)
		}

	case "remove":
		if len(args) != 1 {
			fmt.Println("usage: remove <id>")
			return
		}
		if err := cartStore.Remove(args[0]); err != nil {
			fmt.Println("❌", err)
		}

	case "cart":
		for _, entry := range cartStore.Items() {
			fmt.Printf("  %-30s x%-3d %8.2f €\n", entry.Name, entry.Quantity, entry.Price*float64(entry.Quantity))
		}
		totals := cartStore.Totals()
		fmt.Printf("  Sous-total %.2f €  TVA %.2f €  Livraison %.2f €  Total %.2f €\n",
			totals.Subtotal, totals.Tax, totals.Shipping, totals.Total)

	case "login":
		if len(args) != 1 {
			fmt.Println("usage: login <email>")
			return
		}
		fmt.Print("mot de passe: ")
		if !scanner.Scan() {
			return
		}
		resp, err := client.Login(ctx, args[0], strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		if err := sessionStore.SignIn(session.Account{
			ID:       resp.User.ID,
			Email:    resp.User.Email,
			Name:     resp.User.Name,
			UserType: resp.User.UserType,
			Token:    resp.Token,
		}); err != nil {
			fmt.Println("⚠️ Session non persistée:", err)
		}
		fmt.Println("✅", resp.Message)

	case "logout":
		if err := sessionStore.SignOut(); err != nil {
			fmt.Println("❌", err)
			return
		}
		client.SetToken("")
		fmt.Println("✅ Déconnecté")

	case "checkout":
		runCheckout(ctx, client, cartStore, sessionStore, scanner)

	case "orders":
		account := sessionStore.Current()
		if account == nil {
			fmt.Println("❌ Connectez-vous d'abord")
			return
		}
		orders, err := client.OrdersByUser(ctx, account.ID)
		if err != nil {
			fmt.Println("❌", err)
			return
		}
		for _, o := range orders {
			fmt.Printf("  %-30s %-10s %8.2f €  %s\n",
				o.ID, o.Status, o.TotalAmount, o.CreatedAt.Format("2006-01-02 15:04"))
		}

	case "quit", "exit":

	default:
		fmt.Println("commande inconnue, tapez 'help'")
	}
}

func runCheckout(ctx context.Context, client *api.Client, cartStore *cart.Store, sessionStore *session.Store, scanner *bufio.Scanner) {
	if cartStore.Count() == 0 {
		fmt.Println("❌ Le panier est vide")
		return
	}

	flow := checkout.NewFlow(client, cartStore, checkout.StripeGateway{})
	if account := sessionStore.Current(); account != nil {
		flow.SetUser(account.ID)
	}

	ask := func(label string) string {
		fmt.Printf("%s: ", label)
		if !scanner.Scan() {
			return ""
		}
		return strings.TrimSpace(scanner.Text())
	}

	details := checkout.ShippingDetails{
		Name:    ask("Nom"),
		Email:   ask("Email"),
		Phone:   ask("Téléphone"),
		Address: ask("Adresse"),
		City:    ask("Ville"),
		ZipCode: ask("Code postal"),
	}
	if err := flow.SubmitShipping(details); err != nil {
		fmt.Println("❌", err)
		return
	}

	totals := cartStore.Totals()
	fmt.Printf("Total à payer: %.2f € — confirmer ? (o/N) ", totals.Total)
	if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "o" {
		fmt.Println("Commande annulée")
		return
	}

	order, err := flow.Pay(ctx)
	if err != nil {
		if errors.Is(err, checkout.ErrOrderNotSaved) {
			fmt.Println("⚠️", err)
			fmt.Println("⚠️ Conservez la référence ci-dessus et contactez le support.")
			return
		}
		fmt.Println("❌", err)
		return
	}

	fmt.Printf("✅ Commande %s confirmée, total %.2f €\n", order.ID, order.TotalAmount)
}
