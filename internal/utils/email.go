package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/skip2/go-qrcode"
	"github.com/wneessen/go-mail"

	"shopmall_back_end/internal/models"
)

// SendOrderConfirmationEmail envoie le récapitulatif de commande au
// client, avec un QR de la référence de paiement en pièce jointe.
func SendOrderConfirmationEmail(order models.Order) error {
	to := order.ShippingAddress.Email
	if to == "" {
		return fmt.Errorf("commande %s sans email de livraison", order.ID)
	}

	msg := mail.NewMsg()
	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(fmt.Sprintf("Confirmation de commande %s", order.ID))
	msg.SetBodyString(mail.TypeTextHTML, buildOrderConfirmationHTML(order))

	if order.PaymentInfo != nil && order.PaymentInfo.Reference != "" {
		png, err := qrcode.Encode(order.PaymentInfo.Reference, qrcode.Medium, 256)
		if err == nil {
			msg.AttachReader("reference_paiement.png", bytes.NewReader(png))
		}
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de la confirmation de commande à", to)
	return client.DialAndSend(msg)
}

func buildOrderConfirmationHTML(order models.Order) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(
			`<tr><td>%s</td><td>%d</td><td>%.2f</td></tr>`,
			item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}

	return fmt.Sprintf(`
		<h2>Merci pour votre commande, %s !</h2>
		<p>Commande <strong>%s</strong> — statut : %s</p>
		<table border="1" cellpadding="6">
			<tr><th>Article</th><th>Quantité</th><th>Total</th></tr>
			%s
		</table>
		<p>Sous-total + taxes : <strong>%.2f</strong> (taxes : %.2f, livraison : %.2f)</p>
		<p>Livraison : %s, %s %s</p>`,
		order.ShippingAddress.Name, order.ID, order.Status, itemsHTML,
		order.TotalAmount, order.Tax, order.ShippingFee,
		order.ShippingAddress.Address, order.ShippingAddress.ZipCode,
		order.ShippingAddress.City)
}
