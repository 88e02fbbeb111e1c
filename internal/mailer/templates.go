package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"samarithanna-api/internal/model"
)

// Errores de renderizado
var (
	ErrUnknownKind     = errors.New("tipo de correo desconocido")
	ErrMissingOrder    = errors.New("el correo requiere una orden")
	ErrMissingDelivery = errors.New("la orden no tiene fecha estimada de entrega")
)

// Asunto e introducción por cada transición del pedido.
var orderKinds = map[string]struct {
	subject string
	intro   string
}{
	KindOrderProcessed:    {"Tu pedido ha sido recibido", "Tu pedido ha sido procesado."},
	KindEstimatedDelivery: {"Fecha de entrega de tu pedido", "Tu pedido está en preparación."},
	KindOrderReady:        {"Tu pedido va en camino", "Tu pedido va en camino."},
	KindOrderDelivered:    {"Tu pedido ha sido entregado", "Tu pedido ha sido entregado."},
}

var orderTmpl = template.Must(template.New("order").Parse(`
<div style="text-align: center;">
  <h1 style="color: #333;">¡Gracias por tu compra!</h1>
  <p>Hola {{.Name}},</p>
  <p>{{.Intro}}</p>
  {{if .ETA}}<p><strong>Fecha estimada de entrega: {{.ETA}}</strong></p>{{end}}
  <h2 style="color: #444;">Pedido {{.OrderID}}</h2>
  <table style="margin: auto; width: 80%; border-collapse: collapse; border: 1px solid #ccc;">
    <thead>
      <tr>
        <th style="border: 1px solid #ddd; padding: 8px; background-color: #f2f2f2;"><strong>Producto</strong></th>
        <th style="border: 1px solid #ddd; padding: 8px; background-color: #f2f2f2;"><strong>Cantidad</strong></th>
        <th style="text-align: right; border: 1px solid #ddd; padding: 8px; background-color: #f2f2f2;"><strong>Precio</strong></th>
      </tr>
    </thead>
    <tbody>
      {{range .Items}}
      <tr>
        <td style="border: 1px solid #ddd; padding: 8px;">{{.Name}}</td>
        <td style="border: 1px solid #ddd; padding: 8px; text-align: center;">{{.Quantity}}</td>
        <td style="border: 1px solid #ddd; padding: 8px; text-align: right;">{{.Price}}</td>
      </tr>
      {{end}}
    </tbody>
    <tfoot>
      <tr>
        <td style="border: 1px solid #ddd; padding: 8px;"></td>
        <td style="border: 1px solid #ddd; padding: 8px; text-align: right;"><strong>Subtotal:</strong></td>
        <td style="text-align: right; border: 1px solid #ddd; padding: 8px;"><strong>{{.Subtotal}}</strong></td>
      </tr>
      {{if .IEPS}}
      <tr>
        <td style="border: 1px solid #ddd; padding: 8px;"></td>
        <td style="border: 1px solid #ddd; padding: 8px; text-align: right;"><strong>IEPS:</strong></td>
        <td style="text-align: right; border: 1px solid #ddd; padding: 8px;"><strong>{{.IEPS}}</strong></td>
      </tr>
      {{end}}
      <tr>
        <td style="border: 1px solid #ddd; padding: 8px;"></td>
        <td style="border: 1px solid #ddd; padding: 8px; text-align: right;"><strong>Total:</strong></td>
        <td style="text-align: right; border: 1px solid #ddd; padding: 8px;"><strong>{{.Total}}</strong></td>
      </tr>
    </tfoot>
  </table>
  <h2 style="color: #444;">Dirección de envío</h2>
  <p>
    {{.Shipping.FullName}},<br/>
    {{.Shipping.Address}},<br/>
    {{.Shipping.City}},<br/>
    {{.Shipping.PostalCode}}</p><br/><br/>
  <p>¡Gracias por tu preferencia!.</p>
  <hr style="border: 1px solid #f2f2f2; width: 80%;">
</div>
`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<div style="text-align: center;">
  <h1 style="color: #333;">¡Bienvenido a Samarithanna!</h1>
  <p>Hola {{.Name}},</p>
  <p>Tu cuenta ha sido creada. En cuanto sea admitida podrás hacer tus pedidos.</p>
  <p>¡Gracias por tu preferencia!.</p>
  <hr style="border: 1px solid #f2f2f2; width: 80%;">
</div>
`))

type itemRow struct {
	Name     string
	Quantity int
	Price    string
}

type orderTemplateData struct {
	Name     string
	Intro    string
	ETA      string
	OrderID  string
	Items    []itemRow
	Subtotal string
	IEPS     string
	Total    string
	Shipping model.ShippingAddress
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Render produce el asunto y el cuerpo HTML de un EmailJob. No modifica la
// orden recibida.
func Render(job EmailJob) (subject, html string, err error) {
	if job.Kind == KindWelcome {
		var buf bytes.Buffer
		if err := welcomeTmpl.Execute(&buf, struct{ Name string }{job.RecipientName}); err != nil {
			return "", "", err
		}
		return "¡Bienvenido a Samarithanna!", buf.String(), nil
	}

	kind, ok := orderKinds[job.Kind]
	if !ok {
		return "", "", ErrUnknownKind
	}
	if job.Order == nil {
		return "", "", ErrMissingOrder
	}

	data := orderTemplateData{
		Name:     job.RecipientName,
		Intro:    kind.intro,
		OrderID:  job.Order.ID.Hex(),
		Subtotal: money(job.Order.Subtotal),
		Total:    money(job.Order.TotalPrice),
		Shipping: job.Order.ShippingAddress,
	}
	if job.Order.IEPS > 0 {
		data.IEPS = money(job.Order.IEPS)
	}
	for _, it := range job.Order.OrderItems {
		data.Items = append(data.Items, itemRow{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    money(it.Price),
		})
	}

	// Solo el correo de fecha estimada exige el campo; si falta es un error
	// de renderizado, no un correo a medias.
	if job.Kind == KindEstimatedDelivery {
		if job.Order.EstimatedDelivery == nil {
			return "", "", ErrMissingDelivery
		}
		data.ETA = job.Order.EstimatedDelivery.Format("02/01/2006")
	}

	var buf bytes.Buffer
	if err := orderTmpl.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return kind.subject, buf.String(), nil
}
