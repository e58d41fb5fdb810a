package notify

import "html/template"

type emailItem struct {
	Name     string
	Quantity int
	Subtotal string
}

type emailData struct {
	Spanish     bool
	Company     string
	OrderNumber string
	Customer    string
	Email       string
	Street      string
	HouseNumber string
	Zone        string
	Phone       string
	Notes       string
	Items       []emailItem
	Total       string
}

var customerTemplate = template.Must(template.New("customer").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif">
{{if .Spanish}}<h2>¡Gracias por tu pedido, {{.Customer}}!</h2>
<p>Hemos recibido tu pedido <strong>#{{.OrderNumber}}</strong>.</p>{{else}}<h2>Thank you for your order, {{.Customer}}!</h2>
<p>We have received your order <strong>#{{.OrderNumber}}</strong>.</p>{{end}}
<table cellpadding="4">
{{range .Items}}<tr><td>{{.Quantity}} x {{.Name}}</td><td align="right">€{{.Subtotal}}</td></tr>
{{end}}<tr><td><strong>Total</strong></td><td align="right"><strong>€{{.Total}}</strong></td></tr>
</table>
<p>{{if .Spanish}}Entrega{{else}}Delivery{{end}}: {{.Street}} {{.HouseNumber}}, {{.Zone}}<br>{{.Phone}}</p>
{{if .Notes}}<p>{{if .Spanish}}Notas{{else}}Notes{{end}}: {{.Notes}}</p>{{end}}
<p>{{.Company}}</p>
</body></html>
`))

var companyTemplate = template.Must(template.New("company").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif">
<h2>Nuevo pedido #{{.OrderNumber}}</h2>
<p>Cliente: {{.Customer}}{{if .Email}} ({{.Email}}){{end}}<br>
Teléfono: {{.Phone}}<br>
Dirección: {{.Street}} {{.HouseNumber}}, {{.Zone}}</p>
{{if .Notes}}<p>Notas: {{.Notes}}</p>{{end}}
<table cellpadding="4">
{{range .Items}}<tr><td>{{.Quantity}} x {{.Name}}</td><td align="right">€{{.Subtotal}}</td></tr>
{{end}}<tr><td><strong>Total</strong></td><td align="right"><strong>€{{.Total}}</strong></td></tr>
</table>
</body></html>
`))

var cancellationTemplate = template.Must(template.New("cancellation").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif">
<h2>Pedido cancelado #{{.OrderNumber}}</h2>
<p>Cliente: {{.Customer}}{{if .Email}} ({{.Email}}){{end}}<br>
Teléfono: {{.Phone}}<br>
Dirección: {{.Street}} {{.HouseNumber}}, {{.Zone}}</p>
<table cellpadding="4">
{{range .Items}}<tr><td>{{.Quantity}} x {{.Name}}</td><td align="right">€{{.Subtotal}}</td></tr>
{{end}}<tr><td><strong>Total</strong></td><td align="right"><strong>€{{.Total}}</strong></td></tr>
</table>
</body></html>
`))
