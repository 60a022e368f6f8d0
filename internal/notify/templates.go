package notify

import "html/template"

type confirmationData struct {
	StoreName    string
	CustomerName string
	OrderNumber  string
	Total        float64
	Items        []Item
}

type contactData struct {
	StoreName string
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
}

type shippedData struct {
	StoreName         string
	CustomerName      string
	OrderNumber       string
	TrackingNumber    string
	Carrier           string
	EstimatedDelivery string
}

var confirmationTmpl = template.Must(template.New("orderConfirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #ddd; border-radius: 8px; overflow: hidden;">
  <div style="background-color: #2c3e50; color: white; padding: 20px;">
    <h2 style="margin: 0;">Order Confirmation</h2>
    <p style="margin: 10px 0 0 0; font-size: 14px;">Order Number: {{.OrderNumber}}</p>
  </div>
  <div style="padding: 20px;">
    <p>Dear {{.CustomerName}},</p>
    <p>Thank you for your order! We have received it and will process it shortly.</p>
    <h3 style="margin-top: 30px; color: #2c3e50;">Order Details</h3>
    <table style="width: 100%; border-collapse: collapse; margin: 15px 0;">
      <thead>
        <tr style="background-color: #f5f5f5;">
          <th style="padding: 10px; text-align: left; border-bottom: 2px solid #ddd;">Item</th>
          <th style="padding: 10px; text-align: center; border-bottom: 2px solid #ddd;">Qty</th>
          <th style="padding: 10px; text-align: right; border-bottom: 2px solid #ddd;">Price</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Name}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: center;">{{.Quantity}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: right;">&#8358;{{printf "%.2f" .Price}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
    <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">
      <p style="margin: 0;">
        <strong>Order Total:</strong>
        <strong style="color: #27ae60; font-size: 18px;">&#8358;{{printf "%.2f" .Total}}</strong>
      </p>
    </div>
    <p style="margin-top: 30px; color: #666; font-size: 14px;">
      We will send you a tracking number once your order is shipped. If you have any
      questions, please don't hesitate to contact us.
    </p>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; text-align: center; font-size: 12px; color: #666; border-top: 1px solid #ddd;">
    <p style="margin: 0;">&copy; 2025 {{.StoreName}}. All rights reserved.</p>
  </div>
</div>
`))

var contactTmpl = template.Must(template.New("contactMessage").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #ddd; border-radius: 8px; overflow: hidden;">
  <div style="background-color: #2c3e50; color: white; padding: 20px;">
    <h2 style="margin: 0;">New Contact Message from {{.StoreName}} Website</h2>
  </div>
  <div style="padding: 20px;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Phone:</strong> {{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
    <hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
    <p><strong>Message:</strong></p>
    <p>{{.Message}}</p>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; text-align: center; font-size: 12px; color: #666;">
    <p>This email was automatically generated from the {{.StoreName}} contact form.</p>
  </div>
</div>
`))

var shippedTmpl = template.Must(template.New("orderShipped").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #ddd; border-radius: 8px; overflow: hidden;">
  <div style="background-color: #27ae60; color: white; padding: 20px;">
    <h2 style="margin: 0;">Your Order Has Been Shipped!</h2>
  </div>
  <div style="padding: 20px;">
    <p>Dear {{.CustomerName}},</p>
    <p>Great news! Your order has been shipped and is on its way to you.</p>
    <div style="background-color: #f0f8ff; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #27ae60;">
      <p style="margin: 0;">
        <strong>Tracking Number:</strong> {{.TrackingNumber}}<br>
        <strong>Carrier:</strong> {{.Carrier}}<br>
        {{if .EstimatedDelivery}}<strong>Estimated Delivery:</strong> {{.EstimatedDelivery}}{{end}}
      </p>
    </div>
    <p>You can track your shipment using the tracking number above.</p>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; text-align: center; font-size: 12px; color: #666; border-top: 1px solid #ddd;">
    <p style="margin: 0;">&copy; 2025 {{.StoreName}}. All rights reserved.</p>
  </div>
</div>
`))
