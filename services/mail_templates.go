package services

import "fmt"

// Transactional mail subjects and bodies. These are the customer-facing
// Purevia templates; the lifecycle service decides when each one goes out.

const (
	subjectOrderOTP       = "Your Purevia OTP"
	subjectOrderConfirmed = "🎉 Your Purevia Order is Confirmed"
	subjectDeliveryOTP    = "🚚 Purevia Delivery OTP"
	subjectOutForDelivery = "🚚 Your Purevia Order is Out for Delivery!"
	subjectDelivered      = "💙 Your Purevia Order is Delivered!"
	subjectCancelOTP      = "❌ Purevia Cancel Order OTP"
	subjectCancelled      = "❌ Your Purevia Order Has Been Cancelled"
	subjectReview         = "⭐ We'd Love Your Review!"
	subjectAdminNewOrder  = "🧃 New Purevia Order"
	subjectAdminDelivery  = "🚚 Delivery Started Notification"
)

func orderOTPBody(name, otp string) string {
	return fmt.Sprintf(`
		<h2>Hello %s,</h2>
		<p>Your OTP for placing an order on Purevia is:</p>
		<h1>%s</h1>
		<p>This OTP is valid for 5 minutes.</p>
		<p>💧 Stay hydrated! Team Purevia</p>
	`, name, otp)
}

func orderConfirmedBody(name string, totalPrice float64) string {
	return fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your order has been successfully placed!</p>
		<p><strong>Total:</strong> ₹%.2f</p>
		<p>We will notify you when your order is packed, out for delivery, and delivered.</p>
		<p>💧 Team Purevia</p>
	`, name, totalPrice)
}

func deliveryOTPBody(name, otp string) string {
	return fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your <strong>delivery confirmation OTP</strong> is:</p>
		<h1>%s</h1>
		<p>Please share this OTP with the delivery person to confirm delivery.</p>
		<p>💧 Team Purevia</p>
	`, name, otp)
}

func outForDeliveryBody(name string) string {
	return fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your Purevia water is now <strong>out for delivery</strong>! 💧🚚</p>
		<p>It will reach you shortly. Please keep your phone nearby for updates.</p>
		<p>💧 Stay hydrated! Team Purevia</p>
	`, name)
}

func deliveredBody(name string) string {
	return fmt.Sprintf(`
		<h2>Hey %s,</h2>
		<p>Your order has been delivered 🚚💧</p>
	`, name)
}

func cancelOTPBody(otp string) string {
	return fmt.Sprintf(`<h2>Your OTP is %s</h2><p>Valid for 5 minutes</p>`, otp)
}

func cancelledBody(name string) string {
	return fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>We're sorry to inform you that your Purevia order has been <strong>cancelled</strong>.</p>
		<p>If this was a mistake or you need help, feel free to reply to this email.</p>
		<p>💧 Team Purevia</p>
	`, name)
}

func reviewBody(name string) string {
	return fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>Your feedback means the world to us 💙</p>
		<p>Please reply to this email and share:</p>
		<ul>
			<li>Water quality 💧</li>
			<li>Delivery experience 🚚</li>
			<li>Overall satisfaction ⭐</li>
		</ul>
		<p>Thank you for choosing Purevia!</p>
	`, name)
}

func adminNewOrderBody(orderDump string) string {
	return fmt.Sprintf(`<pre>%s</pre>`, orderDump)
}

func adminDeliveryStartBody(name, email string) string {
	return fmt.Sprintf(`
		<h2>Delivery Notification</h2>
		<p>The delivery person has reached the customer location.</p>
		<ul>
			<li><strong>Name:</strong> %s</li>
			<li><strong>Email:</strong> %s</li>
		</ul>
	`, name, email)
}
