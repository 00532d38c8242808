package model

import "time"

// PaymentStatus enumerates the states of a payment order.  CREATED
// means the gateway order exists but no completed transaction has
// been verified; PAID is set when a valid signature promotes the
// owning booking to CONFIRMED; FAILED is reserved for gateway-side
// rejections recorded out of band.
type PaymentStatus string

const (
	PaymentCreated PaymentStatus = "CREATED"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment mirrors the `payments` table.  Each payment order is
// created in the same transaction as its booking and is exclusively
// owned by it.  The gateway payment identifier and signature are
// populated only when the payment is verified.
//
// Fields:
//
//	ID                – UUID primary key.
//	RazorpayOrderID   – gateway-assigned order identifier.
//	Amount            – amount in paise.
//	Currency          – ISO currency code (INR).
//	Status            – CREATED, PAID or FAILED.
//	Email             – contact email copied from the hold request.
//	Phone             – optional contact phone.
//	RazorpayPaymentID – gateway payment id, set on verification.
//	RazorpaySignature – gateway signature, set on verification.
//	CreatedAt         – timestamp of creation.
type Payment struct {
	ID                string        // payments.id
	RazorpayOrderID   string        // payments.razorpay_order_id
	Amount            int64         // payments.amount (paise)
	Currency          string        // payments.currency
	Status            PaymentStatus // payments.status
	Email             string        // payments.email
	Phone             *string       // payments.phone (nullable)
	RazorpayPaymentID *string       // payments.razorpay_payment_id (nullable)
	RazorpaySignature *string       // payments.razorpay_signature (nullable)
	CreatedAt         time.Time     // payments.created_at
}
