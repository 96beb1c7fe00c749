package models

import "time"

// Статусы RFP
const (
	RfpStatusDraft = "DRAFT"
	RfpStatusSent  = "SENT"
)

// Сущность RFP (запрос предложений)
type Rfp struct {
	ID                   int       `db:"id" json:"id"`
	Title                string    `db:"title" json:"title" validate:"required,max=200"`
	Description          string    `db:"description" json:"description" validate:"required"`
	Budget               *float64  `db:"budget" json:"budget"`
	DeliveryTimelineDays *int      `db:"delivery_timeline_days" json:"deliveryTimelineDays"`
	PaymentTerms         *string   `db:"payment_terms" json:"paymentTerms"`
	WarrantyMonths       *int      `db:"warranty_months" json:"warrantyMonths"`
	Status               string    `db:"status" json:"status" validate:"required,oneof=DRAFT SENT"`
	CreatedAt            time.Time `db:"created_at" json:"createdAt"`
}

// Сущность Поставщика
type Vendor struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" validate:"required,max=100"`
	Email     string    `db:"email" json:"email" validate:"required,email"`
	Category  *string   `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Сущность Предложения от поставщика
type Proposal struct {
	ID              int       `db:"id" json:"id"`
	RfpID           int       `db:"rfp_id" json:"rfpId" validate:"required"`
	VendorID        int       `db:"vendor_id" json:"vendorId" validate:"required"`
	RawEmailContent string    `db:"raw_email_content" json:"rawEmailContent"`
	TotalPrice      *float64  `db:"total_price" json:"totalPrice"`
	DeliveryDays    *int      `db:"delivery_days" json:"deliveryDays"`
	PaymentTerms    *string   `db:"payment_terms" json:"paymentTerms"`
	WarrantyMonths  *int      `db:"warranty_months" json:"warrantyMonths"`
	Notes           *string   `db:"notes" json:"notes"`
	AiScore         *float64  `db:"ai_score" json:"aiScore"`
	AiJustification *string   `db:"ai_justification" json:"aiJustification"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`

	// Подгружается join'ом, см. db.GetProposalsByRfp
	Vendor *Vendor `db:"-" json:"vendor,omitempty"`
}
