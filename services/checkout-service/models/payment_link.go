package models

import "time"

const (
	EventPaymentLinkCreated = "payment_link_created"
	EventPaymentLinkFailed  = "payment_link_failed"
)

// PaymentLinkRequest is one payment_link invocation. When Items is set the
// free text in Products is not parsed.
type PaymentLinkRequest struct {
	SessionID   string   `json:"session_id,omitempty"`
	ActionGroup string   `json:"action_group,omitempty"`
	InputText   string   `json:"input_text,omitempty"`
	Products    []string `json:"products,omitempty"`
	Items       ItemList `json:"items,omitempty"`
}

// PaymentLinkRecord is the persisted result of a successful invocation.
type PaymentLinkRecord struct {
	PK        string    `dynamodbav:"PK" gorm:"column:pk;type:varchar(255);primaryKey"`
	SK        string    `dynamodbav:"SK" gorm:"column:sk;type:varchar(255);primaryKey"`
	SessionID string    `dynamodbav:"SessionID" gorm:"type:varchar(255);index"`
	URL       string    `dynamodbav:"PaymentLinkURL" gorm:"column:url;type:varchar(1024);not null"`
	ItemCount int       `dynamodbav:"ItemCount" gorm:"not null"`
	CreatedAt time.Time `dynamodbav:"CreatedAt" gorm:"not null"`
}

func (PaymentLinkRecord) TableName() string { return "payment_link_records" }

// PaymentLinkEvent is published to SNS after every invocation.
type PaymentLinkEvent struct {
	Type      string    `json:"type"` // payment_link_created or payment_link_failed
	SessionID string    `json:"session_id,omitempty"`
	URL       string    `json:"url,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"` // one of services.Kinds()
	ItemCount int       `json:"item_count"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentLinkQueueMessage is the SQS body accepted by the request consumer.
type PaymentLinkQueueMessage struct {
	SessionID string   `json:"session_id"`
	Products  []string `json:"products,omitempty"`
	Items     ItemList `json:"items,omitempty"`
}
