package models

import "time"

// Notification delivery channels.
const (
	ChannelEmail = "EMAIL"
	ChannelSMS   = "SMS"
	ChannelPush  = "PUSH"
	ChannelInApp = "IN_APP"
)

// Notification template types.
const (
	TemplateTypeDispute     = "DISPUTE"
	TemplateTypeTransaction = "TRANSACTION"
	TemplateTypeSystem      = "SYSTEM"
	TemplateTypeSecurity    = "SECURITY"
	TemplateTypePayment     = "PAYMENT"
)

// Notification categories.
const (
	CategoryInfo    = "INFO"
	CategoryWarning = "WARNING"
	CategoryError   = "ERROR"
	CategorySuccess = "SUCCESS"
	CategoryUrgent  = "URGENT"
)

// Notification priorities, derived from the template category.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Notification delivery states. PENDING -> SENT -> DELIVERED -> READ is
// forward-only; PENDING -> FAILED is terminal.
const (
	StatusPending   = "PENDING"
	StatusSent      = "SENT"
	StatusDelivered = "DELIVERED"
	StatusRead      = "READ"
	StatusFailed    = "FAILED"
)

// PriorityForCategory maps a template category to a delivery priority.
func PriorityForCategory(category string) string {
	switch category {
	case CategoryUrgent:
		return PriorityUrgent
	case CategoryError:
		return PriorityHigh
	case CategoryWarning:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// NotificationTemplate is a named message template. Title and Message may
// contain {{var}} placeholders resolved against the trigger payload.
type NotificationTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Variables []string  `json:"variables"`
	Channels  []string  `json:"channels"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Condition operators.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpContains    = "contains"
	OpIn          = "in"
	OpNotIn       = "not_in"
	OpIsNull      = "is_null"
	OpIsNotNull   = "is_not_null"
)

// Logical operators joining a condition to the next one in the chain.
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// Condition is a single predicate over the trigger payload. Field is a
// dot-path into the payload. Logic joins this condition's result to the
// next condition; empty means AND. Chains evaluate as a strict
// left-to-right fold with no grouping.
type Condition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
	Logic    string      `json:"logic,omitempty"`
}

// NotificationRule matches triggers to a template. Lower Priority values
// are applied first.
type NotificationRule struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Conditions      []Condition `json:"conditions"`
	TemplateID      string      `json:"templateId"`
	Channels        []string    `json:"channels"`
	Enabled         bool        `json:"enabled"`
	Priority        int         `json:"priority"`
	CooldownMinutes int         `json:"cooldownMinutes"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Notification is a rendered, queued message. Data carries the rule ID,
// template ID and the original trigger payload for auditability.
type Notification struct {
	ID          string                 `json:"id"`
	UserID      string                 `json:"userId"`
	Type        string                 `json:"type"`
	Category    string                 `json:"category"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	Channels    []string               `json:"channels"`
	Priority    string                 `json:"priority"`
	Status      string                 `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
	SentAt      time.Time              `json:"sentAt,omitempty"`
	DeliveredAt time.Time              `json:"deliveredAt,omitempty"`
	ReadAt      time.Time              `json:"readAt,omitempty"`
	FailedAt    time.Time              `json:"failedAt,omitempty"`
}

// ChannelSettings holds per-channel opt-in toggles.
type ChannelSettings struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
	InApp bool `json:"inApp"`
}

// Allows reports whether the given channel is enabled.
func (cs ChannelSettings) Allows(channel string) bool {
	switch channel {
	case ChannelEmail:
		return cs.Email
	case ChannelSMS:
		return cs.SMS
	case ChannelPush:
		return cs.Push
	case ChannelInApp:
		return cs.InApp
	default:
		return false
	}
}

// QuietHours is a per-recipient local time window during which non-urgent
// delivery is deferred. Start and End use HH:MM in the given timezone; a
// Start after End spans midnight.
type QuietHours struct {
	Enabled  bool   `json:"enabled"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

// NotificationPreferences controls how a user receives notifications.
type NotificationPreferences struct {
	UserID     string          `json:"userId"`
	Channels   ChannelSettings `json:"channels"`
	QuietHours QuietHours      `json:"quietHours"`
	Categories map[string]bool `json:"categories"`
	Frequency  string          `json:"frequency"`
	Digest     bool            `json:"digest"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// DefaultPreferences returns the permissive defaults used when a user has
// never saved preferences: every channel on, every category opted in.
func DefaultPreferences(userID string) NotificationPreferences {
	return NotificationPreferences{
		UserID: userID,
		Channels: ChannelSettings{
			Email: true,
			SMS:   true,
			Push:  true,
			InApp: true,
		},
		Categories: map[string]bool{
			CategoryInfo:    true,
			CategoryWarning: true,
			CategoryError:   true,
			CategorySuccess: true,
			CategoryUrgent:  true,
		},
		Frequency: "immediate",
	}
}

// AllowsCategory reports whether the user is opted in to the category.
// Categories absent from the map default to opted in.
func (p NotificationPreferences) AllowsCategory(category string) bool {
	if p.Categories == nil {
		return true
	}
	enabled, ok := p.Categories[category]
	if !ok {
		return true
	}
	return enabled
}

// Request DTOs

type CreateTemplateRequest struct {
	Name      string   `json:"name" validate:"required"`
	Type      string   `json:"type" validate:"required,oneof=DISPUTE TRANSACTION SYSTEM SECURITY PAYMENT"`
	Category  string   `json:"category" validate:"required,oneof=INFO WARNING ERROR SUCCESS URGENT"`
	Title     string   `json:"title" validate:"required"`
	Message   string   `json:"message" validate:"required"`
	Variables []string `json:"variables"`
	Channels  []string `json:"channels" validate:"required,min=1,dive,oneof=EMAIL SMS PUSH IN_APP"`
	Enabled   *bool    `json:"enabled"`
}

type UpdateTemplateRequest struct {
	Name      *string  `json:"name,omitempty"`
	Category  *string  `json:"category,omitempty" validate:"omitempty,oneof=INFO WARNING ERROR SUCCESS URGENT"`
	Title     *string  `json:"title,omitempty"`
	Message   *string  `json:"message,omitempty"`
	Variables []string `json:"variables,omitempty"`
	Channels  []string `json:"channels,omitempty" validate:"omitempty,dive,oneof=EMAIL SMS PUSH IN_APP"`
	Enabled   *bool    `json:"enabled,omitempty"`
}

type CreateRuleRequest struct {
	Name            string      `json:"name" validate:"required"`
	Conditions      []Condition `json:"conditions" validate:"required,min=1"`
	TemplateID      string      `json:"templateId" validate:"required"`
	Channels        []string    `json:"channels" validate:"required,min=1,dive,oneof=EMAIL SMS PUSH IN_APP"`
	Priority        int         `json:"priority"`
	CooldownMinutes int         `json:"cooldownMinutes" validate:"min=0"`
	Enabled         *bool       `json:"enabled"`
}

type UpdateRuleRequest struct {
	Name            *string     `json:"name,omitempty"`
	Conditions      []Condition `json:"conditions,omitempty"`
	TemplateID      *string     `json:"templateId,omitempty"`
	Channels        []string    `json:"channels,omitempty" validate:"omitempty,dive,oneof=EMAIL SMS PUSH IN_APP"`
	Priority        *int        `json:"priority,omitempty"`
	CooldownMinutes *int        `json:"cooldownMinutes,omitempty" validate:"omitempty,min=0"`
	Enabled         *bool       `json:"enabled,omitempty"`
}

type UpdatePreferencesRequest struct {
	Channels   *ChannelSettings `json:"channels,omitempty"`
	QuietHours *QuietHours      `json:"quietHours,omitempty"`
	Categories map[string]bool  `json:"categories,omitempty"`
	Frequency  *string          `json:"frequency,omitempty"`
	Digest     *bool            `json:"digest,omitempty"`
}

type TriggerRequest struct {
	Type    string                 `json:"type" validate:"required"`
	Payload map[string]interface{} `json:"payload"`
}
