package record

import (
	"easylog/bizerror"
	"easylog/deployment"
	"math"
	"strings"

	"github.com/fundwit/go-commons/types"
)

const (
	HoursStep = 0.25
	MinHours  = 0.25
	MaxHours  = 10
)

// WorkRecord is a single logged unit of work, scoped to one owner.
// Column mapping follows the original store schema (table work_logs,
// snake_case columns); every persisted field carries an explicit column tag.
type WorkRecord struct {
	ID types.ID `json:"id" gorm:"primary_key;column:id"`

	Date        string  `json:"date" gorm:"column:date" sql:"type:VARCHAR(10) NOT NULL"`
	Department  string  `json:"department" gorm:"column:department"`
	EventType   string  `json:"eventType" gorm:"column:event_type"`
	Product     string  `json:"product" gorm:"column:product"`
	Description string  `json:"description" gorm:"column:description" sql:"type:TEXT"`
	Hours       float64 `json:"hours" gorm:"column:hours"`

	UserName   string          `json:"userName" gorm:"column:user_name;index:idx_user_name"`
	CreateTime types.Timestamp `json:"createTime" gorm:"column:create_time" sql:"type:DATETIME(6) NOT NULL"`
}

func (r WorkRecord) TableName() string {
	return "work_logs"
}

// WorkRecordCreation carries the user-entered fields of a record before the
// store assigns identity and creation time.
type WorkRecordCreation struct {
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	Department  string  `json:"department" binding:"required"`
	EventType   string  `json:"eventType" binding:"required,lte=50"`
	Product     string  `json:"product"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours" binding:"required"`
}

// Validate enforces the local invariants that must hold before a record may
// be staged or persisted. Event-type membership is enforced at the settings
// boundary, not here; the label travels as entered.
func (c *WorkRecordCreation) Validate() error {
	if strings.TrimSpace(c.Description) == "" {
		return &bizerror.ErrInvalidRecord{Reason: "description must not be empty"}
	}
	if c.Hours <= 0 {
		return &bizerror.ErrInvalidRecord{Reason: "hours must be positive"}
	}
	if !deployment.IsKnownDepartment(c.Department) {
		return &bizerror.ErrInvalidRecord{Reason: "unknown department: " + c.Department}
	}
	if c.Product != "" && !deployment.IsKnownProduct(c.Product) {
		return &bizerror.ErrInvalidRecord{Reason: "unknown product: " + c.Product}
	}
	return nil
}

// QuantizeHours rounds to the nearest quarter hour and clamps the result
// into [MinHours, MaxHours]. Ties (x.125) round up.
func QuantizeHours(hours float64) float64 {
	quantized := math.Round(hours/HoursStep) * HoursStep
	if quantized < MinHours {
		return MinHours
	}
	if quantized > MaxHours {
		return MaxHours
	}
	return quantized
}
