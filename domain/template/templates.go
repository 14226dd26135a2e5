package template

import (
	"easylog/bizerror"
	"easylog/deployment"
	"easylog/domain/record"
	"easylog/idgen"
	"easylog/persistence"
	"easylog/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// MaxTemplatesPerOwner caps the quick-entry presets of one account.
const MaxTemplatesPerOwner = 6

type TemplateCreation struct {
	Label       string  `json:"label" binding:"required,lte=50"`
	Department  string  `json:"department" binding:"required"`
	EventType   string  `json:"eventType" binding:"required,lte=50"`
	Product     string  `json:"product"`
	Description string  `json:"description" binding:"required"`
	Hours       float64 `json:"hours" binding:"required"`
	Icon        string  `json:"icon"`
}

// Template is a named preset used to prefill the entry form. Its lifecycle
// is independent of any work record.
type Template struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Label       string  `json:"label"`
	Department  string  `json:"department"`
	EventType   string  `json:"eventType" gorm:"column:event_type"`
	Product     string  `json:"product"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Icon        string  `json:"icon"`

	UserName   string          `json:"userName" gorm:"column:user_name;index:idx_template_user_name"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

var (
	templateIdWorker = idgen.NewWorker()

	CreateTemplateFunc = CreateTemplate
	QueryTemplatesFunc = QueryTemplates
	DeleteTemplateFunc = DeleteTemplate
)

func (c *TemplateCreation) validate() error {
	if !deployment.IsKnownDepartment(c.Department) {
		return &bizerror.ErrInvalidRecord{Reason: "unknown department: " + c.Department}
	}
	if c.Product != "" && !deployment.IsKnownProduct(c.Product) {
		return &bizerror.ErrInvalidRecord{Reason: "unknown product: " + c.Product}
	}
	if c.Hours <= 0 {
		return &bizerror.ErrInvalidRecord{Reason: "hours must be positive"}
	}
	return nil
}

func CreateTemplate(creation TemplateCreation, secCtx *session.Session) (*Template, error) {
	if err := creation.validate(); err != nil {
		return nil, err
	}

	var r *Template
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		count := 0
		if err := tx.Model(&Template{}).Where("user_name = ?", secCtx.Identity.Name).Count(&count).Error; err != nil {
			return err
		}
		if count >= MaxTemplatesPerOwner {
			return &bizerror.ErrCapExceeded{Entity: "template", Cap: MaxTemplatesPerOwner}
		}

		t := Template{
			ID:          idgen.NextID(templateIdWorker),
			Label:       creation.Label,
			Department:  creation.Department,
			EventType:   creation.EventType,
			Product:     creation.Product,
			Description: creation.Description,
			Hours:       record.QuantizeHours(creation.Hours),
			Icon:        creation.Icon,
			UserName:    secCtx.Identity.Name,
			CreateTime:  types.CurrentTimestamp(),
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		r = &t
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return r, nil
}

func QueryTemplates(secCtx *session.Session) ([]Template, error) {
	templates := []Template{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where("user_name = ?", secCtx.Identity.Name).Order("ID ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func DeleteTemplate(id types.ID, secCtx *session.Session) error {
	return persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		t := Template{}
		if err := tx.Where("id = ?", id).First(&t).Error; err != nil {
			return err
		}
		if t.UserName != secCtx.Identity.Name {
			return bizerror.ErrForbidden
		}
		return tx.Delete(Template{}, "id = ?", id).Error
	})
}
