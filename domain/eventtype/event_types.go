package eventtype

import (
	"easylog/bizerror"
	"easylog/idgen"
	"easylog/persistence"
	"easylog/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// MaxEventTypesPerOwner caps one account's label set, defaults included.
const MaxEventTypesPerOwner = 4

// EventTypeDefinition is one label of an account's event-type vocabulary.
// The built-in defaults are virtual (never stored) and cannot be deleted;
// custom labels belong to exactly one owner.
type EventTypeDefinition struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	Name      string `json:"name" gorm:"unique_index:uni_event_type_name_owner"`
	IsDefault bool   `json:"isDefault" gorm:"-"`

	UserName   string          `json:"userName" gorm:"column:user_name;unique_index:uni_event_type_name_owner"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type EventTypeCreation struct {
	Name string `json:"name" binding:"required,lte=20"`
}

// DefaultEventTypes returns the non-deletable labels every account starts
// with.
func DefaultEventTypes() []EventTypeDefinition {
	return []EventTypeDefinition{
		{Name: "會議", IsDefault: true},
		{Name: "諮詢", IsDefault: true},
	}
}

var (
	eventTypeIdWorker = idgen.NewWorker()

	CreateEventTypeFunc = CreateEventType
	QueryEventTypesFunc = QueryEventTypes
	DeleteEventTypeFunc = DeleteEventType
)

// QueryEventTypes lists the defaults followed by the owner's custom labels.
func QueryEventTypes(secCtx *session.Session) ([]EventTypeDefinition, error) {
	custom := []EventTypeDefinition{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where("user_name = ?", secCtx.Identity.Name).Order("ID ASC").Find(&custom).Error; err != nil {
		return nil, err
	}
	return append(DefaultEventTypes(), custom...), nil
}

func CreateEventType(creation EventTypeCreation, secCtx *session.Session) (*EventTypeDefinition, error) {
	for _, d := range DefaultEventTypes() {
		if d.Name == creation.Name {
			return nil, bizerror.ErrEventTypeExisted
		}
	}

	var r *EventTypeDefinition
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		count := 0
		if err := tx.Model(&EventTypeDefinition{}).Where("user_name = ?", secCtx.Identity.Name).Count(&count).Error; err != nil {
			return err
		}
		if len(DefaultEventTypes())+count >= MaxEventTypesPerOwner {
			return &bizerror.ErrCapExceeded{Entity: "event type", Cap: MaxEventTypesPerOwner}
		}

		existing := 0
		if err := tx.Model(&EventTypeDefinition{}).Where("user_name = ? AND name = ?",
			secCtx.Identity.Name, creation.Name).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return bizerror.ErrEventTypeExisted
		}

		d := EventTypeDefinition{
			ID:         idgen.NextID(eventTypeIdWorker),
			Name:       creation.Name,
			UserName:   secCtx.Identity.Name,
			CreateTime: types.CurrentTimestamp(),
		}
		if err := tx.Create(&d).Error; err != nil {
			return err
		}
		r = &d
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return r, nil
}

// DeleteEventType removes a custom label. Defaults never reach the table,
// so they cannot be deleted here.
func DeleteEventType(id types.ID, secCtx *session.Session) error {
	return persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		d := EventTypeDefinition{}
		if err := tx.Where("id = ?", id).First(&d).Error; err != nil {
			return err
		}
		if d.UserName != secCtx.Identity.Name {
			return bizerror.ErrForbidden
		}
		return tx.Delete(EventTypeDefinition{}, "id = ?", id).Error
	})
}
