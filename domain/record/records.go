package record

import (
	"easylog/bizerror"
	"easylog/idgen"
	"easylog/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// The remote store gateway: the only four capabilities the rest of the
// system needs from the backing store. Store failures are wrapped in
// bizerror.ErrStore; a missing permanent id surfaces as
// gorm.ErrRecordNotFound, never as silent success.
var (
	workRecordIdWorker = idgen.NewWorker()

	QueryWorkRecordsFunc = QueryWorkRecords
	CreateWorkRecordFunc = CreateWorkRecord
	UpdateWorkRecordFunc = UpdateWorkRecord
	DeleteWorkRecordFunc = DeleteWorkRecord
)

// QueryWorkRecords lists the owner's records, most recent work date first.
func QueryWorkRecords(owner string) ([]WorkRecord, error) {
	records := []WorkRecord{}
	db := persistence.ActiveDataSourceManager.GormDB()
	if err := db.Where("user_name = ?", owner).Order("date DESC").Order("create_time DESC").Find(&records).Error; err != nil {
		return nil, &bizerror.ErrStore{Cause: err}
	}
	return records, nil
}

// CreateWorkRecord persists one record. Identity and creation time are
// assigned here, on the store side of the gateway, never by callers.
func CreateWorkRecord(creation WorkRecordCreation, owner string) (*WorkRecord, error) {
	if err := creation.Validate(); err != nil {
		return nil, err
	}
	r := WorkRecord{
		ID:          idgen.NextID(workRecordIdWorker),
		Date:        creation.Date,
		Department:  creation.Department,
		EventType:   creation.EventType,
		Product:     creation.Product,
		Description: creation.Description,
		Hours:       QuantizeHours(creation.Hours),
		UserName:    owner,
		CreateTime:  types.CurrentTimestamp(),
	}
	if err := persistence.ActiveDataSourceManager.GormDB().Create(&r).Error; err != nil {
		return nil, &bizerror.ErrStore{Cause: err}
	}
	return &r, nil
}

// UpdateWorkRecord replaces the stored fields of the record with the given
// permanent id. The owner and creation time are never rewritten.
func UpdateWorkRecord(r WorkRecord) error {
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		existing := WorkRecord{}
		if err := tx.Where("id = ? AND user_name = ?", r.ID, r.UserName).First(&existing).Error; err != nil {
			return err
		}
		existing.Date = r.Date
		existing.Department = r.Department
		existing.EventType = r.EventType
		existing.Product = r.Product
		existing.Description = r.Description
		existing.Hours = r.Hours
		return tx.Save(&existing).Error
	})
	if txErr != nil {
		if gorm.IsRecordNotFoundError(txErr) {
			return txErr
		}
		return &bizerror.ErrStore{Cause: txErr}
	}
	return nil
}

// DeleteWorkRecord removes the record with the given permanent id.
func DeleteWorkRecord(id types.ID, owner string) error {
	txErr := persistence.ActiveDataSourceManager.GormDB().Transaction(func(tx *gorm.DB) error {
		existing := WorkRecord{}
		if err := tx.Where("id = ? AND user_name = ?", id, owner).First(&existing).Error; err != nil {
			return err
		}
		return tx.Delete(&WorkRecord{}, "id = ?", id).Error
	})
	if txErr != nil {
		if gorm.IsRecordNotFoundError(txErr) {
			return txErr
		}
		return &bizerror.ErrStore{Cause: txErr}
	}
	return nil
}
