package repositories

import (
	"errors"
	"fmt"

	"erp-app/controllers/helpers"
	"erp-app/models"
	"erp-app/notifier"
	"erp-app/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRunFields is returned when a run is created without a truck or a
// date. ErrRunTruckless rejects a patch that would null out the truck;
// a run always rides on one.
var (
	ErrRunFields    = errors.New("truck and date are required")
	ErrRunTruckless = errors.New("a run cannot lose its truck")
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// RunPatch carries the fields a run update may change; nil leaves a
// field untouched.
type RunPatch struct {
	Name       *string `json:"name"`
	TruckId    *uint   `json:"truck_id"`
	RunDate    *string `json:"run_date"`
	RunSeq     *int    `json:"run_seq"`
	DepartTime *string `json:"depart_time"`
	Completed  *bool   `json:"completed"`
}

// applyRunPatch folds the patch into the run. The second return says
// whether the truck or date changed, which is what forces the member
// cascade.
func applyRunPatch(run models.DeliveryRun, patch RunPatch) (models.DeliveryRun, bool) {
	cascade := false

	if patch.Name != nil {
		run.Name = *patch.Name
	}
	if patch.TruckId != nil && *patch.TruckId != run.TruckId {
		run.TruckId = *patch.TruckId
		cascade = true
	}
	if patch.RunDate != nil && *patch.RunDate != run.RunDate {
		run.RunDate = *patch.RunDate
		cascade = true
	}
	if patch.RunSeq != nil {
		run.RunSeq = *patch.RunSeq
	}
	if patch.DepartTime != nil {
		run.DepartTime = *patch.DepartTime
	}
	if patch.Completed != nil {
		run.Completed = *patch.Completed
	}

	return run, cascade
}

// CreateRun creates a delivery run. Truck and date are required; the
// intra-day sequence defaults to 1.
func (r *RunRepository) CreateRun(run models.DeliveryRun, actor int, unit string) (models.DeliveryRun, error) {
	if run.TruckId == 0 || run.RunDate == "" {
		return run, ErrRunFields
	}

	var truck models.Truck
	if err := r.db.First(&truck, run.TruckId).Error; err != nil {
		return run, err
	}

	if run.RunSeq == 0 {
		run.RunSeq = 1
	}
	run.CreatedBy = actor

	if err := r.db.Create(&run).Error; err != nil {
		return run, err
	}

	notifier.Publish(notifier.Event{
		Event:   notifier.EventRunUpdated,
		Action:  notifier.ActionCreated,
		Unit:    unit,
		Payload: notifier.RunPayload{RunID: run.ID, Run: run},
	})

	return run, nil
}

// UpdateRun patches a run. A truck or date change cascades onto every
// member order, saved one by one so each order's own audit trail
// records the mutation.
func (r *RunRepository) UpdateRun(runID types.SnowflakeID, patch RunPatch, actor int, unit string) (models.DeliveryRun, error) {
	var run models.DeliveryRun

	if patch.TruckId != nil {
		if *patch.TruckId == 0 {
			return run, ErrRunTruckless
		}
		var truck models.Truck
		if err := r.db.First(&truck, *patch.TruckId).Error; err != nil {
			return run, err
		}
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return run, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", runID).First(&run).Error; err != nil {
		tx.Rollback()
		return run, err
	}

	next, cascade := applyRunPatch(run, patch)
	next.UpdatedBy = actor

	if err := tx.Save(&next).Error; err != nil {
		tx.Rollback()
		return run, err
	}

	var members []models.SalesOrder
	if cascade {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("delivery_run_id = ?", runID).Find(&members).Error; err != nil {
			tx.Rollback()
			return run, err
		}

		for i := range members {
			members[i].ScheduledDate = next.RunDate
			members[i].TruckId = next.TruckId
			members[i].UpdatedBy = actor
			if err := tx.Save(&members[i]).Error; err != nil {
				tx.Rollback()
				return run, err
			}

			detail := fmt.Sprintf("Run %s moved to %s / truck %d", next.Name, next.RunDate, next.TruckId)
			if err := helpers.InsertTransactionHistory(tx, members[i].SoNo, members[i].Status, "SO", detail, actor); err != nil {
				tx.Rollback()
				return run, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return run, err
	}

	notifier.Publish(notifier.Event{
		Event:   notifier.EventRunUpdated,
		Action:  notifier.ActionUpdated,
		Unit:    unit,
		Payload: notifier.RunPayload{RunID: next.ID, Run: next},
	})
	for _, m := range members {
		order, err := calendarOrderProjection(r.db, models.OrderTypeSales, m.ID)
		if err != nil {
			order = CalendarOrder{OrderType: models.OrderTypeSales, OrderID: m.ID}
		}
		notifier.Publish(notifier.Event{
			Event:  notifier.EventOrderUpdated,
			Action: notifier.ActionUpdated,
			Unit:   unit,
			Payload: notifier.OrderPayload{
				OrderType: models.OrderTypeSales,
				OrderID:   m.ID,
				Order:     order,
			},
		})
	}

	return next, nil
}

// DeleteRun removes a run. Member orders only lose their run
// reference; truck and date stay as they were.
func (r *RunRepository) DeleteRun(runID types.SnowflakeID, actor int, unit string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var run models.DeliveryRun
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", runID).First(&run).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Model(&models.SalesOrder{}).
		Where("delivery_run_id = ?", runID).
		Updates(map[string]interface{}{"delivery_run_id": 0, "updated_by": actor}).Error; err != nil {
		tx.Rollback()
		return err
	}

	run.DeletedBy = actor
	if err := tx.Save(&run).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&run).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	notifier.Publish(notifier.Event{
		Event:   notifier.EventRunUpdated,
		Action:  notifier.ActionDeleted,
		Unit:    unit,
		Payload: notifier.RunPayload{RunID: runID},
	})

	return nil
}

// GetRuns lists runs for a date range, truck and intra-day order.
func (r *RunRepository) GetRuns(startDate, endDate string) ([]models.DeliveryRun, error) {
	var runs []models.DeliveryRun
	err := r.db.Where("run_date BETWEEN ? AND ?", startDate, endDate).
		Order("run_date asc, truck_id asc, run_seq asc").Find(&runs).Error
	return runs, err
}
