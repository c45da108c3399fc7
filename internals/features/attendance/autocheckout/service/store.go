// internals/features/attendance/autocheckout/service/store.go
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"hadirku_backend/internals/features/attendance/autocheckout/model"
	hbmodel "hadirku_backend/internals/features/attendance/presence/model"
	sessmodel "hadirku_backend/internals/features/attendance/sessions/model"
	notifmodel "hadirku_backend/internals/features/notifications/model"
)

type gormEnforcementStore struct {
	db *gorm.DB
}

func NewGormEnforcementStore(db *gorm.DB) EnforcementStore {
	return &gormEnforcementStore{db: db}
}

func (g *gormEnforcementStore) OpenSessions(companyID uuid.UUID) ([]sessmodel.AttendanceSessionModel, error) {
	var sessions []sessmodel.AttendanceSessionModel
	err := g.db.
		Where("attendance_session_company_id = ? AND attendance_session_check_out_at IS NULL", companyID).
		Find(&sessions).Error
	return sessions, err
}

func (g *gormEnforcementStore) LatestHeartbeat(employeeID uuid.UUID) (*hbmodel.PresenceHeartbeatModel, error) {
	var hb hbmodel.PresenceHeartbeatModel
	if err := g.db.
		Where("presence_heartbeat_employee_id = ?", employeeID).
		Limit(1).
		Find(&hb).Error; err != nil {
		return nil, err
	}
	if hb.PresenceHeartbeatID == uuid.Nil {
		return nil, nil
	}
	return &hb, nil
}

func (g *gormEnforcementStore) PendingForSession(sessionID uuid.UUID) (*model.PendingCheckoutModel, error) {
	var pc model.PendingCheckoutModel
	if err := g.db.
		Where("pending_checkout_session_id = ? AND pending_checkout_status = ?",
			sessionID, model.StatusPending).
		Limit(1).
		Find(&pc).Error; err != nil {
		return nil, err
	}
	if pc.PendingCheckoutID == uuid.Nil {
		return nil, nil
	}
	return &pc, nil
}

func (g *gormEnforcementStore) CreatePending(row *model.PendingCheckoutModel) error {
	return g.db.Create(row).Error
}

func (g *gormEnforcementStore) CancelPending(pendingID uuid.UUID, cancelReason string) (bool, error) {
	res := g.db.Model(&model.PendingCheckoutModel{}).
		Where("pending_checkout_id = ? AND pending_checkout_status = ?",
			pendingID, model.StatusPending).
		Updates(map[string]any{
			"pending_checkout_status":        model.StatusCancelled,
			"pending_checkout_cancel_reason": cancelReason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExecuteCheckout menutup sesi + menyelesaikan pending dalam SATU
// transaksi. Conditional update bikin langkah ini idempoten: kalah
// balapan dari check-out manual = result already_closed.
func (g *gormEnforcementStore) ExecuteCheckout(sess *sessmodel.AttendanceSessionModel, pc *model.PendingCheckoutModel, now time.Time) (string, bool, error) {
	result := model.CompletionExecuted
	handled := false

	txErr := g.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&sessmodel.AttendanceSessionModel{}).
			Where("attendance_session_id = ? AND attendance_session_check_out_at IS NULL",
				sess.AttendanceSessionID).
			Updates(map[string]any{
				"attendance_session_check_out_at":     now,
				"attendance_session_check_out_kind":   sessmodel.CheckOutKindAuto,
				"attendance_session_check_out_reason": pc.PendingCheckoutReason,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result = model.CompletionAlreadyClosed
		}

		// DONE — conditional di PENDING supaya dua tick tidak dobel
		res2 := tx.Model(&model.PendingCheckoutModel{}).
			Where("pending_checkout_id = ? AND pending_checkout_status = ?",
				pc.PendingCheckoutID, model.StatusPending).
			Updates(map[string]any{
				"pending_checkout_status":            model.StatusDone,
				"pending_checkout_completed_at":      now,
				"pending_checkout_completion_result": result,
			})
		if res2.Error != nil {
			return res2.Error
		}
		if res2.RowsAffected == 0 {
			return nil
		}
		handled = true

		if err := tx.
			Where("presence_heartbeat_employee_id = ?", sess.AttendanceSessionEmployeeID).
			Delete(&hbmodel.PresenceHeartbeatModel{}).Error; err != nil {
			return err
		}

		if result == model.CompletionExecuted {
			// domain event untuk subsistem notifikasi (di luar core)
			companyID := sess.AttendanceSessionCompanyID
			employeeID := sess.AttendanceSessionEmployeeID
			notif := notifmodel.NotificationModel{
				NotificationTitle:       "Auto checkout",
				NotificationDescription: fmt.Sprintf("Sesi kehadiran ditutup otomatis (%s)", pc.PendingCheckoutReason),
				NotificationType:        notifmodel.NotificationTypeAutoCheckout,
				NotificationCompanyID:   &companyID,
				NotificationEmployeeID:  &employeeID,
				NotificationTags:        pq.StringArray{"attendance", "auto_checkout", pc.PendingCheckoutReason},
			}
			if err := tx.Create(&notif).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return result, false, txErr
	}
	return result, handled, nil
}

func (g *gormEnforcementStore) SaveRun(run *model.SweepRunModel) error {
	return g.db.Create(run).Error
}
