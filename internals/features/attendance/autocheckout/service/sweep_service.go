// internals/features/attendance/autocheckout/service/sweep_service.go
package service

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hadirku_backend/internals/features/attendance/autocheckout/dto"
	"hadirku_backend/internals/features/attendance/autocheckout/model"
	hbmodel "hadirku_backend/internals/features/attendance/presence/model"
	sessmodel "hadirku_backend/internals/features/attendance/sessions/model"
	setmodel "hadirku_backend/internals/features/company/settings/model"
	setservice "hadirku_backend/internals/features/company/settings/service"
)

// EnforcementStore: akses persistence yang dibutuhkan sweep. Produksi
// pakai GORM (store.go); test meng-inject fake in-memory.
type EnforcementStore interface {
	OpenSessions(companyID uuid.UUID) ([]sessmodel.AttendanceSessionModel, error)
	LatestHeartbeat(employeeID uuid.UUID) (*hbmodel.PresenceHeartbeatModel, error)
	PendingForSession(sessionID uuid.UUID) (*model.PendingCheckoutModel, error)
	CreatePending(row *model.PendingCheckoutModel) error
	CancelPending(pendingID uuid.UUID, cancelReason string) (bool, error)
	ExecuteCheckout(sess *sessmodel.AttendanceSessionModel, pc *model.PendingCheckoutModel, now time.Time) (result string, handled bool, err error)
	SaveRun(run *model.SweepRunModel) error
}

// SettingsProvider: pembacaan settings per tenant (cache TTL) + daftar
// tenant yang enforcement-nya nyala. Dipenuhi *SettingsService.
type SettingsProvider interface {
	GetSettings(companyID uuid.UUID) (setmodel.CompanyAutoCheckoutSettingModel, error)
	ListEnabled() ([]setmodel.CompanyAutoCheckoutSettingModel, error)
	Invalidate(companyID uuid.UUID)
}

// SweepService menjalankan enforcement untuk SEMUA tenant yang
// auto-checkout-nya nyala. Satu-satunya penulis pending_checkouts
// selain path check-out manual (yang cuma meng-cancel).
type SweepService struct {
	Store    EnforcementStore
	Settings SettingsProvider

	// serialisasi in-process; tick ticker & trigger cron boleh overlap,
	// constraint DB tetap penjaga sesungguhnya
	mu sync.Mutex

	// injeksi clock untuk test
	Now func() time.Time
}

func NewSweepService(db *gorm.DB) *SweepService {
	return &SweepService{
		Store:    NewGormEnforcementStore(db),
		Settings: setservice.NewSettingsService(db),
		Now:      time.Now,
	}
}

/* ===================== RUN ===================== */

func (s *SweepService) RunOnce() (*dto.SweepReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startedAt := s.Now()
	rep := &dto.SweepReport{Details: []dto.SweepDetail{}}

	enabled, err := s.Settings.ListEnabled()
	if err != nil {
		// TransientIO — run ini gagal total, tick berikutnya coba lagi
		return nil, err
	}

	for i := range enabled {
		s.sweepCompany(&enabled[i], rep)
	}

	finishedAt := s.Now()
	s.persistRun(startedAt, finishedAt, rep)

	log.Printf("[SWEEP] processed=%d started=%d executed=%d dur=%s",
		rep.Processed, rep.Started, rep.Executed, finishedAt.Sub(startedAt))
	return rep, nil
}

// sweepCompany: kegagalan satu tenant tidak menghentikan tenant lain.
// Enrolment tenant datang dari ListEnabled (uncached, supaya tenant yang
// baru di-enable langsung kebaca); parameter enforcement (countdown,
// threshold, staleness) diambil lewat GetSettings yang ber-cache TTL.
func (s *SweepService) sweepCompany(enrolled *setmodel.CompanyAutoCheckoutSettingModel, rep *dto.SweepReport) {
	companyID := enrolled.CompanyAutoCheckoutSettingCompanyID

	set, err := s.Settings.GetSettings(companyID)
	if err != nil {
		// cache/DB bermasalah — pakai row hasil enumerasi, jangan skip
		set = *enrolled
	}

	sessions, err := s.Store.OpenSessions(companyID)
	if err != nil {
		log.Printf("[SWEEP ERROR] company=%s gagal ambil sesi terbuka: %v", companyID, err)
		return
	}

	for i := range sessions {
		sess := &sessions[i]
		rep.Processed++
		if err := s.processSession(&set, sess, rep); err != nil {
			// isolasi per sesi — satu row bermasalah tidak boleh
			// menghentikan enforcement tenant lain
			log.Printf("[SWEEP ERROR] session=%s: %v", sess.AttendanceSessionID, err)
			rep.Details = append(rep.Details, dto.SweepDetail{
				CompanyID:  companyID,
				SessionID:  sess.AttendanceSessionID,
				EmployeeID: sess.AttendanceSessionEmployeeID,
				Action:     dto.ActionError,
				Reason:     err.Error(),
			})
		}
	}
}

/* ===================== PER SESI ===================== */

func (s *SweepService) processSession(set *setmodel.CompanyAutoCheckoutSettingModel, sess *sessmodel.AttendanceSessionModel, rep *dto.SweepReport) error {
	now := s.Now()

	// 1) heartbeat terakhir karyawan (boleh tidak ada)
	hb, err := s.Store.LatestHeartbeat(sess.AttendanceSessionEmployeeID)
	if err != nil {
		return err
	}

	violating, reason := EvaluateViolation(hb, *set, now)

	// 2) countdown PENDING untuk sesi ini (partial unique → max satu)
	pc, err := s.Store.PendingForSession(sess.AttendanceSessionID)
	if err != nil {
		return err
	}
	hasPending := pc != nil

	switch {
	case !hasPending && violating:
		return s.startCountdown(set, sess, reason, now, rep)

	case hasPending && violating && now.Before(pc.PendingCheckoutEndsAt):
		// countdown masih jalan — no-op; ends_at TIDAK pernah di-reset
		return nil

	case hasPending && violating:
		return s.executeCheckout(pc, sess, now, rep)

	case hasPending && !violating:
		return s.cancelCountdown(pc, sess, rep)
	}

	return nil
}

// startCountdown: create hanya pada transisi OFF→ON yang terkonfirmasi.
// Tick sweep yang tumpang tindih kena unique constraint → diabaikan.
func (s *SweepService) startCountdown(set *setmodel.CompanyAutoCheckoutSettingModel, sess *sessmodel.AttendanceSessionModel, reason string, now time.Time, rep *dto.SweepReport) error {
	countdown := set.CompanyAutoCheckoutSettingCountdownSeconds
	if countdown <= 0 {
		countdown = 300
	}

	row := model.PendingCheckoutModel{
		PendingCheckoutCompanyID:  sess.AttendanceSessionCompanyID,
		PendingCheckoutEmployeeID: sess.AttendanceSessionEmployeeID,
		PendingCheckoutSessionID:  sess.AttendanceSessionID,
		PendingCheckoutReason:     reason,
		PendingCheckoutEndsAt:     now.Add(time.Duration(countdown) * time.Second),
		PendingCheckoutStatus:     model.StatusPending,
	}
	if err := s.Store.CreatePending(&row); err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique") {
			// tick lain sudah bikin — bukan error, bukan "started"
			return nil
		}
		return err
	}

	rep.Started++
	rep.Details = append(rep.Details, dto.SweepDetail{
		CompanyID:  sess.AttendanceSessionCompanyID,
		SessionID:  sess.AttendanceSessionID,
		EmployeeID: sess.AttendanceSessionEmployeeID,
		Action:     dto.ActionCountdownStarted,
		Reason:     reason,
	})
	return nil
}

// cancelCountdown: kondisi pulih → CANCELLED di tick ini juga, tidak
// menunggu expiry. CANCELLED terminal; pelanggaran baru = row baru.
func (s *SweepService) cancelCountdown(pc *model.PendingCheckoutModel, sess *sessmodel.AttendanceSessionModel, rep *dto.SweepReport) error {
	cancelled, err := s.Store.CancelPending(pc.PendingCheckoutID, model.CancelReasonConditionsResolved)
	if err != nil {
		return err
	}
	if !cancelled {
		// sudah ditangani penulis lain
		return nil
	}

	rep.Details = append(rep.Details, dto.SweepDetail{
		CompanyID:  sess.AttendanceSessionCompanyID,
		SessionID:  sess.AttendanceSessionID,
		EmployeeID: sess.AttendanceSessionEmployeeID,
		Action:     dto.ActionCountdownCancelled,
		Reason:     model.CancelReasonConditionsResolved,
	})
	return nil
}

// executeCheckout: countdown habis → tutup sesi + DONE dalam SATU
// transaksi (lihat store.go). Kalah balapan dari check-out manual =
// DONE dengan result already_closed, bukan error.
func (s *SweepService) executeCheckout(pc *model.PendingCheckoutModel, sess *sessmodel.AttendanceSessionModel, now time.Time, rep *dto.SweepReport) error {
	result, handled, err := s.Store.ExecuteCheckout(sess, pc, now)
	if err != nil {
		return err
	}
	if !handled {
		// tick lain sudah menyelesaikan pending ini
		return nil
	}

	action := dto.ActionCheckoutExecuted
	if result == model.CompletionAlreadyClosed {
		action = dto.ActionAlreadyClosed
	} else {
		rep.Executed++
	}
	rep.Details = append(rep.Details, dto.SweepDetail{
		CompanyID:  sess.AttendanceSessionCompanyID,
		SessionID:  sess.AttendanceSessionID,
		EmployeeID: sess.AttendanceSessionEmployeeID,
		Action:     action,
		Reason:     pc.PendingCheckoutReason,
	})
	return nil
}

/* ===================== OBSERVABILITY ===================== */

func (s *SweepService) persistRun(startedAt, finishedAt time.Time, rep *dto.SweepReport) {
	details, err := sonic.Marshal(rep.Details)
	if err != nil {
		log.Printf("[SWEEP ERROR] marshal details: %v", err)
		details = []byte("[]")
	}
	run := model.SweepRunModel{
		SweepRunStartedAt:  startedAt,
		SweepRunFinishedAt: finishedAt,
		SweepRunProcessed:  rep.Processed,
		SweepRunStarted:    rep.Started,
		SweepRunExecuted:   rep.Executed,
		SweepRunDetails:    details,
	}
	if err := s.Store.SaveRun(&run); err != nil {
		// observability saja — jangan gagalkan run karena ini
		log.Printf("[SWEEP ERROR] simpan sweep_run: %v", err)
	}
}
