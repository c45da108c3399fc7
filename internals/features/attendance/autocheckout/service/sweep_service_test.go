package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"hadirku_backend/internals/features/attendance/autocheckout/dto"
	"hadirku_backend/internals/features/attendance/autocheckout/model"
	"hadirku_backend/internals/features/attendance/autocheckout/service"
	hbmodel "hadirku_backend/internals/features/attendance/presence/model"
	sessmodel "hadirku_backend/internals/features/attendance/sessions/model"
	setmodel "hadirku_backend/internals/features/company/settings/model"
)

/* ===================== FAKE STORE ===================== */

type fakeStore struct {
	sessions   []*sessmodel.AttendanceSessionModel
	heartbeats map[uuid.UUID]*hbmodel.PresenceHeartbeatModel
	pendings   []*model.PendingCheckoutModel
	runs       []*model.SweepRunModel

	dupOnCreate      bool
	failHeartbeatFor uuid.UUID
	raceManualClose  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{heartbeats: map[uuid.UUID]*hbmodel.PresenceHeartbeatModel{}}
}

func (f *fakeStore) sessionByID(id uuid.UUID) *sessmodel.AttendanceSessionModel {
	for _, s := range f.sessions {
		if s.AttendanceSessionID == id {
			return s
		}
	}
	return nil
}

func (f *fakeStore) OpenSessions(companyID uuid.UUID) ([]sessmodel.AttendanceSessionModel, error) {
	var out []sessmodel.AttendanceSessionModel
	for _, s := range f.sessions {
		if s.AttendanceSessionCompanyID == companyID && s.AttendanceSessionCheckOutAt == nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) LatestHeartbeat(employeeID uuid.UUID) (*hbmodel.PresenceHeartbeatModel, error) {
	if employeeID == f.failHeartbeatFor {
		return nil, errors.New("read timeout")
	}
	return f.heartbeats[employeeID], nil
}

func (f *fakeStore) PendingForSession(sessionID uuid.UUID) (*model.PendingCheckoutModel, error) {
	for _, p := range f.pendings {
		if p.PendingCheckoutSessionID == sessionID && p.PendingCheckoutStatus == model.StatusPending {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreatePending(row *model.PendingCheckoutModel) error {
	if f.dupOnCreate {
		return errors.New(`ERROR: duplicate key value violates unique constraint "uq_pending_checkouts_session_pending"`)
	}
	row.PendingCheckoutID = uuid.New()
	cp := *row
	f.pendings = append(f.pendings, &cp)
	return nil
}

func (f *fakeStore) CancelPending(pendingID uuid.UUID, cancelReason string) (bool, error) {
	for _, p := range f.pendings {
		if p.PendingCheckoutID == pendingID && p.PendingCheckoutStatus == model.StatusPending {
			p.PendingCheckoutStatus = model.StatusCancelled
			r := cancelReason
			p.PendingCheckoutCancelReason = &r
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ExecuteCheckout(sess *sessmodel.AttendanceSessionModel, pc *model.PendingCheckoutModel, now time.Time) (string, bool, error) {
	stored := f.sessionByID(sess.AttendanceSessionID)

	if f.raceManualClose && stored != nil && stored.AttendanceSessionCheckOutAt == nil {
		// check-out manual menyelinap sebelum conditional update sweep
		t := now.Add(-time.Second)
		kind := sessmodel.CheckOutKindManual
		stored.AttendanceSessionCheckOutAt = &t
		stored.AttendanceSessionCheckOutKind = &kind
	}

	result := model.CompletionExecuted
	if stored == nil || stored.AttendanceSessionCheckOutAt != nil {
		result = model.CompletionAlreadyClosed
	} else {
		t := now
		kind := sessmodel.CheckOutKindAuto
		reason := pc.PendingCheckoutReason
		stored.AttendanceSessionCheckOutAt = &t
		stored.AttendanceSessionCheckOutKind = &kind
		stored.AttendanceSessionCheckOutReason = &reason
	}

	handled := false
	for _, p := range f.pendings {
		if p.PendingCheckoutID == pc.PendingCheckoutID && p.PendingCheckoutStatus == model.StatusPending {
			p.PendingCheckoutStatus = model.StatusDone
			t := now
			r := result
			p.PendingCheckoutCompletedAt = &t
			p.PendingCheckoutCompletionResult = &r
			handled = true
		}
	}
	delete(f.heartbeats, sess.AttendanceSessionEmployeeID)
	return result, handled, nil
}

func (f *fakeStore) SaveRun(run *model.SweepRunModel) error {
	f.runs = append(f.runs, run)
	return nil
}

/* ===================== FAKE SETTINGS ===================== */

type fakeSettings struct {
	enrolled []setmodel.CompanyAutoCheckoutSettingModel
	cached   map[uuid.UUID]setmodel.CompanyAutoCheckoutSettingModel
	getCalls int
}

func (f *fakeSettings) ListEnabled() ([]setmodel.CompanyAutoCheckoutSettingModel, error) {
	return f.enrolled, nil
}

func (f *fakeSettings) GetSettings(companyID uuid.UUID) (setmodel.CompanyAutoCheckoutSettingModel, error) {
	f.getCalls++
	if r, ok := f.cached[companyID]; ok {
		return r, nil
	}
	for _, r := range f.enrolled {
		if r.CompanyAutoCheckoutSettingCompanyID == companyID {
			return r, nil
		}
	}
	return setmodel.CompanyAutoCheckoutSettingModel{}, errors.New("settings tidak ditemukan")
}

func (f *fakeSettings) Invalidate(companyID uuid.UUID) {}

/* ===================== FIXTURE ===================== */

type sweepFixture struct {
	svc        *service.SweepService
	store      *fakeStore
	settings   *fakeSettings
	companyID  uuid.UUID
	employeeID uuid.UUID
	session    *sessmodel.AttendanceSessionModel
	now        time.Time
}

func (fx *sweepFixture) advance(d time.Duration) { fx.now = fx.now.Add(d) }

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	fx := &sweepFixture{
		store:      newFakeStore(),
		companyID:  uuid.New(),
		employeeID: uuid.New(),
		now:        time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	set := testSettings()
	set.CompanyAutoCheckoutSettingCompanyID = fx.companyID
	fx.settings = &fakeSettings{enrolled: []setmodel.CompanyAutoCheckoutSettingModel{set}}

	fx.session = &sessmodel.AttendanceSessionModel{
		AttendanceSessionID:         uuid.New(),
		AttendanceSessionCompanyID:  fx.companyID,
		AttendanceSessionEmployeeID: fx.employeeID,
		AttendanceSessionCheckInAt:  fx.now.Add(-2 * time.Hour),
	}
	fx.store.sessions = append(fx.store.sessions, fx.session)

	fx.svc = &service.SweepService{
		Store:    fx.store,
		Settings: fx.settings,
		Now:      func() time.Time { return fx.now },
	}
	return fx
}

func (fx *sweepFixture) setHeartbeatOutside(count int) {
	hb := freshHeartbeat(fx.now)
	hb.PresenceHeartbeatInsideGeofence = false
	hb.PresenceHeartbeatOutsideCount = count
	hb.PresenceHeartbeatViolationReason = hbmodel.ViolationOutOfBranch
	fx.store.heartbeats[fx.employeeID] = hb
}

func (fx *sweepFixture) setHeartbeatInside() {
	fx.store.heartbeats[fx.employeeID] = freshHeartbeat(fx.now)
}

func (fx *sweepFixture) pendingForSession() *model.PendingCheckoutModel {
	for _, p := range fx.store.pendings {
		if p.PendingCheckoutSessionID == fx.session.AttendanceSessionID &&
			p.PendingCheckoutStatus == model.StatusPending {
			return p
		}
	}
	return nil
}

/* ===================== TESTS ===================== */

func TestSweepService_Lifecycle(t *testing.T) {
	fx := newSweepFixture(t)
	fx.setHeartbeatOutside(3)

	t.Run("run pertama: pelanggaran → countdown dimulai", func(t *testing.T) {
		rep, err := fx.svc.RunOnce()
		require.NoError(t, err)
		require.Equal(t, 1, rep.Processed)
		require.Equal(t, 1, rep.Started)
		require.Equal(t, 0, rep.Executed)

		pc := fx.pendingForSession()
		require.NotNil(t, pc)
		require.True(t, pc.PendingCheckoutEndsAt.Equal(fx.now.Add(300*time.Second)))
		require.Equal(t, hbmodel.ViolationOutOfBranch, pc.PendingCheckoutReason)
	})

	t.Run("run kedua sebelum expiry: no-op, ends_at tidak berubah", func(t *testing.T) {
		endsAtBefore := fx.pendingForSession().PendingCheckoutEndsAt

		fx.advance(60 * time.Second)
		rep, err := fx.svc.RunOnce()
		require.NoError(t, err)
		require.Equal(t, 1, rep.Processed)
		require.Equal(t, 0, rep.Started) // idempoten: tidak ada countdown baru
		require.Equal(t, 0, rep.Executed)
		require.True(t, fx.pendingForSession().PendingCheckoutEndsAt.Equal(endsAtBefore))
	})

	t.Run("setelah ends_at lewat: checkout dieksekusi", func(t *testing.T) {
		fx.advance(241 * time.Second) // total 301s sejak start
		rep, err := fx.svc.RunOnce()
		require.NoError(t, err)
		require.Equal(t, 1, rep.Executed)

		require.NotNil(t, fx.session.AttendanceSessionCheckOutAt)
		require.Equal(t, sessmodel.CheckOutKindAuto, *fx.session.AttendanceSessionCheckOutKind)
		require.Equal(t, hbmodel.ViolationOutOfBranch, *fx.session.AttendanceSessionCheckOutReason)

		// pending DONE + heartbeat dibersihkan
		require.Nil(t, fx.pendingForSession())
		require.Equal(t, model.StatusDone, fx.store.pendings[0].PendingCheckoutStatus)
		require.Equal(t, model.CompletionExecuted, *fx.store.pendings[0].PendingCheckoutCompletionResult)
		require.NotContains(t, fx.store.heartbeats, fx.employeeID)
	})

	t.Run("run setelah sesi tertutup: tidak ada yang diproses", func(t *testing.T) {
		rep, err := fx.svc.RunOnce()
		require.NoError(t, err)
		require.Equal(t, 0, rep.Processed)
		require.Equal(t, 0, rep.Started)
		require.Equal(t, 0, rep.Executed)
	})

	t.Run("setiap run meninggalkan row observability", func(t *testing.T) {
		require.Len(t, fx.store.runs, 4)
	})
}

func TestSweepService_CancelOnRecovery(t *testing.T) {
	fx := newSweepFixture(t)
	fx.setHeartbeatOutside(3)

	_, err := fx.svc.RunOnce()
	require.NoError(t, err)
	require.NotNil(t, fx.pendingForSession())

	t.Run("kondisi pulih = CANCELLED di tick itu juga", func(t *testing.T) {
		fx.advance(30 * time.Second)
		fx.setHeartbeatInside()

		rep, err := fx.svc.RunOnce()
		require.NoError(t, err)
		require.Nil(t, fx.pendingForSession())
		require.Equal(t, model.StatusCancelled, fx.store.pendings[0].PendingCheckoutStatus)
		require.Equal(t, model.CancelReasonConditionsResolved, *fx.store.pendings[0].PendingCheckoutCancelReason)
		require.Equal(t, dto.ActionCountdownCancelled, rep.Details[0].Action)

		// sesi tetap terbuka
		require.Nil(t, fx.session.AttendanceSessionCheckOutAt)
	})

	t.Run("pelanggaran baru = row baru, bukan re-use row CANCELLED", func(t *testing.T) {
		fx.advance(30 * time.Second)
		fx.setHeartbeatOutside(3)

		rep, err := fx.svc.RunOnce()
		require.NoError(t, err)
		require.Equal(t, 1, rep.Started)
		require.Len(t, fx.store.pendings, 2)
		require.Equal(t, model.StatusCancelled, fx.store.pendings[0].PendingCheckoutStatus)
		require.Equal(t, model.StatusPending, fx.store.pendings[1].PendingCheckoutStatus)
	})
}

func TestSweepService_AlreadyClosedRace(t *testing.T) {
	fx := newSweepFixture(t)
	// tidak ada heartbeat sama sekali → stale, langsung melanggar
	pending := &model.PendingCheckoutModel{
		PendingCheckoutID:         uuid.New(),
		PendingCheckoutCompanyID:  fx.companyID,
		PendingCheckoutEmployeeID: fx.employeeID,
		PendingCheckoutSessionID:  fx.session.AttendanceSessionID,
		PendingCheckoutReason:     hbmodel.ViolationHeartbeatStale,
		PendingCheckoutEndsAt:     fx.now.Add(-5 * time.Second),
		PendingCheckoutStatus:     model.StatusPending,
	}
	fx.store.pendings = append(fx.store.pendings, pending)
	fx.store.raceManualClose = true

	rep, err := fx.svc.RunOnce()
	require.NoError(t, err)

	t.Run("kalah balapan dari manual = already_closed, bukan error", func(t *testing.T) {
		require.Equal(t, 0, rep.Executed)
		require.Len(t, rep.Details, 1)
		require.Equal(t, dto.ActionAlreadyClosed, rep.Details[0].Action)
	})

	t.Run("pending tetap DONE dengan result already_closed", func(t *testing.T) {
		require.Equal(t, model.StatusDone, pending.PendingCheckoutStatus)
		require.Equal(t, model.CompletionAlreadyClosed, *pending.PendingCheckoutCompletionResult)
	})

	t.Run("check-out manual tidak di-overwrite (tidak di-un-close)", func(t *testing.T) {
		require.Equal(t, sessmodel.CheckOutKindManual, *fx.session.AttendanceSessionCheckOutKind)
	})
}

func TestSweepService_DuplicateCountdownIgnored(t *testing.T) {
	fx := newSweepFixture(t)
	fx.setHeartbeatOutside(3)
	fx.store.dupOnCreate = true

	// tick lain sudah bikin row PENDING → duplicate key bukan error,
	// dan tidak dihitung sebagai "started"
	rep, err := fx.svc.RunOnce()
	require.NoError(t, err)
	require.Equal(t, 0, rep.Started)
	require.Empty(t, rep.Details)
}

func TestSweepService_SettingsResolvedThroughCache(t *testing.T) {
	fx := newSweepFixture(t)
	fx.setHeartbeatOutside(3)

	// parameter dari GetSettings (cache), bukan row enumerasi:
	// countdown beda → ends_at harus ikut nilai cache
	cached := testSettings()
	cached.CompanyAutoCheckoutSettingCompanyID = fx.companyID
	cached.CompanyAutoCheckoutSettingCountdownSeconds = 600
	fx.settings.cached = map[uuid.UUID]setmodel.CompanyAutoCheckoutSettingModel{fx.companyID: cached}

	_, err := fx.svc.RunOnce()
	require.NoError(t, err)
	require.Equal(t, 1, fx.settings.getCalls)

	pc := fx.pendingForSession()
	require.NotNil(t, pc)
	require.True(t, pc.PendingCheckoutEndsAt.Equal(fx.now.Add(600*time.Second)))
}

func TestSweepService_PerSessionErrorIsolation(t *testing.T) {
	fx := newSweepFixture(t)
	fx.setHeartbeatOutside(3)

	// sesi kedua yang heartbeat-nya gagal dibaca
	badEmployee := uuid.New()
	fx.store.sessions = append(fx.store.sessions, &sessmodel.AttendanceSessionModel{
		AttendanceSessionID:         uuid.New(),
		AttendanceSessionCompanyID:  fx.companyID,
		AttendanceSessionEmployeeID: badEmployee,
		AttendanceSessionCheckInAt:  fx.now.Add(-time.Hour),
	})
	fx.store.failHeartbeatFor = badEmployee

	rep, err := fx.svc.RunOnce()
	require.NoError(t, err)
	require.Equal(t, 2, rep.Processed)
	require.Equal(t, 1, rep.Started) // sesi sehat tetap diproses

	var errDetails int
	for _, d := range rep.Details {
		if d.Action == dto.ActionError {
			errDetails++
			require.Equal(t, badEmployee, d.EmployeeID)
		}
	}
	require.Equal(t, 1, errDetails)
}
