package clientsdk

import (
	"context"
	"sync"
	"time"
)

// FetchFunc mengambil state server. Implementasi produksi pakai HTTP
// (lihat client.go); test meng-inject fake.
type FetchFunc func(ctx context.Context) (*SessionState, error)

type Snapshot struct {
	State            State
	RemainingSeconds int
	EndsAt           *time.Time
}

// Reconciler menjaga state display klien konsisten dengan server.
// Sumber trigger resync (timer poll, focus, visibility, manual) semua
// bermuara ke satu jalur Refresh — logika update state tidak peduli
// trigger-nya apa.
type Reconciler struct {
	Fetch        FetchFunc
	PollInterval time.Duration // default 10 detik (range wajar 5-15)
	Now          func() time.Time
	OnChange     func(Snapshot)

	mu     sync.Mutex
	state  State
	endsAt *time.Time
	resync chan struct{}
}

func NewReconciler(fetch FetchFunc) *Reconciler {
	return &Reconciler{
		Fetch:        fetch,
		PollInterval: 10 * time.Second,
		Now:          time.Now,
		state:        StateIdle,
		resync:       make(chan struct{}, 1),
	}
}

/* ===================== REFRESH (SERVER = TRUTH) ===================== */

// Refresh menarik state server dan menerapkannya. Saat fetch gagal
// (offline), state lokal dibiarkan — countdown terus jalan kosmetik,
// poll berikutnya yang mengoreksi.
func (r *Reconciler) Refresh(ctx context.Context) error {
	st, err := r.Fetch(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case st == nil || st.Session == nil:
		r.state = StateIdle
		r.endsAt = nil

	case !st.Session.IsOpen:
		r.state = StateDone
		r.endsAt = nil

	case st.Pending != nil && st.Pending.Status == "PENDING":
		// ends_at dipakai VERBATIM — tidak pernah dihitung ulang lokal
		e := st.Pending.EndsAt
		r.endsAt = &e
		if Remaining(e, r.Now()) == 0 {
			r.state = StateExecuting
		} else {
			r.state = StateCountdown
		}

	case st.Pending != nil && st.Pending.Status == "CANCELLED" &&
		(r.state == StateCountdown || r.state == StateExecuting):
		// countdown dibatalkan server; tick berikutnya balik ke IDLE
		r.state = StateCancelled
		r.endsAt = nil

	default:
		r.state = StateIdle
		r.endsAt = nil
	}

	r.emitLocked()
	return nil
}

/* ===================== TICK DISPLAY (1 DETIK) ===================== */

// Tick cuma memperbarui display. TIDAK pernah menutup sesi atau
// mengubah state server: remaining 0 → tampil EXECUTING dan tunggu
// poll berikutnya melihat DONE dari server.
func (r *Reconciler) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateCountdown:
		if r.endsAt != nil && Remaining(*r.endsAt, r.Now()) == 0 {
			r.state = StateExecuting
		}
	case StateCancelled:
		r.state = StateIdle
	}

	r.emitLocked()
}

func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Reconciler) snapshotLocked() Snapshot {
	snap := Snapshot{State: r.state, EndsAt: r.endsAt}
	if r.endsAt != nil {
		snap.RemainingSeconds = Remaining(*r.endsAt, r.Now())
	}
	return snap
}

func (r *Reconciler) emitLocked() {
	if r.OnChange != nil {
		r.OnChange(r.snapshotLocked())
	}
}

/* ===================== LOOP ===================== */

// Resync minta refresh segera (focus/visibility regain, tombol manual).
// Non-blocking; trigger yang numpuk di-collapse jadi satu.
func (r *Reconciler) Resync() {
	select {
	case r.resync <- struct{}{}:
	default:
	}
}

// Run menjalankan loop poll + tick sampai ctx selesai.
func (r *Reconciler) Run(ctx context.Context) {
	_ = r.Refresh(ctx) // mount

	interval := r.PollInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	poll := time.NewTicker(interval)
	defer poll.Stop()
	display := time.NewTicker(time.Second)
	defer display.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			_ = r.Refresh(ctx)
		case <-r.resync:
			_ = r.Refresh(ctx)
		case <-display.C:
			r.Tick()
		}
	}
}
