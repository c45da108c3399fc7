// Package clientsdk mengimplementasikan protokol rekonsiliasi klien:
// state countdown SELALU direkonstruksi dari server (ends_at verbatim),
// timer lokal cuma untuk display. Dipakai aplikasi karyawan (wrapper
// mobile/web) yang bisa mati/refresh/putus jaringan kapan saja.
package clientsdk

import (
	"math"
	"time"
)

type State string

const (
	StateIdle      State = "IDLE"
	StateCountdown State = "COUNTDOWN"
	StateExecuting State = "EXECUTING"
	StateDone      State = "DONE"
	StateCancelled State = "CANCELLED"
)

// Mirror payload GET /api/u/attendance/sessions/state
type SessionInfo struct {
	CheckOutAt     *time.Time `json:"check_out_at"`
	CheckOutKind   *string    `json:"check_out_kind"`
	CheckOutReason *string    `json:"check_out_reason"`
	IsOpen         bool       `json:"is_open"`
}

type PendingInfo struct {
	Status string    `json:"status"`
	Reason string    `json:"reason"`
	EndsAt time.Time `json:"ends_at"`
}

type SessionState struct {
	Session *SessionInfo `json:"session"`
	Pending *PendingInfo `json:"pending_checkout"`
}

// Remaining: sisa detik countdown, murni fungsi (ends_at, now).
// Klien dilarang menyimpan "remaining" sebagai state otoritatif —
// reconnect kapan pun menghasilkan angka yang sama (±1 tick).
func Remaining(endsAt, now time.Time) int {
	d := endsAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
