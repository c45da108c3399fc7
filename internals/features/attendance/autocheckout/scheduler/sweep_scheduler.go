package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"hadirku_backend/internals/features/attendance/autocheckout/service"
)

// StartSweepScheduler menjalankan enforcement sweep di background.
// Interval default 45 detik (range wajar 30-60), override via env.
// Endpoint trigger cron eksternal memakai service yang SAMA, jadi
// tick yang tumpang tindih terserialisasi oleh mutex service.
func StartSweepScheduler(db *gorm.DB) *service.SweepService {
	svc := service.NewSweepService(db)

	go func() {
		intervalSecs := 45
		if val := os.Getenv("SWEEP_INTERVAL_SECONDS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalSecs = parsed
			}
		}

		log.Printf("[SWEEP] scheduler aktif, interval %ds", intervalSecs)

		for {
			if _, err := svc.RunOnce(); err != nil {
				log.Printf("[SWEEP ERROR] run gagal: %v", err)
			}
			time.Sleep(time.Duration(intervalSecs) * time.Second)
		}
	}()

	return svc
}
