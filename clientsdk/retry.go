package clientsdk

import (
	"context"
	"time"
)

// RetryPolicy: retry terbatas dengan delay tetap. SELALU berhenti —
// otoritas final bukan keberhasilan retry, tapi poll server berikutnya.
type RetryPolicy struct {
	Attempts int           // default 3
	Delay    time.Duration // default 2 detik
}

func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := p.Delay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
