package clientsdk

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// Client: akses HTTP ke backend attendance untuk protokol rekonsiliasi.
type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration // default 10 detik
	Retry   RetryPolicy
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		Timeout: 10 * time.Second,
	}
}

func (cl *Client) timeout() time.Duration {
	if cl.Timeout <= 0 {
		return 10 * time.Second
	}
	return cl.Timeout
}

// envelope response helper backend: {code,status,message,data}
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type stateEnvelope struct {
	envelope
	Data *SessionState `json:"data"`
}

// StateFetcher: FetchFunc produksi untuk Reconciler.
func (cl *Client) StateFetcher() FetchFunc {
	return func(ctx context.Context) (*SessionState, error) {
		agent := fiber.Get(cl.BaseURL + "/api/u/attendance/sessions/state")
		agent.Set(fiber.HeaderAuthorization, "Bearer "+cl.Token)
		agent.Timeout(cl.timeout())

		code, body, errs := agent.Bytes()
		if len(errs) > 0 {
			return nil, errs[0]
		}
		if code != fiber.StatusOK {
			return nil, fmt.Errorf("state fetch: status %d", code)
		}

		var env stateEnvelope
		if err := sonic.Unmarshal(body, &env); err != nil {
			return nil, err
		}
		return env.Data, nil
	}
}

// CheckOut melakukan check-out manual dengan retry terbatas (jaringan
// goyang ≠ gagal permanen). Kalau semua attempt habis, biarkan — UI
// jangan diblok, poll berikutnya yang menentukan state final.
func (cl *Client) CheckOut(ctx context.Context) error {
	return cl.Retry.Do(ctx, func() error {
		agent := fiber.Post(cl.BaseURL + "/api/u/attendance/check-out")
		agent.Set(fiber.HeaderAuthorization, "Bearer "+cl.Token)
		agent.Timeout(cl.timeout())

		code, body, errs := agent.Bytes()
		if len(errs) > 0 {
			return errs[0]
		}
		// 404 NoActiveSession = sesi sudah tertutup penulis lain; sukses
		if code == fiber.StatusNotFound {
			return nil
		}
		if code != fiber.StatusOK {
			var env envelope
			_ = sonic.Unmarshal(body, &env)
			return fmt.Errorf("check-out: status %d %s", code, env.Message)
		}
		return nil
	})
}
