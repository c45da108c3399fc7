// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // pakai cookie access_token jika tidak ada Bearer
	Leeway              time.Duration
}

// AuthJWT memverifikasi access token karyawan dan menyimpan
// employee_id + company_id ke locals. Penerbitan token sendiri
// dilakukan service auth terpisah (di luar repo ini).
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret wajib diisi")
	}
	leeway := o.Leeway
	if leeway <= 0 {
		leeway = 30 * time.Second
	}

	return func(c *fiber.Ctx) error {
		// 1) Ambil token: Authorization: Bearer xxx (atau cookie jika diizinkan)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verifikasi algoritma
		claims := jwt.MapClaims{}
		parser := jwt.NewParser(jwt.WithLeeway(leeway))
		tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		// Simpan raw claims (opsional)
		c.Locals("jwt_claims", claims)

		// === HYDRATE LOCALS YANG DIHARAPKAN HELPER ===

		// employee_id: ambil employee_id/sub dalam urutan preferensi
		empID := strClaim(claims, "employee_id")
		if empID == "" {
			empID = strClaim(claims, "sub")
		}
		if empID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - employee ID tidak ada di token")
		}
		if _, err := uuid.Parse(empID); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - employee ID tidak valid")
		}
		c.Locals("employee_id", empID)

		// company_id (tenant aktif)
		compID := strClaim(claims, "company_id")
		if compID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - company ID tidak ada di token")
		}
		if _, err := uuid.Parse(compID); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - company ID tidak valid")
		}
		c.Locals("company_id", compID)

		if v, ok := claims["role"].(string); ok {
			c.Locals("role", v)
		}

		return c.Next()
	}
}

func strClaim(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
