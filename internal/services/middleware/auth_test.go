package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	subject string
	err     error
}

func (f *fakeVerifier) VerifyToken(string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.subject, nil
}

func newTestApp(verifier TokenVerifier) *fiber.App {
	app := fiber.New()
	m := NewAuthMiddleware(verifier)
	app.Get("/protected", m.RequireAuth(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": AdminUser(c)})
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	testCases := []struct {
		name       string
		header     string
		verifier   *fakeVerifier
		wantStatus int
	}{
		{
			name:       "valid bearer token",
			header:     "Bearer good-token",
			verifier:   &fakeVerifier{subject: "admin"},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "raw token without bearer prefix",
			header:     "good-token",
			verifier:   &fakeVerifier{subject: "admin"},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing header",
			header:     "",
			verifier:   &fakeVerifier{subject: "admin"},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "rejected token",
			header:     "Bearer bad-token",
			verifier:   &fakeVerifier{err: errors.New("token is expired")},
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(tc.verifier)

			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}
