package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecosystem-api/internal/application/auth"
	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/ecosystem-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/ecosystem-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "ecosystem-test"
	testExpMin    = 60
)

func newAuthUseCase(revoked *memory.RevocationStore) *auth.AuthUseCase {
	return auth.NewAuthUseCase(
		memory.NewUserRepository(),
		memory.NewPasswordResetRepository(),
		revoked,
		nil,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		auth.ResetConfig{},
		nil,
	)
}

// buildMiddlewareApp construye una aplicación Fiber mínima con AuthMiddleware y un
// handler dummy que devuelve lo que dejó en Locals.
func buildMiddlewareApp(revoked *memory.RevocationStore) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	app.Get("/protected",
		apphttp.AuthMiddleware(newAuthUseCase(revoked)),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"userId":  apphttp.GetUserID(c),
				"tokenId": apphttp.GetTokenID(c),
				"hasExp":  !apphttp.GetTokenExpiry(c).IsZero(),
			})
		},
	)
	return app
}

func bearer(t *testing.T, secret string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testUserID, "Ana", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValidoCargaLocals(t *testing.T) {
	app := buildMiddlewareApp(memory.NewRevocationStore())

	resp := doRequest(t, app, bearer(t, testJWTSecret))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["userId"])
	assert.NotEmpty(t, body["tokenId"])
	assert.Equal(t, true, body["hasExp"])
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	resp := doRequest(t, buildMiddlewareApp(memory.NewRevocationStore()), "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	resp := doRequest(t, buildMiddlewareApp(memory.NewRevocationStore()), "Token abc")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	resp := doRequest(t, buildMiddlewareApp(memory.NewRevocationStore()), bearer(t, "otro-secret"))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_TokenRevocado(t *testing.T) {
	revoked := memory.NewRevocationStore()
	app := buildMiddlewareApp(revoked)
	header := bearer(t, testJWTSecret)

	claims, err := pkgjwt.Parse(testJWTSecret, header[len("Bearer "):])
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), claims.ID, time.Now().Add(time.Hour)))

	resp := doRequest(t, app, header)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "REVOKED_TOKEN", errorCode(t, resp))
}
