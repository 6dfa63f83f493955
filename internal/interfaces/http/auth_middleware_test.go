package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Manufactura-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Manufactura-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUsername  = "operador1"
	testIssuer    = "manufactura-api-test"
	testExpMin    = 60
)

// guardedApp expone /guarded detrás de AuthMiddleware + RequireRole y
// devuelve los claims que llegaron al handler.
func guardedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id":  apphttp.GetUserID(c),
				"username": apphttp.GetUsername(c),
				"role":     apphttp.GetRole(c),
			})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func callGuarded(t *testing.T, app *fiber.App, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// Matriz de roles de los grupos del router: bodega, planificación y solo admin.
func TestRequireRole_MatrizDeGrupos(t *testing.T) {
	groups := map[string][]string{
		"bodega":        {apphttp.RoleAdmin, apphttp.RoleBodeguero},
		"planificacion": {apphttp.RoleAdmin, apphttp.RoleSupervisor},
		"admin":         {apphttp.RoleAdmin},
	}
	cases := []struct {
		group string
		role  string
		want  int
	}{
		{"bodega", apphttp.RoleAdmin, http.StatusOK},
		{"bodega", apphttp.RoleBodeguero, http.StatusOK},
		{"bodega", apphttp.RoleSupervisor, http.StatusForbidden},
		{"planificacion", apphttp.RoleSupervisor, http.StatusOK},
		{"planificacion", apphttp.RoleBodeguero, http.StatusForbidden},
		{"admin", apphttp.RoleAdmin, http.StatusOK},
		{"admin", apphttp.RoleSupervisor, http.StatusForbidden},
		{"admin", "vendedor", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.group+"/"+tc.role, func(t *testing.T) {
			status, body := callGuarded(t, guardedApp(groups[tc.group]...), tokenForRole(t, tc.role))
			assert.Equal(t, tc.want, status)
			if tc.want == http.StatusForbidden {
				assert.Contains(t, body, "FORBIDDEN")
			}
		})
	}
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	sinRol, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, "", testIssuer, testExpMin)
	require.NoError(t, err)
	expirado, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, apphttp.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"firma inválida", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expirado, "INVALID_TOKEN"},
		{"sin rol", "Bearer " + sinRol, "MISSING_ROLE"},
	}
	app := guardedApp(apphttp.RoleAdmin)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := callGuarded(t, app, tc.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, body, tc.code)
		})
	}
}

func TestAuthMiddleware_DejaClaimsEnLocals(t *testing.T) {
	status, body := callGuarded(t, guardedApp(apphttp.RoleBodeguero), tokenForRole(t, apphttp.RoleBodeguero))
	require.Equal(t, http.StatusOK, status)

	var claims map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &claims))
	assert.Equal(t, testUserID, claims["user_id"])
	assert.Equal(t, testUsername, claims["username"])
	assert.Equal(t, apphttp.RoleBodeguero, claims["role"])
}

func TestJWT_ParseConSecretAjeno(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testUsername, apphttp.RoleSupervisor, testIssuer, testExpMin)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, apphttp.RoleSupervisor, claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}
