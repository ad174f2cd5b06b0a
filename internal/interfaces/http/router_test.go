package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/ecosystem-api/internal/application/analytics"
	"github.com/jhoicas/ecosystem-api/internal/application/auth"
	"github.com/jhoicas/ecosystem-api/internal/application/dto"
	"github.com/jhoicas/ecosystem-api/internal/application/inventory"
	"github.com/jhoicas/ecosystem-api/internal/application/usecase"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/memory"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ecosystem-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/ecosystem-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository()
	authUC := auth.NewAuthUseCase(
		users,
		memory.NewPasswordResetRepository(),
		memory.NewRevocationStore(),
		nil,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		auth.ResetConfig{BaseURL: "https://app.local/redefinir"},
		nil,
	).WithBcryptCost(bcrypt.MinCost)
	balanceUC := inventory.NewBalanceUseCase(store)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil)})
	app.Use(apphttp.RequestLogger(nil, nil))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           authUC,
		UserUC:           usecase.NewUserUseCase(users),
		MaterialUC:       usecase.NewMaterialUseCase(store),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, nil, nil),
		BalanceUC:        balanceUC,
		ReportUC:         inventory.NewReportUseCase(balanceUC, xlsx.NewBalanceExporter(), pdf.NewMarotoPDFGenerator("Estoque")),
		DashboardUC:      appanalytics.NewDashboardUseCase(balanceUC, 10),
	})
	return &testAPI{t: t, app: app}
}

func (a *testAPI) do(method, path string, body any) *http.Response {
	a.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// login registra un usuario y guarda su token para las siguientes peticiones.
func (a *testAPI) login() dto.AuthResponse {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/auth/registro", dto.RegisterRequest{Nome: "Ana", Email: "ana@mail.com", Senha: "segredo1"})
	require.Equal(a.t, fiber.StatusCreated, resp.StatusCode)
	out := decode[dto.AuthResponse](a.t, resp)
	a.token = out.Token
	return out
}

func (a *testAPI) material(nome string) int64 {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/materiais", dto.MaterialRequest{Nome: nome, Descricao: "desc", Unidade: "un"})
	require.Equal(a.t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.MaterialResponse](a.t, resp).ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RegistroLoginYMe(t *testing.T) {
	api := newTestAPI(t)
	reg := api.login()
	assert.Equal(t, "ana@mail.com", reg.Usuario.Email)

	resp := api.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "ana@mail.com", Senha: "segredo1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, reg.Usuario.ID, decode[dto.UserResponse](t, resp).ID)
}

func TestRouter_RegistroEmailDuplicado(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	resp := api.do(http.MethodPost, "/api/auth/registro", dto.RegisterRequest{Nome: "Otra", Email: "ANA@mail.com", Senha: "segredo2"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRouter_RegistroInvalido(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(http.MethodPost, "/api/auth/registro", dto.RegisterRequest{Nome: "Ana", Email: "no-es-email", Senha: "123"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Contains(t, body.Message, "email")
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	resp := api.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "ana@mail.com", Senha: "errada"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RecuperacaoSiempre202(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(http.MethodPost, "/api/auth/recuperacao", dto.PasswordRecoveryRequest{Email: "nadie@mail.com"})
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
}

func TestRouter_RedefinirSenhaTokenInvalido(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(http.MethodPost, "/api/auth/redefinir-senha", dto.PasswordResetRequest{Token: "abc", NovaSenha: "nova-senha"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidResetToken, decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_LogoutRevocaToken(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	resp := api.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/materiais", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_AlterarSenha(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	resp := api.do(http.MethodPost, "/api/auth/alterar-senha", dto.ChangePasswordRequest{SenhaAtual: "errada", NovaSenha: "nova-senha"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = api.do(http.MethodPost, "/api/auth/alterar-senha", dto.ChangePasswordRequest{SenhaAtual: "segredo1", NovaSenha: "nova-senha"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "ana@mail.com", Senha: "nova-senha"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	api := newTestAPI(t)
	for _, path := range []string{"/api/materiais", "/api/estoque/saldo", "/api/dashboard/resumo", "/api/estoque/relatorio.pdf"} {
		resp := api.do(http.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Materiais
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_MaterialCRUD(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	id := api.material("Cimento")

	resp := api.do(http.MethodPut, fmt.Sprintf("/api/materiais/%d", id), dto.MaterialRequest{Nome: "Cimento CP-II", Descricao: "saco 50kg", Unidade: "sc"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Cimento CP-II", decode[dto.MaterialResponse](t, resp).Nome)

	resp = api.do(http.MethodGet, "/api/materiais", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.MaterialResponse](t, resp), 1)

	resp = api.do(http.MethodDelete, fmt.Sprintf("/api/materiais/%d", id), nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = api.do(http.MethodGet, fmt.Sprintf("/api/materiais/%d", id), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_MaterialNombreDuplicado(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	api.material("Areia")
	resp := api.do(http.MethodPost, "/api/materiais", dto.MaterialRequest{Nome: "areia", Descricao: "d", Unidade: "m3"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRouter_MaterialIDInvalido(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	resp := api.do(http.MethodGet, "/api/materiais/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouter_MaterialConSaldoNoSeElimina(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	id := api.material("Brita")
	resp := api.do(http.MethodPost, "/api/estoque/entrada", map[string]any{"materialId": id, "quantidade": 3, "precoUnitario": "10"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = api.do(http.MethodDelete, fmt.Sprintf("/api/materiais/%d", id), nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estoque
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_EntradaFormatosAceptados(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	id := api.material("Tijolo")

	// línea suelta con alias preco
	resp := api.do(http.MethodPost, "/api/estoque/entrada", map[string]any{"materialId": id, "quantidade": 10, "preco": 2})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	batch := decode[dto.BatchResponse](t, resp)
	assert.NotEmpty(t, batch.BatchID)
	require.Len(t, batch.Saldos, 1)
	assert.Equal(t, int64(10), batch.Saldos[0].Quantidade)

	// array
	resp = api.do(http.MethodPost, "/api/estoque/entrada", []map[string]any{{"materialId": id, "quantidade": 10, "precoUnitario": "4"}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// envoltorio
	resp = api.do(http.MethodPost, "/api/estoque/entrada", map[string]any{
		"movimentacoes": []map[string]any{{"materialId": id, "quantidade": 5, "precoUnitario": "3"}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = api.do(http.MethodGet, fmt.Sprintf("/api/estoque/saldo/%d", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	bal := decode[dto.BalanceResponse](t, resp)
	assert.Equal(t, int64(25), bal.Quantidade)
	// (10*2 + 10*4 + 5*3) / 25 = 3
	assert.Equal(t, "3", bal.PrecoMedio.String())
}

func TestRouter_SaidaInsuficienteRechazaLote(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	a := api.material("Prego")
	b := api.material("Parafuso")
	resp := api.do(http.MethodPost, "/api/estoque/entrada", []map[string]any{
		{"materialId": a, "quantidade": 5, "precoUnitario": "1"},
		{"materialId": b, "quantidade": 5, "precoUnitario": "1"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = api.do(http.MethodPost, "/api/estoque/saida", []map[string]any{
		{"materialId": a, "quantidade": 2},
		{"materialId": b, "quantidade": 6},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeInsufficientStock, body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, 1, body.Details[0].Line)
	assert.Equal(t, b, body.Details[0].MaterialID)

	// ninguna línea se registró
	resp = api.do(http.MethodGet, fmt.Sprintf("/api/estoque/saldo/%d", a), nil)
	assert.Equal(t, int64(5), decode[dto.BalanceResponse](t, resp).Quantidade)
}

func TestRouter_LoteMixtoPriorizaNotFound(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	a := api.material("Cal")

	resp := api.do(http.MethodPost, "/api/estoque/saida", []map[string]any{
		{"materialId": a, "quantidade": 1},
		{"materialId": 9999, "quantidade": 1},
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	require.Len(t, body.Details, 2)
	assert.Equal(t, apphttp.CodeInsufficientStock, body.Details[0].Code)
	assert.Equal(t, apphttp.CodeNotFound, body.Details[1].Code)
}

func TestRouter_LoteMixtoPriorizaValidacion(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	a := api.material("Gesso")

	resp := api.do(http.MethodPost, "/api/estoque/saida", []map[string]any{
		{"materialId": a, "quantidade": 1},
		{"materialId": a, "quantidade": 0},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	require.Len(t, body.Details, 2)
	assert.Equal(t, apphttp.CodeInsufficientStock, body.Details[0].Code)
	assert.Equal(t, apphttp.CodeValidation, body.Details[1].Code)
}

func TestRouter_EntradaCuerpoInvalido(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	resp := api.do(http.MethodPost, "/api/estoque/entrada", "[]")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "lote vacío")

	resp = api.do(http.MethodPost, "/api/estoque/entrada", "42")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodPost, "/api/estoque/entrada", `{"materialId": "x"`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouter_EntradaCantidadInvalida(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	id := api.material("Tinta")
	resp := api.do(http.MethodPost, "/api/estoque/entrada", map[string]any{"materialId": id, "quantidade": 0, "precoUnitario": "5"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	require.Len(t, body.Details, 1)
	assert.Equal(t, apphttp.CodeValidation, body.Details[0].Code)
}

func TestRouter_Movimentacoes(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	id := api.material("Arame")
	api.do(http.MethodPost, "/api/estoque/entrada", map[string]any{"materialId": id, "quantidade": 4, "precoUnitario": "2"})
	api.do(http.MethodPost, "/api/estoque/saida", map[string]any{"materialId": id, "quantidade": 1})

	resp := api.do(http.MethodGet, fmt.Sprintf("/api/estoque/movimentacoes?materialId=%d&tipo=saida", id), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[[]dto.MovementResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "saida", list[0].Tipo)

	resp = api.do(http.MethodGet, "/api/estoque/movimentacoes?tipo=ajuste", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Informes y dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ExportXLSXNoEsCapturadoPorParametro(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	api.material("Madeira")

	resp := api.do(http.MethodGet, "/api/estoque/saldo/export.xlsx", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestRouter_RelatorioPDF(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	api.material("Telha")

	resp := api.do(http.MethodGet, "/api/estoque/relatorio.pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRouter_DashboardResumo(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	a := api.material("Cimento")
	b := api.material("Areia")
	api.do(http.MethodPost, "/api/estoque/entrada", []map[string]any{
		{"materialId": a, "quantidade": 3, "precoUnitario": "10"},
		{"materialId": b, "quantidade": 50, "precoUnitario": "1.5"},
	})

	resp := api.do(http.MethodGet, "/api/dashboard/resumo", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	sum := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 2, sum.TotalMateriais)
	assert.Equal(t, "105", sum.ValorTotalEstoque.String())
	require.Len(t, sum.ItensBaixoEstoque, 1)
	assert.Equal(t, "Cimento", sum.ItensBaixoEstoque[0].Material)
}

func TestRouter_RutaInexistente(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(http.MethodGet, "/api/nada", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, decode[dto.ErrorResponse](t, resp).Code)
}
