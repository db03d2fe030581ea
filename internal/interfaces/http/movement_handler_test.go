package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	apphttp "github.com/JonaTomas14/InsumosArica/internal/interfaces/http"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const movID = "11111111-1111-1111-1111-111111111111"

// stubPoster devuelve err o un movimiento POSTEADO y recuerda el tipo pedido.
type stubPoster struct {
	err      error
	lastKind entity.MovementKind
}

func (s *stubPoster) Post(_ context.Context, kind entity.MovementKind, id string) (*dto.MovementResponse, error) {
	s.lastKind = kind
	if s.err != nil {
		return nil, s.err
	}
	return &dto.MovementResponse{ID: id, Kind: string(kind), Status: string(entity.StatusPosted)}, nil
}

type stubEditor struct {
	created  dto.CreateMovementRequest
	userID   string
	getErr   error
	listArgs []string
}

func (s *stubEditor) Create(_ context.Context, kind entity.MovementKind, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	s.created, s.userID = in, userID
	return &dto.MovementResponse{ID: movID, Kind: string(kind), Status: string(entity.StatusDraft)}, nil
}

func (s *stubEditor) Update(_ context.Context, kind entity.MovementKind, id string, _ dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	return nil, domain.ErrPostedImmutable
}

func (s *stubEditor) Delete(context.Context, entity.MovementKind, string) error { return nil }

func (s *stubEditor) GetByID(_ context.Context, kind entity.MovementKind, id string) (*dto.MovementResponse, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &dto.MovementResponse{ID: id, Kind: string(kind)}, nil
}

func (s *stubEditor) List(_ context.Context, kind entity.MovementKind, status entity.MovementStatus, warehouseID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	s.listArgs = []string{string(kind), string(status), warehouseID}
	return &dto.MovementListResponse{Items: []dto.MovementResponse{}, Page: dto.PageResponse{Limit: page.Limit}}, nil
}

func movementApp(poster *stubPoster, editor *stubEditor, userID string) *fiber.App {
	app := fiber.New()
	if userID != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(apphttp.LocalUserID, userID)
			return c.Next()
		})
	}
	apphttp.NewMovementHandler(entity.KindInbound, editor, poster).Register(app.Group("/api/movements-entrada"))
	apphttp.NewMovementHandler(entity.KindOutbound, editor, poster).Register(app.Group("/api/movements-salida"))
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestPostear_OK(t *testing.T) {
	poster := &stubPoster{}
	app := movementApp(poster, &stubEditor{}, "")

	resp, body := send(t, app, http.MethodPost, "/api/movements-salida/"+movID+"/postear", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "POSTED", body["status"])
	assert.Equal(t, entity.KindOutbound, poster.lastKind)

	resp, _ = send(t, app, http.MethodPost, "/api/movements-entrada/"+movID+"/postear", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.KindInbound, poster.lastKind)
}

func TestPostear_RechazosResponden400ConDetail(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		detail string
	}{
		{
			name: "stock insuficiente",
			err: &domain.InsufficientStockError{
				SKU: "X1", Available: decimal.NewFromInt(3), Requested: decimal.NewFromInt(5),
			},
			code:   "INSUFFICIENT_STOCK",
			detail: "Stock insuficiente para X1. Disponible: 3.000, solicitado: 5.000",
		},
		{
			name:   "fracción",
			err:    &domain.FractionNotAllowedError{SKU: "Q1", Quantity: decimal.RequireFromString("2.5")},
			code:   "FRACTION_NOT_ALLOWED",
			detail: "El producto Q1 no permite fracciones.",
		},
		{name: "sin líneas", err: domain.ErrEmptyMovement, code: "EMPTY_MOVEMENT", detail: domain.ErrEmptyMovement.Error()},
		{name: "ya posteado", err: domain.ErrInvalidState, code: "INVALID_STATE", detail: domain.ErrInvalidState.Error()},
		{name: "línea inválida", err: &domain.InvalidLineError{Quantity: decimal.Zero}, code: "INVALID_LINE", detail: domain.ErrInvalidLine.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := movementApp(&stubPoster{err: tc.err}, &stubEditor{}, "")
			resp, body := send(t, app, http.MethodPost, "/api/movements-salida/"+movID+"/postear", "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.code, body["code"])
			assert.Equal(t, tc.detail, body["detail"])
		})
	}
}

func TestPostear_NoEncontradoYTimeout(t *testing.T) {
	app := movementApp(&stubPoster{err: domain.ErrNotFound}, &stubEditor{}, "")
	resp, _ := send(t, app, http.MethodPost, "/api/movements-entrada/"+movID+"/postear", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = send(t, app, http.MethodPost, "/api/movements-entrada/no-es-uuid/postear", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	app = movementApp(&stubPoster{err: domain.ErrConcurrencyTimeout}, &stubEditor{}, "")
	resp, body := send(t, app, http.MethodPost, "/api/movements-entrada/"+movID+"/postear", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, "CONCURRENCY_TIMEOUT", body["code"])
}

func TestCreate_ValidaYPasaUsuario(t *testing.T) {
	editor := &stubEditor{}
	app := movementApp(&stubPoster{}, editor, "user-7")

	resp, body := send(t, app, http.MethodPost, "/api/movements-entrada",
		`{"warehouse_id":"`+movID+`","lines":[{"product_id":"no-uuid","quantity":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
	fields, _ := body["fields"].([]any)
	require.Len(t, fields, 1)
	assert.Equal(t, "lines[0].product_id", fields[0].(map[string]any)["field"])

	resp, body = send(t, app, http.MethodPost, "/api/movements-entrada",
		`{"warehouse_id":"`+movID+`","reference":"OC-1","lines":[{"product_id":"`+movID+`","quantity":"2.5"}]}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "DRAFT", body["status"])
	assert.Equal(t, "user-7", editor.userID)
	require.Len(t, editor.created.Lines, 1)
	assert.True(t, decimal.RequireFromString("2.5").Equal(editor.created.Lines[0].Quantity))

	resp, body = send(t, app, http.MethodPost, "/api/movements-entrada", `{"warehouse_id":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", body["code"])
}

func TestUpdateDeleteGetList(t *testing.T) {
	editor := &stubEditor{}
	app := movementApp(&stubPoster{}, editor, "")

	resp, body := send(t, app, http.MethodPut, "/api/movements-salida/"+movID, `{"reference":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", body["code"])

	resp, _ = send(t, app, http.MethodDelete, "/api/movements-salida/"+movID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = send(t, app, http.MethodGet, "/api/movements-salida/"+movID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OUT", body["kind"])

	editor.getErr = domain.ErrNotFound
	resp, _ = send(t, app, http.MethodGet, "/api/movements-salida/"+movID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = send(t, app, http.MethodGet, "/api/movements-entrada?status=POSTED&warehouse_id=w1&limit=5", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"IN", "POSTED", "w1"}, editor.listArgs)

	resp, _ = send(t, app, http.MethodGet, "/api/movements-entrada?status=ANULADO", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
