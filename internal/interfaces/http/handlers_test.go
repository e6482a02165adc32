package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/jhoicas/pedidos-api/internal/domain"
	"github.com/jhoicas/pedidos-api/internal/domain/bulk"
	apphttp "github.com/jhoicas/pedidos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pedidos-api/pkg/jwt"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeOrders struct {
	err       error
	lastAdd   dto.AddItemRequest
	lastBulk  dto.AddBulkRequest
	lastEdit  dto.EditItemRequest
	companyID string
	itemID    string
}

func (f *fakeOrders) resp(orderID string) *dto.OrderItemsResponse {
	return &dto.OrderItemsResponse{OrderID: orderID, Status: "DRAFT", Items: []dto.OrderLineItemResponse{}}
}

func (f *fakeOrders) ListItems(_ context.Context, companyID, orderID string) (*dto.OrderItemsResponse, error) {
	f.companyID = companyID
	if f.err != nil {
		return nil, f.err
	}
	return f.resp(orderID), nil
}

func (f *fakeOrders) AddItem(_ context.Context, _, orderID string, in dto.AddItemRequest) (*dto.OrderItemsResponse, error) {
	f.lastAdd = in
	if f.err != nil {
		return nil, f.err
	}
	return f.resp(orderID), nil
}

func (f *fakeOrders) AddBulk(_ context.Context, _, orderID string, in dto.AddBulkRequest) (*dto.OrderItemsResponse, error) {
	f.lastBulk = in
	if f.err != nil {
		return nil, f.err
	}
	return f.resp(orderID), nil
}

func (f *fakeOrders) EditItem(_ context.Context, _, orderID, itemID string, in dto.EditItemRequest) (*dto.OrderItemsResponse, error) {
	f.lastEdit = in
	f.itemID = itemID
	if f.err != nil {
		return nil, f.err
	}
	return f.resp(orderID), nil
}

func (f *fakeOrders) RemoveItem(_ context.Context, _, orderID, itemID string) (*dto.OrderItemsResponse, error) {
	f.itemID = itemID
	if f.err != nil {
		return nil, f.err
	}
	return f.resp(orderID), nil
}

type fakeReconciliation struct {
	err      error
	raw      []byte
	strategy string
	format   string
}

func (f *fakeReconciliation) Compare(_ context.Context, _, orderID string, raw []byte, strategy string) (*dto.ReconciliationResponse, error) {
	f.raw = append([]byte(nil), raw...)
	f.strategy = strategy
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ReconciliationResponse{OrderID: orderID, Strategy: strategy}, nil
}

func (f *fakeReconciliation) ExportPendency(_ context.Context, _, _ string, raw []byte, strategy, format string) (*dto.ExportFile, error) {
	f.raw = append([]byte(nil), raw...)
	f.strategy = strategy
	f.format = format
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ExportFile{FileName: "pendencias-P-1.xlsx", ContentType: "application/octet-stream", Content: []byte("XLSX")}, nil
}

func newRouterApp(orders *fakeOrders, rec *fakeReconciliation) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Orders:          orders,
		Reconciliation:  rec,
		MaxDocumentSize: 1 << 10,
		JWTSecret:       testJWTSecret,
		JWTIssuer:       testIssuer,
		Log:             zerolog.Nop(),
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, contentType string, body io.Reader, role string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func sendJSON(t *testing.T, app *fiber.App, method, path, body, role string) *http.Response {
	t.Helper()
	return send(t, app, method, path, fiber.MIMEApplicationJSON, bytes.NewBufferString(body), role)
}

// ── Líneas del pedido ────────────────────────────────────────────────────────

func TestOrderHandler_AddItem_Creado(t *testing.T) {
	orders := &fakeOrders{}
	app := newRouterApp(orders, &fakeReconciliation{})

	resp := sendJSON(t, app, http.MethodPost, "/api/orders/o-1/items", `{"code":"ABC123","quantity":10}`, pkgjwt.RoleSeller)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ABC123", orders.lastAdd.Code)
	assert.Equal(t, 10, orders.lastAdd.Quantity)

	var out dto.OrderItemsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "o-1", out.OrderID)
}

func TestOrderHandler_AddItem_Validacion(t *testing.T) {
	app := newRouterApp(&fakeOrders{}, &fakeReconciliation{})

	cases := map[string]string{
		"sin código":      `{"quantity":1}`,
		"cantidad cero":   `{"code":"A","quantity":0}`,
		"cliente no uuid": `{"code":"A","quantity":1,"customer_id":"x"}`,
		"json roto":       `{"code":`,
	}
	for name, body := range cases {
		resp := sendJSON(t, app, http.MethodPost, "/api/orders/o-1/items", body, pkgjwt.RoleAdmin)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
		resp.Body.Close()
	}
}

func TestOrderHandler_ConferenteNoEdita(t *testing.T) {
	app := newRouterApp(&fakeOrders{}, &fakeReconciliation{})

	resp := sendJSON(t, app, http.MethodPost, "/api/orders/o-1/items", `{"code":"A","quantity":1}`, pkgjwt.RoleReconciler)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	list := sendJSON(t, app, http.MethodGet, "/api/orders/o-1/items", "", pkgjwt.RoleReconciler)
	defer list.Body.Close()
	assert.Equal(t, http.StatusOK, list.StatusCode, "conferente puede ver las líneas")
}

func TestOrderHandler_AddBulk_ErroresPorLinea(t *testing.T) {
	orders := &fakeOrders{err: bulk.Errors{
		{Line: 2, Code: "", Reason: "cantidad inválida", Err: domain.ErrInvalidInput},
		{Line: 3, Code: "BADCODE", Reason: "código no existe", Err: fmt.Errorf("%w: BADCODE", domain.ErrNotFound)},
	}}
	app := newRouterApp(orders, &fakeReconciliation{})

	resp := sendJSON(t, app, http.MethodPost, "/api/orders/o-1/items/bulk", `{"text":"ABC123 10\nX -4\nBADCODE 2"}`, pkgjwt.RoleSeller)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "ABC123 10\nX -4\nBADCODE 2", orders.lastBulk.Text)

	var out dto.BulkErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Errors, 2)
	assert.Equal(t, "INVALID_FORMAT", out.Errors[0].Kind)
	assert.Equal(t, 3, out.Errors[1].Line)
	assert.Equal(t, "NOT_FOUND", out.Errors[1].Kind)
	assert.Equal(t, "BADCODE", out.Errors[1].Code)
}

func TestOrderHandler_EditItem(t *testing.T) {
	orders := &fakeOrders{}
	app := newRouterApp(orders, &fakeReconciliation{})

	resp := sendJSON(t, app, http.MethodPatch, "/api/orders/o-1/items/it-9", `{"unit_price":"80.00"}`, pkgjwt.RoleAdmin)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "it-9", orders.itemID)
	require.NotNil(t, orders.lastEdit.UnitPrice)
	assert.True(t, decimal.NewFromInt(80).Equal(*orders.lastEdit.UnitPrice))
	assert.Nil(t, orders.lastEdit.DiscountPercentage)
}

func TestOrderHandler_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: línea", domain.ErrNotFound), http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: pedido confirmado", domain.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: precio y descuento", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("conexión rota"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := newRouterApp(&fakeOrders{err: tc.err}, &fakeReconciliation{})
		resp := sendJSON(t, app, http.MethodDelete, "/api/orders/o-1/items/it-1", "", pkgjwt.RoleAdmin)
		assert.Equal(t, tc.want, resp.StatusCode, tc.err.Error())
		resp.Body.Close()
	}
}

// ── Conferencia ──────────────────────────────────────────────────────────────

func TestReconciliationHandler_CuerpoCrudo(t *testing.T) {
	rec := &fakeReconciliation{}
	app := newRouterApp(&fakeOrders{}, rec)

	resp := send(t, app, http.MethodPost, "/api/orders/o-1/reconciliation?strategy=supplier_code",
		fiber.MIMEApplicationXML, bytes.NewBufferString("<nfeProc/>"), pkgjwt.RoleReconciler)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<nfeProc/>", string(rec.raw))
	assert.Equal(t, "supplier_code", rec.strategy)
}

func TestReconciliationHandler_EstrategiaInvalida(t *testing.T) {
	app := newRouterApp(&fakeOrders{}, &fakeReconciliation{})

	resp := send(t, app, http.MethodPost, "/api/orders/o-1/reconciliation?strategy=ean",
		fiber.MIMEApplicationXML, bytes.NewBufferString("<x/>"), pkgjwt.RoleAdmin)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartBody(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "nota.xml")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestReconciliationHandler_Multipart(t *testing.T) {
	rec := &fakeReconciliation{}
	app := newRouterApp(&fakeOrders{}, rec)

	body, ct := multipartBody(t, "file", []byte("<nfeProc>ok</nfeProc>"))
	resp := send(t, app, http.MethodPost, "/api/orders/o-1/reconciliation", ct, body, pkgjwt.RoleAdmin)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<nfeProc>ok</nfeProc>", string(rec.raw))
}

func TestReconciliationHandler_MultipartSinArchivoOGrande(t *testing.T) {
	app := newRouterApp(&fakeOrders{}, &fakeReconciliation{})

	body, ct := multipartBody(t, "otro", []byte("<x/>"))
	resp := send(t, app, http.MethodPost, "/api/orders/o-1/reconciliation", ct, body, pkgjwt.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "sin campo file")
	resp.Body.Close()

	big, ct := multipartBody(t, "file", bytes.Repeat([]byte("a"), 2<<10))
	resp = send(t, app, http.MethodPost, "/api/orders/o-1/reconciliation", ct, big, pkgjwt.RoleAdmin)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode, "archivo mayor al límite")
	resp.Body.Close()
}

func TestReconciliationHandler_DocumentoIlegible(t *testing.T) {
	rec := &fakeReconciliation{err: fmt.Errorf("%w: XML mal formado", domain.ErrDocumentFormat)}
	app := newRouterApp(&fakeOrders{}, rec)

	resp := send(t, app, http.MethodPost, "/api/orders/o-1/reconciliation",
		fiber.MIMEApplicationXML, bytes.NewBufferString("<a>"), pkgjwt.RoleAdmin)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "DOCUMENT_FORMAT")
}

func TestReconciliationHandler_ExportaPendencias(t *testing.T) {
	rec := &fakeReconciliation{}
	app := newRouterApp(&fakeOrders{}, rec)

	resp := send(t, app, http.MethodPost, "/api/orders/o-1/reconciliation/pendency?format=xlsx",
		fiber.MIMEApplicationXML, bytes.NewBufferString("<nfeProc/>"), pkgjwt.RoleSeller)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "xlsx", rec.format)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "pendencias-P-1.xlsx")
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "XLSX", string(b))

	bad := send(t, app, http.MethodPost, "/api/orders/o-1/reconciliation/pendency?format=csv",
		fiber.MIMEApplicationXML, bytes.NewBufferString("<nfeProc/>"), pkgjwt.RoleSeller)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
