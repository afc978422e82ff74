package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/cbam_end/controllers"
	"github.com/BerniceZTT/cbam_end/models"
	"github.com/BerniceZTT/cbam_end/repository"
	"github.com/BerniceZTT/cbam_end/utils"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

type testServer struct {
	t      *testing.T
	store  *repository.MemoryStore
	router *gin.Engine
	tokens map[models.UserRole]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("routes-test")

	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, repository.InitializeAdminAccount(ctx, store, "admin123"))
	for _, u := range []models.User{
		{Username: "manager", Password: utils.HashPassword("manager123"), Role: models.UserRoleCOMPLIANCE_MANAGER},
		{Username: "viewer", Password: utils.HashPassword("viewer123"), Role: models.UserRoleVIEWER},
	} {
		_, err := store.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	ctl := controllers.NewController(store, decimal.NewFromInt(80))
	s := &testServer{
		t:      t,
		store:  store,
		router: NewRouter(store, ctl, []string{"http://localhost:3000"}),
		tokens: make(map[models.UserRole]string),
	}
	s.tokens[models.UserRoleSUPER_ADMIN] = s.login("admin", "admin123")
	s.tokens[models.UserRoleCOMPLIANCE_MANAGER] = s.login("manager", "manager123")
	s.tokens[models.UserRoleVIEWER] = s.login("viewer", "viewer123")
	return s
}

func (s *testServer) do(req *http.Request, role models.UserRole) *httptest.ResponseRecorder {
	if token := s.tokens[role]; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) request(method, path string, role models.UserRole, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := s.do(req, role)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) upload(path string, role models.UserRole, filename, content string) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req, role)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *testServer) login(username, password string) string {
	w, env := s.request(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: username, Password: password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp models.LoginResponse
	require.NoError(s.t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(s.t, resp.Token)
	return resp.Token
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), string(env.Data))
}

func (s *testServer) createSupplier(name string, status models.SupplierStatus) models.Supplier {
	w, env := s.request(http.MethodPost, "/api/suppliers", models.UserRoleCOMPLIANCE_MANAGER,
		models.SupplierCreateRequest{Name: name, Country: "CN", Status: status})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var supplier models.Supplier
	decode(s.t, env, &supplier)
	return supplier
}

func (s *testServer) createImport(supplierID, date string, quantity, direct, indirect float64) models.GoodsImport {
	w, env := s.request(http.MethodPost, "/api/imports", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{
		"supplierId":  supplierID,
		"cnCode":      "72081000",
		"quantity":    quantity,
		"directSee":   direct,
		"indirectSee": indirect,
		"date":        date + "T00:00:00Z",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var row models.GoodsImport
	decode(s.t, env, &row)
	return row
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		w, env := s.request(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: "admin", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("unknown user", func(t *testing.T) {
		w, _ := s.request(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Username: "ghost", Password: "x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w, _ := s.request(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validate", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/auth/validate", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			Valid bool            `json:"valid"`
			User  utils.LoginUser `json:"user"`
		}
		decode(t, env, &data)
		assert.True(t, data.Valid)
		assert.Equal(t, "viewer", data.User.Username)
		assert.Equal(t, "VIEWER", data.User.Role)
	})

	t.Run("only super admin creates users", func(t *testing.T) {
		req := models.CreateUserRequest{Username: "auditor", Password: "auditor1", Role: models.UserRoleVIEWER}
		w, _ := s.request(http.MethodPost, "/api/users", models.UserRoleCOMPLIANCE_MANAGER, req)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, env := s.request(http.MethodPost, "/api/users", models.UserRoleSUPER_ADMIN, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.NotContains(t, string(env.Data), "password")
		assert.NotEmpty(t, s.login("auditor", "auditor1"))

		w, _ = s.request(http.MethodPost, "/api/users", models.UserRoleSUPER_ADMIN, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestSupplierRoutes(t *testing.T) {
	s := newTestServer(t)
	acme := s.createSupplier("Acme Steel", "")
	assert.Equal(t, models.SupplierStatusNone, acme.Status)

	t.Run("viewer cannot create", func(t *testing.T) {
		w, env := s.request(http.MethodPost, "/api/suppliers", models.UserRoleVIEWER,
			models.SupplierCreateRequest{Name: "Viewer Made", Country: "DE"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "INSUFFICIENT_PERMISSION", env.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		w, _ := s.request(http.MethodGet, "/api/suppliers", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("validation", func(t *testing.T) {
		w, _ := s.request(http.MethodPost, "/api/suppliers", models.UserRoleCOMPLIANCE_MANAGER,
			models.SupplierCreateRequest{Name: "A", Country: "CN"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = s.request(http.MethodPost, "/api/suppliers", models.UserRoleCOMPLIANCE_MANAGER,
			models.SupplierCreateRequest{Name: "Bad Status", Country: "CN", Status: "lost"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get and update", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/suppliers/"+acme.ID, models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got models.Supplier
		decode(t, env, &got)
		assert.Equal(t, "Acme Steel", got.Name)

		w, env = s.request(http.MethodPut, "/api/suppliers/"+acme.ID, models.UserRoleCOMPLIANCE_MANAGER,
			map[string]string{"contactEmail": "co2@acme.example"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decode(t, env, &got)
		assert.Equal(t, "co2@acme.example", got.ContactEmail)
		assert.Equal(t, "Acme Steel", got.Name)

		w, _ = s.request(http.MethodGet, "/api/suppliers/missing", models.UserRoleVIEWER, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("status change accepts readable spellings", func(t *testing.T) {
		w, env := s.request(http.MethodPatch, "/api/suppliers/"+acme.ID+"/status", models.UserRoleCOMPLIANCE_MANAGER,
			map[string]string{"status": "Emission data received"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got models.Supplier
		decode(t, env, &got)
		assert.Equal(t, models.SupplierStatusEmissionDataReceived, got.Status)

		w, _ = s.request(http.MethodPatch, "/api/suppliers/"+acme.ID+"/status", models.UserRoleCOMPLIANCE_MANAGER,
			map[string]string{"status": "unheard of"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list filters", func(t *testing.T) {
		s.createSupplier("Beta Cement", models.SupplierStatusPending)

		w, env := s.request(http.MethodGet, "/api/suppliers?status=pending", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			Suppliers []models.Supplier `json:"suppliers"`
			Total     int               `json:"total"`
		}
		decode(t, env, &data)
		require.Equal(t, 1, data.Total)
		assert.Equal(t, "Beta Cement", data.Suppliers[0].Name)

		_, env = s.request(http.MethodGet, "/api/suppliers?keyword=ACME", models.UserRoleVIEWER, nil)
		decode(t, env, &data)
		assert.Equal(t, 1, data.Total)
	})

	t.Run("delete is a conflict while imports exist", func(t *testing.T) {
		row := s.createImport(acme.ID, "2024-02-10", 10, 1, 1)

		w, env := s.request(http.MethodDelete, "/api/suppliers/"+acme.ID, models.UserRoleCOMPLIANCE_MANAGER, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", env.Code)

		w, _ = s.request(http.MethodDelete, "/api/imports/"+row.ID, models.UserRoleCOMPLIANCE_MANAGER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w, _ = s.request(http.MethodDelete, "/api/suppliers/"+acme.ID, models.UserRoleCOMPLIANCE_MANAGER, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("spreadsheet upload", func(t *testing.T) {
		csvData := "Name,Country,Status\nGamma Metals,VN,pending\nX,VN,\n"

		w, env := s.upload("/api/suppliers/import", models.UserRoleCOMPLIANCE_MANAGER, "suppliers.csv", csvData)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result models.BulkImportResult
		decode(t, env, &result)
		assert.Equal(t, 1, result.InsertedCount)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 3, result.Errors[0].Row)
	})

	t.Run("mutations are audited", func(t *testing.T) {
		var paths []string
		for _, log := range s.store.OperationLogs() {
			paths = append(paths, log.Method+" "+log.Path)
		}
		assert.Contains(t, paths, "POST /api/suppliers")
		assert.Contains(t, paths, "DELETE /api/suppliers/:id")
		assert.NotContains(t, paths, "POST /api/auth/login")
	})
}

func TestImportRoutes(t *testing.T) {
	s := newTestServer(t)
	acme := s.createSupplier("Acme Steel", models.SupplierStatusEmissionDataReceived)
	s.createSupplier("Beta Cement", models.SupplierStatusPending)

	t.Run("create derives the quarter", func(t *testing.T) {
		row := s.createImport(acme.ID, "2024-02-10", 100, 2, 1)
		assert.Equal(t, "Q1-2024", row.Quarter)
		assert.Equal(t, "Acme Steel", row.ManufacturerName)
	})

	t.Run("unknown supplier", func(t *testing.T) {
		w, _ := s.request(http.MethodPost, "/api/imports", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{
			"supplierId": "nope", "cnCode": "72081000", "quantity": 1, "date": "2024-02-10T00:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative quantity", func(t *testing.T) {
		w, _ := s.request(http.MethodPost, "/api/imports", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{
			"supplierId": acme.ID, "cnCode": "72081000", "quantity": -1, "date": "2024-02-10T00:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("spreadsheet upload links by id or unique name", func(t *testing.T) {
		csvData := "Supplier ID,Manufacturer,CN Code,Quantity,Direct SEE,Indirect SEE,Date\n" +
			acme.ID + ",,72081000,50,1,1,2024-04-02\n" +
			",beta cement,25231000,20,0.85,0.05,2024-05-02\n" +
			",Unknown Works,25231000,20,0.85,0.05,2024-05-02\n" +
			"" + acme.ID + ",,72081000,5,1,1,someday\n"

		w, env := s.upload("/api/imports/import", models.UserRoleCOMPLIANCE_MANAGER, "imports.csv", csvData)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result models.BulkImportResult
		decode(t, env, &result)
		assert.NotEmpty(t, result.BatchID)
		assert.Equal(t, 2, result.InsertedCount)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, 4, result.Errors[0].Row)
		assert.Equal(t, 5, result.Errors[1].Row)

		w, env = s.request(http.MethodGet, "/api/imports?quarter=Q2-2024", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			Imports []models.GoodsImport `json:"imports"`
			Total   int                  `json:"total"`
		}
		decode(t, env, &data)
		assert.Equal(t, 2, data.Total)
		for _, row := range data.Imports {
			assert.Equal(t, result.BatchID, row.BatchID)
		}
	})

	t.Run("viewer cannot upload", func(t *testing.T) {
		w, _ := s.upload("/api/imports/import", models.UserRoleVIEWER, "imports.csv", "Date\n")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unsupported file", func(t *testing.T) {
		w, _ := s.upload("/api/imports/import", models.UserRoleCOMPLIANCE_MANAGER, "imports.pdf", "%PDF")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid quarter filter", func(t *testing.T) {
		w, _ := s.request(http.MethodGet, "/api/imports?quarter=2024", models.UserRoleVIEWER, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("export", func(t *testing.T) {
		w, _ := s.request(http.MethodGet, "/api/imports/export?format=csv&supplierId="+acme.ID, models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "imports.csv")
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		assert.Equal(t, "ID,Supplier ID,Manufacturer,CN Code,Quantity,Direct SEE,Indirect SEE,Date,Quarter", lines[0])
		assert.Len(t, lines, 3)

		w, _ = s.request(http.MethodGet, "/api/suppliers/export?format=xlsx", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
	})

	t.Run("quantity above the limit", func(t *testing.T) {
		w, _ := s.request(http.MethodPost, "/api/imports", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{
			"supplierId": acme.ID, "cnCode": "72081000", "quantity": 1e200, "directSee": 1, "date": "2024-02-10T00:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = s.request(http.MethodPost, "/api/imports", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{
			"supplierId": acme.ID, "cnCode": "72081000", "quantity": 1, "directSee": 2e9, "date": "2024-02-10T00:00:00Z",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("quarter follows the calendar date sent by the caller", func(t *testing.T) {
		w, env := s.request(http.MethodPost, "/api/imports", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{
			"supplierId": acme.ID, "cnCode": "72081000", "quantity": 1, "directSee": 1, "date": "2023-03-31T23:30:00-02:00",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var row models.GoodsImport
		decode(t, env, &row)
		assert.Equal(t, "Q1-2023", row.Quarter)
		assert.True(t, row.Date.Equal(time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC)), row.Date.String())
	})
}

func TestDashboardRoutes(t *testing.T) {
	s := newTestServer(t)
	a := s.createSupplier("Acme Steel", models.SupplierStatusEmissionDataReceived)
	b := s.createSupplier("Beta Cement", models.SupplierStatusPending)
	s.createImport(a.ID, "2024-01-10", 100, 2, 1)
	s.createImport(b.ID, "2024-02-10", 50, 1, 1)

	t.Run("stats", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/dashboard/stats?quarter=Q1-2024", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stats models.QuarterStats
		decode(t, env, &stats)
		assert.Equal(t, 150.0, stats.TotalImports)
		assert.Equal(t, 400.0, stats.TotalEmissions)
		assert.Equal(t, 50, stats.CoveragePercent)
		assert.Equal(t, models.ReadinessReadyForCreation, stats.ReportReadiness)
		assert.Nil(t, stats.ImportsChange)
		assert.Contains(t, string(env.Data), `"importsChange":null`)
	})

	t.Run("invalid quarter", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/dashboard/stats?quarter=Q9-2024", models.UserRoleVIEWER, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "BAD_REQUEST", env.Code)
	})

	t.Run("quarters", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/dashboard/quarters", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var data struct {
			Quarters []models.QuarterSummary `json:"quarters"`
			Options  []string                `json:"options"`
		}
		decode(t, env, &data)
		assert.Equal(t, []string{"all", "Q1-2024"}, data.Options)
		require.Len(t, data.Quarters, 1)
		assert.Equal(t, 2, data.Quarters[0].ImportCount)
	})

	t.Run("status chart", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/dashboard/status-chart?quarter=all", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var chart models.DonutChart
		decode(t, env, &chart)
		assert.Equal(t, 2, chart.Total)
		assert.Len(t, chart.Arcs, 2)

		w, _ = s.request(http.MethodGet, "/api/dashboard/status-chart?format=svg&size=120", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), `width="120"`)

		w, _ = s.request(http.MethodGet, "/api/dashboard/status-chart?size=5", models.UserRoleVIEWER, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("full dashboard", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/dashboard", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var dashboard models.DashboardResponse
		decode(t, env, &dashboard)
		assert.Equal(t, "all", dashboard.Stats.Selector)
		assert.Equal(t, 2, dashboard.SupplierCount)
	})
}

func TestForecastRoute(t *testing.T) {
	s := newTestServer(t)
	a := s.createSupplier("Acme Steel", models.SupplierStatusEmissionDataReceived)
	s.createImport(a.ID, "2025-10-10", 100, 2, 1)

	t.Run("explicit start and price", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/forecast?horizon=2&price=100&start=Q1-2026", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var forecast models.Forecast
		decode(t, env, &forecast)
		assert.Equal(t, 300.0, forecast.BaselineEmissions)
		require.Len(t, forecast.Points, 2)
		assert.Equal(t, "750", forecast.Points[0].Cost.String())
		assert.Equal(t, "1500", forecast.TotalCost.String())
	})

	t.Run("defaults start after the latest imports", func(t *testing.T) {
		w, env := s.request(http.MethodGet, "/api/forecast", models.UserRoleVIEWER, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var forecast models.Forecast
		decode(t, env, &forecast)
		require.Len(t, forecast.Points, 8)
		assert.Equal(t, "Q1-2026", forecast.Points[0].Quarter)
		assert.Equal(t, "80", forecast.Points[0].CertificatePrice.String())
	})

	t.Run("invalid parameters", func(t *testing.T) {
		for _, query := range []string{"horizon=0", "horizon=41", "horizon=x", "price=abc", "price=-5", "start=2026"} {
			w, _ := s.request(http.MethodGet, "/api/forecast?"+query, models.UserRoleVIEWER, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
	})
}

func TestSampleDataAndSystemRoutes(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.request(http.MethodPost, "/api/sample-data", models.UserRoleVIEWER, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.request(http.MethodPost, "/api/sample-data", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{"seed": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data map[string]interface{}
	decode(t, env, &data)
	assert.EqualValues(t, 8, data["suppliers"])

	w, _ = s.request(http.MethodPost, "/api/sample-data", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{"seed": 3})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.request(http.MethodPost, "/api/sample-data", models.UserRoleCOMPLIANCE_MANAGER, map[string]interface{}{"seed": 3, "replace": true})
	assert.Equal(t, http.StatusCreated, w.Code)

	_, env = s.request(http.MethodGet, "/api/dashboard/quarters", models.UserRoleVIEWER, nil)
	var quarters struct {
		Options []string `json:"options"`
	}
	decode(t, env, &quarters)
	assert.Equal(t, []string{"all", "Q1-2024", "Q2-2024", "Q3-2024", "Q4-2024"}, quarters.Options)

	w, _ = s.request(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w, _ = s.request(http.MethodGet, "/api/db-status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "memory", status["backend"])
}
