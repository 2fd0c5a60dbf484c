package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/velinpetkov/techlane-backend/internal/handlers"
	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/middleware"
	"github.com/velinpetkov/techlane-backend/internal/repos"
	"github.com/velinpetkov/techlane-backend/internal/server"
	"github.com/velinpetkov/techlane-backend/internal/services"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

const testSecret = "handler-test-secret"

type fixture struct {
	router *gin.Engine
	db     *gorm.DB
	cpu    *types.Component
	board  *types.Component
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.Component{},
		&types.CompatibilityRule{},
		&types.SavedBuild{},
		&types.Cart{},
		&types.CartItem{},
		&types.Booking{},
		&types.Review{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	componentRepo := repos.NewComponentRepo(db, log)
	ruleRepo := repos.NewCompatibilityRuleRepo(db, log)

	builderSvc := services.NewBuilderService(
		db, log,
		componentRepo,
		ruleRepo,
		repos.NewSavedBuildRepo(db, log),
		repos.NewCartRepo(db, log),
		repos.NewCartItemRepo(db, log),
		nil,
	)
	catalogSvc := services.NewCatalogService(db, log, componentRepo, ruleRepo, nil)
	bookingSvc := services.NewBookingService(db, log, repos.NewBookingRepo(db, log))
	reviewSvc := services.NewReviewService(db, log, repos.NewReviewRepo(db, log), componentRepo)

	im := middleware.NewIdentityMiddleware(log, testSecret)
	router := server.NewRouter(server.RouterConfig{
		IdentityMiddleware: im,
		BuilderHandler:     handlers.NewBuilderHandler(log, builderSvc),
		CatalogHandler:     handlers.NewCatalogHandler(log, catalogSvc),
		BookingHandler:     handlers.NewBookingHandler(log, bookingSvc),
		ReviewHandler:      handlers.NewReviewHandler(log, reviewSvc),
	})

	cpu := &types.Component{
		ID: uuid.New(), Category: types.CategoryCPU, Name: "Core i7-14700K",
		Price: 399.99, Active: true,
		Specs: datatypes.JSONMap{"socket": "LGA1700"},
	}
	board := &types.Component{
		ID: uuid.New(), Category: types.CategoryMotherboard, Name: "B650 Plus",
		Price: 179.99, Active: true,
		Specs: datatypes.JSONMap{"socket": "AM5"},
	}
	if err := db.Create([]*types.Component{cpu, board}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	return &fixture{router: router, db: db, cpu: cpu, board: board}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func ownerToken(t *testing.T, owner uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": owner.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestValidateRejectsNonObjectConfiguration(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/v1/builder/validate", `{"configuration": [1, 2]}`, "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != "invalid_configuration" {
		t.Fatalf("code = %q, want invalid_configuration", envelope.Error.Code)
	}
}

func TestValidateReturnsViolations(t *testing.T) {
	f := newFixture(t)
	rule := &types.CompatibilityRule{
		ID: uuid.New(), Kind: types.RuleKindSocketCompatibility,
		Name:    "Socket",
		Message: "sockets do not match",
		Config:  datatypes.JSON([]byte(`{"cpu_slot": "cpu", "motherboard_slot": "motherboard"}`)),
		Active:  true,
	}
	if err := f.db.Create(rule).Error; err != nil {
		t.Fatalf("seed rule: %v", err)
	}

	body := fmt.Sprintf(`{"configuration": {"cpu": {"id": %q}, "motherboard": {"id": %q}}}`, f.cpu.ID, f.board.ID)
	rec := f.do(t, http.MethodPost, "/api/v1/builder/validate", body, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Slot string `json:"slot"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Valid || len(result.Errors) != 1 || result.Errors[0].Slot != "motherboard" {
		t.Fatalf("result = %+v", result)
	}
}

func TestPriceBreakdownOverHTTP(t *testing.T) {
	f := newFixture(t)
	body := fmt.Sprintf(`{"configuration": {"cpu": {"id": %q}}}`, f.cpu.ID)
	rec := f.do(t, http.MethodPost, "/api/v1/builder/price", body, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var breakdown struct {
		Subtotal float64 `json:"subtotal"`
		Total    float64 `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if breakdown.Subtotal != 399.99 || breakdown.Total != 399.99 {
		t.Fatalf("breakdown = %+v", breakdown)
	}
}

func TestCheckoutWithoutTokenIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	body := fmt.Sprintf(`{"configuration": {"cpu": {"id": %q}}}`, f.cpu.ID)
	rec := f.do(t, http.MethodPost, "/api/v1/builder/checkout", body, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Code != "authorization_required" {
		t.Fatalf("code = %q", envelope.Error.Code)
	}
}

func TestCheckoutWithToken(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	body := fmt.Sprintf(`{"configuration": {"cpu": {"id": %q}}}`, f.cpu.ID)
	rec := f.do(t, http.MethodPost, "/api/v1/builder/checkout", body, ownerToken(t, owner))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var result struct {
		SavedBuildID uuid.UUID `json:"saved_build_id"`
		CartTotal    float64   `json:"cart_total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.SavedBuildID == uuid.Nil || result.CartTotal != 399.99 {
		t.Fatalf("result = %+v", result)
	}
}

func TestSaveBuildAnonymous(t *testing.T) {
	f := newFixture(t)
	body := fmt.Sprintf(`{"configuration": {"cpu": {"id": %q}}}`, f.cpu.ID)
	rec := f.do(t, http.MethodPost, "/api/v1/builder/builds", body, "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var build struct {
		ID      uuid.UUID  `json:"id"`
		OwnerID *uuid.UUID `json:"owner_id"`
		Total   float64    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &build); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if build.OwnerID != nil || build.Total != 399.99 {
		t.Fatalf("build = %+v", build)
	}
}

func TestListBuildsScopedToOwner(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	other := uuid.New()
	token := ownerToken(t, owner)

	body := fmt.Sprintf(`{"configuration": {"cpu": {"id": %q}}}`, f.cpu.ID)
	if rec := f.do(t, http.MethodPost, "/api/v1/builder/builds", body, token); rec.Code != http.StatusCreated {
		t.Fatalf("save: %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/v1/builder/builds", body, ownerToken(t, other)); rec.Code != http.StatusCreated {
		t.Fatalf("save other: %d", rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/api/v1/builder/builds", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Builds []struct {
			OwnerID *uuid.UUID `json:"owner_id"`
		} `json:"builds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Builds) != 1 {
		t.Fatalf("builds = %d, want 1", len(payload.Builds))
	}
	if payload.Builds[0].OwnerID == nil || *payload.Builds[0].OwnerID != owner {
		t.Fatalf("owner = %v", payload.Builds[0].OwnerID)
	}
}
