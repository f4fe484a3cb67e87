package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/application/service"
	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/repository/mocks"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/request"
	"go.uber.org/mock/gomock"
)

func TestClassHandler_List_StorageFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	store.EXPECT().Classes(gomock.Any()).Return(nil, errors.New("disk full"))

	h := NewClassHandler(service.NewClassService(store), service.NewPrintJobService(store, time.UTC, service.DefaultDuplicateWindow))
	r := gin.New()
	r.GET("/classes", h.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/classes", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Message != "Internal server error" {
		t.Errorf("storage error must not leak, got %+v", body)
	}
}

func TestPrintJobHandler_Create_SkipsCheckWhenDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	settings := entity.DefaultSettings()
	settings.DuplicateCheckEnabled = false

	store := mocks.NewMockLedgerStore(ctrl)
	store.EXPECT().Settings(gomock.Any()).Return(settings, nil).AnyTimes()
	// PrintJobs has no expectation, so a duplicate lookup would fail the test.
	store.EXPECT().Mutate(gomock.Any(), gomock.Any()).Return(errors.New("store offline"))

	h := NewPrintJobHandler(
		service.NewPrintJobService(store, time.UTC, service.DefaultDuplicateWindow),
		service.NewSettingsService(store),
		time.UTC,
	)
	r := gin.New()
	r.POST("/print-jobs", h.Create)

	body, _ := json.Marshal(map[string]interface{}{
		"className": "Biology 101", "printType": "Recto", "pages": 1, "copies": 1,
	})
	req := httptest.NewRequest(http.MethodPost, "/print-jobs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from the failing store, got %d", w.Code)
	}
}

func TestParseDateRange(t *testing.T) {
	loc := time.UTC

	from, to, err := parseDateRange(request.DateRangeRequest{From: "2024-06-01", To: "2024-06-03"}, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, loc)) {
		t.Errorf("unexpected from %v", from)
	}
	// A plain end date covers that whole day.
	if !to.Equal(time.Date(2024, 6, 4, 0, 0, 0, 0, loc)) {
		t.Errorf("unexpected to %v", to)
	}

	_, to, err = parseDateRange(request.DateRangeRequest{To: "2024-06-03T12:00:00Z"}, loc)
	if err != nil || !to.Equal(time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("expected exact RFC 3339 bound, got %v %v", to, err)
	}

	if _, _, err := parseDateRange(request.DateRangeRequest{From: "yesterday"}, loc); err == nil {
		t.Error("expected error for unparseable date")
	}

	from, to, err = parseDateRange(request.DateRangeRequest{}, loc)
	if err != nil || from != nil || to != nil {
		t.Errorf("expected open range, got %v %v %v", from, to, err)
	}
}
