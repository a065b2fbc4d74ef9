package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aurifex/jewelry_backend/models"
	"github.com/aurifex/jewelry_backend/utils"
	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid transition", &models.InvalidTransitionError{DocType: models.DocumentTypeMemo, Current: "Pending", Target: "Archived"}, http.StatusConflict},
		{"already processed", &models.AlreadyProcessedError{Subject: "memo item"}, http.StatusConflict},
		{"duplicate value", &utils.DuplicateValueError{Column: "sku"}, http.StatusConflict},
		{"missing prerequisite", &models.MissingPrerequisiteError{Reason: "memo has no vendor assigned"}, http.StatusUnprocessableEntity},
		{"record not found", utils.ErrorRecordNotFound, http.StatusNotFound},
		{"invalid enum value", &models.InvalidValueError{Value: "Bogus", Kind: "memo status"}, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, "test", "TestRespondErrorStatusMapping", tc.err)

			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}

func TestStoreIdHeaderRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/memos", nil)

	if _, ok := storeId(c); ok {
		t.Fatal("missing header should fail")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/memos", nil)
	c.Request.Header.Set(storeIdHeader, "store-1")

	sid, ok := storeId(c)
	if !ok || sid != "store-1" {
		t.Errorf("got %q, %v", sid, ok)
	}
}
