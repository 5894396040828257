package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/gin-gonic/gin"
)

func TestAuthMiddleware_StampsPrincipalIntoContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	token, err := utils.JwtGenerate(7, "aye chan", "comp-123", 2, false, []string{"ORD_CREATE"})
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	r := gin.New()
	r.Use(AuthMiddleware(), RequireAuth())
	r.GET("/probe", func(c *gin.Context) {
		ctx := c.Request.Context()
		if companyId, _ := utils.GetCompanyIdFromContext(ctx); companyId != "comp-123" {
			t.Errorf("company id = %q, want comp-123", companyId)
		}
		if branchId, _ := utils.GetBranchIdFromContext(ctx); branchId != 2 {
			t.Errorf("branch id = %d, want 2", branchId)
		}
		if userId, _ := utils.GetUserIdFromContext(ctx); userId != 7 {
			t.Errorf("user id = %d, want 7", userId)
		}
		if userName, _ := utils.GetUserNameFromContext(ctx); userName != "aye chan" {
			t.Errorf("user name = %q, want %q", userName, "aye chan")
		}
		if got, _ := utils.GetTokenFromContext(ctx); got != token {
			t.Errorf("token in context does not match presented token")
		}
		if !utils.HasPermission(ctx, "ORD_CREATE") {
			t.Errorf("expected ORD_CREATE permission")
		}
		if utils.HasPermission(ctx, "STK_REBUILD") {
			t.Errorf("non-admin should not hold unlisted permissions")
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusNoContent, w.Body.String())
	}
}

func TestAuthMiddleware_AdminClaimOverridesPermissionList(t *testing.T) {
	gin.SetMode(gin.TestMode)

	token, err := utils.JwtGenerate(1, "owner", "comp-123", 1, true, nil)
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	r := gin.New()
	r.Use(AuthMiddleware(), RequireAuth())
	r.GET("/probe", func(c *gin.Context) {
		if !utils.HasPermission(c.Request.Context(), "STK_REBUILD") {
			t.Errorf("admin claim should grant every permission")
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestRequireAuth_RejectsMissingAndBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AuthMiddleware(), RequireAuth())
	r.GET("/probe", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, http.StatusUnauthorized)
		}
	}
}
