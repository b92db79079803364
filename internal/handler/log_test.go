package handler

import (
	"net/http"
	"testing"
)

func TestLedgerOperation(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/api/spendings", "spend"},
		{http.MethodPost, "/api/deposits", "deposit"},
		{http.MethodPost, "/api/goals/3/save", "save to goal"},
		{http.MethodPost, "/api/goals/3/purchase", "purchase goal"},
		{http.MethodPut, "/api/financials", "update financials"},
		{http.MethodDelete, "/api/account", "delete account data"},
		{http.MethodPost, "/api/backups/7/restore", "restore backup"},
		// 非账本操作
		{http.MethodPost, "/api/backups", ""},
		{http.MethodPost, "/api/profile", ""},
		{http.MethodGet, "/api/spendings", ""},
		{http.MethodPost, "/api/goals/3", ""},
	}
	for _, tt := range tests {
		if got := ledgerOperation(tt.method, tt.path); got != tt.want {
			t.Errorf("ledgerOperation(%s %s) = %q, want %q", tt.method, tt.path, got, tt.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := paginate(items, 1, 2); len(got) != 2 || got[0] != 1 {
		t.Errorf("page 1 = %v", got)
	}
	if got := paginate(items, 3, 2); len(got) != 1 || got[0] != 5 {
		t.Errorf("last page = %v", got)
	}
	if got := paginate(items, 4, 2); len(got) != 0 {
		t.Errorf("past the end = %v", got)
	}
}
