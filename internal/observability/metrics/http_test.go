package metrics

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "unmatched"},
		{"  ", "unmatched"},
		{"/api/expenses/:parentId/restore", "/api/expenses/:parentId/restore"},
		{"/api/flow-rules/:id", "/api/flow-rules/:id"},
		{"/api/expenses/1953421177683845120/restore", "/api/expenses/:id/restore"},
		{"/api/projects/42/status", "/api/projects/:id/status"},
		{"/api/audit-logs", "/api/audit-logs"},
	}
	for _, tc := range cases {
		if got := normalizeEndpoint(tc.in); got != tc.want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
