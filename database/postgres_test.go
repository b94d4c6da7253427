package database

import "testing"

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://user:pass@db:5432/images?sslmode=disable", "pgx5://user:pass@db:5432/images?sslmode=disable"},
		{"postgresql://user@localhost/images", "pgx5://user@localhost/images"},
		{"pgx5://already/converted", "pgx5://already/converted"},
	}

	for _, tt := range tests {
		if got := MigrateURL(tt.in); got != tt.want {
			t.Errorf("MigrateURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
