package postgres

import "testing"

func TestLimitArg(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  interface{}
	}{
		{"zero means unbounded", 0, nil},
		{"negative means unbounded", -1, nil},
		{"explicit page size passes through", 25, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := limitArg(tt.limit); got != tt.want {
				t.Errorf("limitArg(%d) = %v, want %v", tt.limit, got, tt.want)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if nullString("") != nil {
		t.Error("empty string must map to NULL")
	}
	got := nullString("u1")
	if got == nil || *got != "u1" {
		t.Errorf("nullString(\"u1\") = %v", got)
	}
}
