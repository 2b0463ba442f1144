package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid date", input: "2026-08-23", want: "2026-08-23"},
		{name: "leap day", input: "2024-02-29", want: "2024-02-29"},
		{name: "invalid leap day", input: "2023-02-29", wantErr: true},
		{name: "wrong format", input: "23/08/2026", wantErr: true},
		{name: "missing day", input: "2026-08", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not-a-date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestFromTimeTruncates(t *testing.T) {
	in := time.Date(2026, time.August, 23, 17, 45, 12, 999, time.Local)
	got := FromTime(in)
	if got.String() != "2026-08-23" {
		t.Errorf("FromTime = %q, want 2026-08-23", got.String())
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("FromTime kept time-of-day: %v", got.Time)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2026, time.January, 5)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-01-05"` {
		t.Fatalf("marshal = %s, want \"2026-01-05\"", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestUnmarshalRejectsBadInput(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"08-23-2026"`), &d); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if err := json.Unmarshal([]byte(`42`), &d); err == nil {
		t.Error("expected error for numeric input")
	}
}
