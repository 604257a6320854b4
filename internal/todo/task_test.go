package todo

import (
	"errors"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "completed"} {
		s, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", raw, err)
		}
		if string(s) != raw {
			t.Errorf("ParseStatus(%q) = %q", raw, s)
		}
	}

	_, err := ParseStatus("done")
	if !errors.Is(err, ErrBadStatus) {
		t.Errorf("ParseStatus(done) error = %v, want ErrBadStatus", err)
	}
}

func TestStatusToggle(t *testing.T) {
	if got := StatusPending.Toggle(); got != StatusCompleted {
		t.Errorf("pending.Toggle() = %q", got)
	}
	if got := StatusCompleted.Toggle(); got != StatusPending {
		t.Errorf("completed.Toggle() = %q", got)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	orig := Task{
		ID:          7,
		Title:       "Buy milk",
		Description: "2 liters, semi-skimmed",
		Status:      StatusCompleted,
		CreatedAt:   created,
		UpdatedAt:   created.Add(42 * time.Minute),
	}

	got, err := TaskFromRecord(orig.Record())
	if err != nil {
		t.Fatalf("TaskFromRecord: %v", err)
	}
	if !got.Equal(orig) {
		t.Errorf("round trip = %+v, want %+v", got, orig)
	}
}

func TestTaskFromRecord_Invalid(t *testing.T) {
	valid := Task{ID: 1, Title: "x", Status: StatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now()}.Record()

	cases := []struct {
		name   string
		mutate func(*Record)
	}{
		{"bad id", func(r *Record) { r.ID = "one" }},
		{"bad status", func(r *Record) { r.Status = "archived" }},
		{"bad created_at", func(r *Record) { r.CreatedAt = "yesterday" }},
		{"bad updated_at", func(r *Record) { r.UpdatedAt = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.mutate(&r)
			if _, err := TaskFromRecord(r); err == nil {
				t.Errorf("TaskFromRecord accepted %+v", r)
			}
		})
	}
}

func TestRecordHeaderMatchesFields(t *testing.T) {
	header := RecordHeader()
	fields := Task{}.Record().Fields()
	if len(header) != len(fields) {
		t.Fatalf("header has %d columns, record has %d", len(header), len(fields))
	}
}
