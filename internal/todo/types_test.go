package todo

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"pgregory.net/rapid"
)

func TestEncodeAndDecode(t *testing.T) {
	original := []Task{
		{ID: uuid.MustParse("6f1c0a54-7d6b-4b57-9c1d-1a2b3c4d5e6f"), Title: "Buy milk"},
		{ID: uuid.MustParse("0b6f2a3e-6c1d-4d0e-9a51-4f3c5e0e2f11"), Title: "Walk dog", IsCompleted: true},
	}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Errorf("encoded data has no trailing newline: %q", data)
	}
	if !strings.Contains(string(data), `"isCompleted": true`) {
		t.Errorf("encoded data missing isCompleted field: %s", data)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeEmpty(t *testing.T) {
	for _, tasks := range [][]Task{nil, {}} {
		data, err := Encode(tasks)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if got := string(data); got != "[]\n" {
			t.Errorf("Encode(%v): got %q, want %q", tasks, got, "[]\n")
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{
			name: "empty list",
			data: `[]`,
			want: 0,
		},
		{
			name: "uppercase ids",
			data: `[{"id":"E621E1F8-C36C-495A-93FC-0C247A3E6E5F","title":"a","isCompleted":false}]`,
			want: 1,
		},
		{
			name: "unknown fields ignored",
			data: `[{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"a","isCompleted":true,"color":"red"}]`,
			want: 1,
		},
		{
			name: "comments and trailing commas",
			data: "[\n  // groceries\n  {\"id\":\"e621e1f8-c36c-495a-93fc-0c247a3e6e5f\",\"title\":\"a\",\"isCompleted\":false,},\n]",
			want: 1,
		},
		{
			name: "empty title allowed",
			data: `[{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"","isCompleted":false}]`,
			want: 1,
		},
		{
			name:    "empty input",
			data:    ``,
			wantErr: true,
		},
		{
			name:    "null",
			data:    `null`,
			wantErr: true,
		},
		{
			name:    "object instead of array",
			data:    `{"tasks":[]}`,
			wantErr: true,
		},
		{
			name:    "truncated",
			data:    `[{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"a"`,
			wantErr: true,
		},
		{
			name:    "missing isCompleted",
			data:    `[{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"a"}]`,
			wantErr: true,
		},
		{
			name:    "missing id",
			data:    `[{"title":"a","isCompleted":false}]`,
			wantErr: true,
		},
		{
			name:    "id not a uuid",
			data:    `[{"id":"T001","title":"a","isCompleted":false}]`,
			wantErr: true,
		},
		{
			name:    "isCompleted not a boolean",
			data:    `[{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"a","isCompleted":"yes"}]`,
			wantErr: true,
		},
		{
			name: "duplicate ids",
			data: `[{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"a","isCompleted":false},
			        {"id":"E621E1F8-C36C-495A-93FC-0C247A3E6E5F","title":"b","isCompleted":false}]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := Decode([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode: expected error, got %d tasks", len(tasks))
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: unexpected error: %v", err)
			}
			if tasks == nil {
				t.Fatal("Decode returned nil slice")
			}
			if len(tasks) != tt.want {
				t.Errorf("Decode: got %d tasks, want %d", len(tasks), tt.want)
			}
		})
	}
}

func TestValidateReportsPaths(t *testing.T) {
	data := []byte(`[
		{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"ok","isCompleted":false},
		{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e60","title":7,"isCompleted":false}
	]`)

	result := Validate(data)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.Tasks != 2 {
		t.Errorf("Tasks: got %d, want 2", result.Tasks)
	}
	found := false
	for _, err := range result.Errors {
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Path == "[1].title" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an error at [1].title, got %v", result.Errors)
	}
}

func TestValidateDuplicateID(t *testing.T) {
	data := []byte(`[
		{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"a","isCompleted":false},
		{"id":"e621e1f8-c36c-495a-93fc-0c247a3e6e5f","title":"b","isCompleted":true}
	]`)

	result := Validate(data)
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if !errors.Is(result.Err(), ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", result.Err())
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/3/title", "[3].title"},
		{"#/1/isCompleted", "[1].isCompleted"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := jsonPointerToPath(tt.in); got != tt.want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func taskGenerator() *rapid.Generator[Task] {
	return rapid.Custom(func(t *rapid.T) Task {
		var id uuid.UUID
		copy(id[:], rapid.SliceOfN(rapid.Byte(), 16, 16).Draw(t, "id"))
		if id == uuid.Nil {
			id[0] = 1
		}
		return Task{
			ID:          id,
			Title:       rapid.String().Draw(t, "title"),
			IsCompleted: rapid.Bool().Draw(t, "completed"),
		}
	})
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := rapid.SliceOfNDistinct(taskGenerator(), 0, 20, func(task Task) uuid.UUID {
			return task.ID
		}).Draw(t, "tasks")

		data, err := Encode(tasks)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		decoded, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode: %v\n%s", err, data)
		}
		if diff := cmp.Diff(tasks, decoded, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}
