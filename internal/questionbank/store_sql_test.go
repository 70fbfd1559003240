package questionbank

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manangupta12/mock-interviews-ai/internal/db"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return NewSQLStore(dbh)
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	q := Question{
		ID: "q1", Title: "Two Sum", Description: "d", Difficulty: "Easy",
		Examples:  []Example{{Input: "nums=[2,7]", Output: "[0,1]"}},
		TestCases: []TestCase{{Input: "[2,7]\n9", Output: "[0,1]"}},
	}
	if err := st.Put(ctx, q); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := st.Get(ctx, "q1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Two Sum" || got.Company != "General" {
		t.Errorf("question = %+v", got)
	}
	if len(got.TestCases) != 1 || got.TestCases[0].Input != "[2,7]\n9" {
		t.Errorf("test cases = %+v", got.TestCases)
	}

	// Upsert by id replaces fields.
	q.Title = "Two Sum II"
	if err := st.Put(ctx, q); err != nil {
		t.Fatalf("Put upsert: %v", err)
	}
	got, _ = st.Get(ctx, "q1")
	if got.Title != "Two Sum II" {
		t.Errorf("after upsert: %q", got.Title)
	}
}

func TestRandomFiltering(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	seed := []Question{
		{ID: "e1", Title: "A", Description: "d", Difficulty: "Easy", TestCases: []TestCase{{Input: "1", Output: "1"}}},
		{ID: "m1", Title: "B", Description: "d", Difficulty: "Medium", Company: "Acme", TestCases: []TestCase{{Input: "1", Output: "1"}}},
	}
	for _, q := range seed {
		if err := st.Put(ctx, q); err != nil {
			t.Fatal(err)
		}
	}

	q, err := st.Random(ctx, "Easy", "")
	if err != nil || q.ID != "e1" {
		t.Errorf("Random Easy = %+v, %v", q, err)
	}
	// "General" and "All" mean no company filter.
	if q, err := st.Random(ctx, "Medium", "All"); err != nil || q.ID != "m1" {
		t.Errorf("Random Medium/All = %+v, %v", q, err)
	}
	if q, err := st.Random(ctx, "Medium", "Acme"); err != nil || q.ID != "m1" {
		t.Errorf("Random Medium/Acme = %+v, %v", q, err)
	}

	if _, err := st.Random(ctx, "Hard", ""); err == nil {
		t.Error("expected error when no Hard questions exist")
	}
	_, err = st.Random(ctx, "Medium", "Globex")
	if err == nil || !strings.Contains(err.Error(), "Globex") {
		t.Errorf("company miss: %v", err)
	}
}
