package history

import "testing"

func TestAddIgnoreSpacePrefix(t *testing.T) {
	// S3: ignore_space_prefix = true.
	c := New(Options{IgnoreSpacePrefix: true, UseIDIndex: true})

	id, err := c.Add(" secret", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected silent no-op (id=0), got id=%d", id)
	}
	if c.Count() != 0 {
		t.Fatalf("expected count 0 after ignored add, got %d", c.Count())
	}

	id1, err := c.Add("echo hi", 0)
	if err != nil || id1 != 1 {
		t.Fatalf("expected id=1, got id=%d err=%v", id1, err)
	}
	id2, err := c.Add("ls", 0)
	if err != nil || id2 != 2 {
		t.Fatalf("expected id=2, got id=%d err=%v", id2, err)
	}

	e, err := c.GetByID(2)
	if err != nil {
		t.Fatal(err)
	}
	if e.Command != "ls" {
		t.Fatalf("expected command 'ls', got %q", e.Command)
	}
	if c.Count() != 2 {
		t.Fatalf("expected count 2, got %d", c.Count())
	}
}

func TestAddEmptyCommandFails(t *testing.T) {
	c := New(Options{})
	if _, err := c.Add("", 0); err == nil {
		t.Fatal("expected invalid_parameter error for empty command")
	}
}

func TestAddOverLengthFails(t *testing.T) {
	c := New(Options{MaxCommandLen: 4})
	if _, err := c.Add("toolong", 0); err == nil {
		t.Fatal("expected buffer_overflow error")
	}
}

func TestAddAtCapacityFails(t *testing.T) {
	c := New(Options{MaxEntries: 1})
	if _, err := c.Add("first", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Add("second", 0); err == nil {
		t.Fatal("expected buffer_overflow at capacity")
	}
	if c.Count() != 1 {
		t.Fatalf("expected count to remain 1, got %d", c.Count())
	}
}

func TestIDsStrictlyIncrease(t *testing.T) {
	c := New(Options{})
	prev := 0
	for i := 0; i < 10; i++ {
		id, err := c.Add("cmd", 0)
		if err != nil {
			t.Fatal(err)
		}
		if id <= prev {
			t.Fatalf("expected strictly increasing ids, got %d after %d", id, prev)
		}
		prev = id
	}
}

func TestGetByIndexO1(t *testing.T) {
	c := New(Options{})
	c.Add("a", 0)
	c.Add("b", 0)
	e, err := c.GetByIndex(1)
	if err != nil {
		t.Fatal(err)
	}
	if e.Command != "b" {
		t.Fatalf("expected 'b', got %q", e.Command)
	}
}

func TestGetByIDLinearScanWithoutIndex(t *testing.T) {
	c := New(Options{UseIDIndex: false})
	id, _ := c.Add("only", 0)
	e, err := c.GetByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if e.Command != "only" {
		t.Fatalf("expected 'only', got %q", e.Command)
	}
}

func TestClear(t *testing.T) {
	c := New(Options{UseIDIndex: true})
	c.Add("a", 0)
	c.Add("b", 0)
	c.Clear()
	if c.Count() != 0 {
		t.Fatalf("expected count 0 after Clear, got %d", c.Count())
	}
	if _, err := c.GetByIndex(0); err == nil {
		t.Fatal("expected out-of-range after Clear")
	}
}

func TestStatsAccumulate(t *testing.T) {
	c := New(Options{})
	c.Add("a", 0)
	c.Add("b", 0)
	c.GetByIndex(0)

	s := c.Stats()
	if s.AddCount != 2 {
		t.Fatalf("expected AddCount 2, got %d", s.AddCount)
	}
	if s.RetrieveCount != 1 {
		t.Fatalf("expected RetrieveCount 1, got %d", s.RetrieveCount)
	}
}
