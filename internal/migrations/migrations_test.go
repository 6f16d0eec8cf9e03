package migrations

import "testing"

func TestNamesOrdered(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	want := []string{"0001_tasks.sql", "0002_conversations.sql"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d] = %s; want %s", i, names[i], want[i])
		}
	}
}
