package checksum

import "testing"

func TestEqual(t *testing.T) {
	data := []byte("habits: []\n")
	sum := Sum(data)
	if len(sum) != 64 {
		t.Fatalf("sum length = %d", len(sum))
	}
	if !Equal(data, sum) {
		t.Error("same content should match")
	}
	if Equal([]byte("habits: [x]\n"), sum) {
		t.Error("different content should not match")
	}
	if Equal(data, "") {
		t.Error("empty sum never matches")
	}
}
