package prompt

import "testing"

func TestBuildWithoutRecords(t *testing.T) {
	t.Parallel()

	got := Build("CTX", "BUY a ticket", nil)
	want := "CTX\n### Instruction:\nBUY a ticket\n### Response:\n"
	if got != want {
		t.Fatalf("Build() = %q, want %q", got, want)
	}
}

func TestBuildWithRecords(t *testing.T) {
	t.Parallel()

	got := Build("CTX", "SHOW my ticket", []string{`{"a":1}`, `{"b":2}`})
	want := "CTX\n### Instruction:\nSHOW my ticket\n### Input:\n" +
		"Ticket info 0: {\"a\":1}\nTicket info 1: {\"b\":2}\n### Response:\n"
	if got != want {
		t.Fatalf("Build() = %q, want %q", got, want)
	}
}
