package ws

import (
	"strconv"
	"testing"

	"playhub/internal/domain"
)

func historyMsg(i int) domain.ChatMessage {
	return domain.ChatMessage{ID: strconv.Itoa(i), Message: "m" + strconv.Itoa(i), CreatedAt: int64(i)}
}

func TestHistoryRecentBounded(t *testing.T) {
	h := NewHistory(50)
	// N+5 messages: replay must be exactly the newest N, oldest first
	for i := 0; i < 55; i++ {
		h.Append(historyMsg(i))
	}
	recent := h.Recent()
	if len(recent) != 50 {
		t.Fatalf("recent length: got %d, want 50", len(recent))
	}
	if recent[0].ID != "5" || recent[49].ID != "54" {
		t.Errorf("recent range: got [%s..%s], want [5..54]", recent[0].ID, recent[49].ID)
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt < recent[i-1].CreatedAt {
			t.Fatalf("recent not chronological at index %d", i)
		}
	}
}

func TestHistoryBatchedTrim(t *testing.T) {
	h := NewHistory(10)
	// The buffer may grow to 2N before trimming back to N
	for i := 0; i < 20; i++ {
		h.Append(historyMsg(i))
	}
	if h.Len() != 20 {
		t.Errorf("length at 2N: got %d, want 20 (no early trim)", h.Len())
	}
	h.Append(historyMsg(20))
	if h.Len() != 10 {
		t.Errorf("length after exceeding 2N: got %d, want 10", h.Len())
	}
	recent := h.Recent()
	if recent[0].ID != "11" || recent[9].ID != "20" {
		t.Errorf("trimmed range: got [%s..%s], want [11..20]", recent[0].ID, recent[9].ID)
	}
}

func TestHistoryRecentCopies(t *testing.T) {
	h := NewHistory(10)
	h.Append(historyMsg(0))
	recent := h.Recent()
	recent[0].Message = "mutated"
	if h.Recent()[0].Message != "m0" {
		t.Error("Recent must return a copy, not the internal buffer")
	}
}
