package store

import (
	"testing"

	"github.com/bookforge/BookForge/internal/models"
)

func TestInMemoryStore(t *testing.T) {
	st := NewInMemoryStore()
	s := models.NewSurveySession("user1")
	s.BookTitle = "The Sea"
	st.Set(s)

	got, ok := st.Get("user1")
	if !ok {
		t.Fatal("session not found after Set")
	}
	if got.BookTitle != "The Sea" {
		t.Error("session not stored or retrieved correctly")
	}

	st.Delete("user1")
	if _, ok := st.Get("user1"); ok {
		t.Error("session still present after Delete")
	}
}

func TestGetAbsent(t *testing.T) {
	st := NewInMemoryStore()
	if _, ok := st.Get("nobody"); ok {
		t.Error("expected ok=false for absent user")
	}
}

func TestSetReplacesExisting(t *testing.T) {
	st := NewInMemoryStore()
	first := models.NewSurveySession("user1")
	first.BookTitle = "Old"
	st.Set(first)

	st.Set(models.NewSurveySession("user1"))
	got, _ := st.Get("user1")
	if got.BookTitle != "" {
		t.Errorf("restarted session leaked prior answer %q", got.BookTitle)
	}
}

func TestUserIsolation(t *testing.T) {
	st := NewInMemoryStore()
	a := models.NewSurveySession("alice")
	a.BookTitle = "A"
	b := models.NewSurveySession("bob")
	b.BookTitle = "B"
	st.Set(a)
	st.Set(b)

	gotA, _ := st.Get("alice")
	gotB, _ := st.Get("bob")
	if gotA.BookTitle != "A" || gotB.BookTitle != "B" {
		t.Error("sessions for distinct users observed each other's fields")
	}

	st.Delete("alice")
	if _, ok := st.Get("bob"); !ok {
		t.Error("deleting one user's session removed another's")
	}
}
