package roster_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"BetPool/internal/roster"
)

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := roster.New([]roster.Member{
		{Name: "A", Team: "TeamX"},
		{Name: "A", Team: "TeamY"},
	})
	if err == nil {
		t.Fatal("want error for duplicate participant")
	}
}

func TestNew_RejectsEmptyFields(t *testing.T) {
	cases := []roster.Member{
		{Name: "", Team: "TeamX"},
		{Name: "A", Team: ""},
	}
	for _, m := range cases {
		if _, err := roster.New([]roster.Member{m}); err == nil {
			t.Errorf("want error for member %+v", m)
		}
	}
}

func TestRoster_Lookups(t *testing.T) {
	r, err := roster.New([]roster.Member{
		{Name: "C", Team: "TeamY"},
		{Name: "A", Team: "TeamX"},
		{Name: "B", Team: "TeamX"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := r.HomeTeam("A"); got != "TeamX" {
		t.Errorf("HomeTeam(A) = %q, want TeamX", got)
	}
	if got := r.HomeTeam("Stranger"); got != roster.UnknownTeam {
		t.Errorf("HomeTeam(Stranger) = %q, want %q", got, roster.UnknownTeam)
	}
	if !r.Contains("C") || r.Contains("Stranger") {
		t.Error("Contains gave wrong membership")
	}
	if got := r.Owners("TeamX"); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Owners(TeamX) = %v, want [A B]", got)
	}
	if got := r.Owners("NoSuchTeam"); len(got) != 0 {
		t.Errorf("Owners(NoSuchTeam) = %v, want empty", got)
	}
	if got := r.Participants(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Participants = %v, want sorted [A B C]", got)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
}

func TestRoster_OwnersReturnsCopy(t *testing.T) {
	r, err := roster.New([]roster.Member{
		{Name: "A", Team: "TeamX"},
		{Name: "B", Team: "TeamX"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	owners := r.Owners("TeamX")
	owners[0] = "mutated"
	if got := r.Owners("TeamX")[0]; got != "A" {
		t.Errorf("Owners leaked internal slice: got %q", got)
	}
}

func TestLoad_YAML(t *testing.T) {
	doc := []byte(`
participants:
  - name: Gurpreet
    team: SRH
  - name: Utkarsh
    team: MI
`)
	r, err := roster.Load(doc)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if got := r.HomeTeam("Gurpreet"); got != "SRH" {
		t.Errorf("HomeTeam(Gurpreet) = %q, want SRH", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := roster.Load([]byte("participants: []")); err == nil {
		t.Error("want error for empty participant list")
	}
	if _, err := roster.Load([]byte("{not yaml")); err == nil {
		t.Error("want error for malformed document")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	doc := "participants:\n  - name: A\n    team: TeamX\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r, err := roster.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	if _, err := roster.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("want error for missing file")
	}
}
