package store

import (
	"errors"
	"testing"
)

func TestAddAndResolveReactionRole(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddReactionRole("e1", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	rr, err := s.RoleByReaction("e1", "g1")
	if err != nil {
		t.Fatalf("RoleByReaction failed: %v", err)
	}
	if rr == nil {
		t.Fatal("Expected the binding back")
	}
	if rr.RoleID != "r1" || rr.RoleName != "Red" || rr.EmojiID != "e1" || rr.GuildID != "g1" {
		t.Errorf("Unexpected binding: %+v", rr)
	}
	if rr.FolderID != nil {
		t.Errorf("Expected unfiled binding, got folder %d", *rr.FolderID)
	}
}

func TestRoleByReactionUnknownEmoji(t *testing.T) {
	s := newTestStore(t)

	rr, err := s.RoleByReaction("nope", "g1")
	if err != nil {
		t.Fatalf("Unknown emoji must not be an error: %v", err)
	}
	if rr != nil {
		t.Errorf("Expected nil for unknown emoji, got %+v", rr)
	}
}

func TestRoleByReactionScopedToGuild(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddReactionRole("e1", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	rr, err := s.RoleByReaction("e1", "g2")
	if err != nil {
		t.Fatalf("RoleByReaction failed: %v", err)
	}
	if rr != nil {
		t.Errorf("Binding leaked into another guild: %+v", rr)
	}
}

func TestDuplicateReactionRoleRejected(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddReactionRole("e1", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("First AddReactionRole failed: %v", err)
	}

	err := s.AddReactionRole("e1", "r1", "Crimson", "g1", nil)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}

	// The original record must be untouched.
	rr, err := s.RoleByReaction("e1", "g1")
	if err != nil {
		t.Fatalf("RoleByReaction failed: %v", err)
	}
	if rr == nil || rr.RoleName != "Red" {
		t.Errorf("Original binding was modified: %+v", rr)
	}
}

func TestSameEmojiDifferentRolesAllowed(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddReactionRole("e1", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e1", "r2", "Blue", "g1", nil); err != nil {
		t.Fatalf("Same emoji with a different role should be allowed: %v", err)
	}
	if err := s.AddReactionRole("e2", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("Same role with a different emoji should be allowed: %v", err)
	}
}

func TestRolesByFolderPartition(t *testing.T) {
	s := newTestStore(t)

	f, err := s.CreateFolder("g1", "Colors")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if err := s.AddReactionRole("e1", "r1", "Red", "g1", &f.ID); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e2", "r2", "Blue", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	filed, err := s.RolesByFolder("g1", &f.ID)
	if err != nil {
		t.Fatalf("RolesByFolder(filed) failed: %v", err)
	}
	unfiled, err := s.RolesByFolder("g1", nil)
	if err != nil {
		t.Fatalf("RolesByFolder(unfiled) failed: %v", err)
	}
	all, err := s.GuildReactions("g1")
	if err != nil {
		t.Fatalf("GuildReactions failed: %v", err)
	}

	if len(filed) != 1 || filed[0].RoleID != "r1" {
		t.Errorf("Unexpected filed set: %+v", filed)
	}
	if len(unfiled) != 1 || unfiled[0].RoleID != "r2" {
		t.Errorf("Unexpected unfiled set: %+v", unfiled)
	}
	if len(all) != len(filed)+len(unfiled) {
		t.Errorf("Folder partition does not cover the guild: %d filed + %d unfiled != %d total",
			len(filed), len(unfiled), len(all))
	}
}

func TestGiveFolderMovesBinding(t *testing.T) {
	s := newTestStore(t)

	f, err := s.CreateFolder("g1", "Colors")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if err := s.AddReactionRole("e1", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	if err := s.GiveFolder("r1", &f.ID); err != nil {
		t.Fatalf("GiveFolder failed: %v", err)
	}
	filed, err := s.RolesByFolder("g1", &f.ID)
	if err != nil {
		t.Fatalf("RolesByFolder failed: %v", err)
	}
	if len(filed) != 1 || filed[0].RoleID != "r1" {
		t.Fatalf("Expected r1 in the folder, got %+v", filed)
	}

	if err := s.GiveFolder("r1", nil); err != nil {
		t.Fatalf("GiveFolder(nil) failed: %v", err)
	}
	unfiled, err := s.RolesByFolder("g1", nil)
	if err != nil {
		t.Fatalf("RolesByFolder failed: %v", err)
	}
	if len(unfiled) != 1 || unfiled[0].RoleID != "r1" {
		t.Errorf("Expected r1 back in unfiled, got %+v", unfiled)
	}
}

func TestRemoveReactionRoleDropsAllBindings(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddReactionRole("e1", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e2", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e3", "r2", "Blue", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	if err := s.RemoveReactionRole("r1"); err != nil {
		t.Fatalf("RemoveReactionRole failed: %v", err)
	}

	bindings, err := s.ReactionsByRole("r1")
	if err != nil {
		t.Fatalf("ReactionsByRole failed: %v", err)
	}
	if len(bindings) != 0 {
		t.Errorf("Expected all r1 bindings gone, got %+v", bindings)
	}

	remaining, err := s.GuildReactions("g1")
	if err != nil {
		t.Fatalf("GuildReactions failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].RoleID != "r2" {
		t.Errorf("Unrelated binding was removed: %+v", remaining)
	}
}

func TestRoleByName(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddReactionRole("e1", "r1", "Red", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	rr, err := s.RoleByName("Red", "g1")
	if err != nil {
		t.Fatalf("RoleByName failed: %v", err)
	}
	if rr == nil || rr.RoleID != "r1" {
		t.Errorf("Expected r1 for name Red, got %+v", rr)
	}

	missing, err := s.RoleByName("Red", "g2")
	if err != nil {
		t.Fatalf("RoleByName failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Name lookup leaked across guilds: %+v", missing)
	}
}

func TestRemoveUnfiled(t *testing.T) {
	s := newTestStore(t)

	f, err := s.CreateFolder("g1", "Colors")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if err := s.AddReactionRole("e1", "r1", "Red", "g1", &f.ID); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e2", "r2", "Blue", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e3", "r3", "Other", "g2", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	if err := s.RemoveUnfiled("g1"); err != nil {
		t.Fatalf("RemoveUnfiled failed: %v", err)
	}

	unfiled, err := s.RolesByFolder("g1", nil)
	if err != nil {
		t.Fatalf("RolesByFolder failed: %v", err)
	}
	if len(unfiled) != 0 {
		t.Errorf("Expected no unfiled roles in g1, got %+v", unfiled)
	}

	filed, err := s.RolesByFolder("g1", &f.ID)
	if err != nil {
		t.Fatalf("RolesByFolder failed: %v", err)
	}
	if len(filed) != 1 {
		t.Errorf("Filed role was removed by the unfiled reset: %+v", filed)
	}

	other, err := s.RolesByFolder("g2", nil)
	if err != nil {
		t.Fatalf("RolesByFolder failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Reset leaked into another guild: %+v", other)
	}
}
