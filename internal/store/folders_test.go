package store

import (
	"testing"
)

func TestCreateAndListFolders(t *testing.T) {
	s := newTestStore(t)

	f1, err := s.CreateFolder("g1", "Colors")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if f1.ID == 0 {
		t.Error("Expected a non-zero folder id")
	}
	if f1.Label != "Colors" || f1.GuildID != "g1" {
		t.Errorf("Unexpected folder: %+v", f1)
	}

	f2, err := s.CreateFolder("g1", "Games")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if f2.ID == f1.ID {
		t.Error("Expected distinct folder ids")
	}

	folders, err := s.ListFolders("g1")
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("Expected 2 folders, got %d", len(folders))
	}
	if folders[0].Label != "Colors" || folders[1].Label != "Games" {
		t.Errorf("Expected insertion order, got %+v", folders)
	}
}

func TestListFoldersScopedToGuild(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateFolder("g1", "Colors"); err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if _, err := s.CreateFolder("g2", "Other"); err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	folders, err := s.ListFolders("g1")
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(folders) != 1 || folders[0].Label != "Colors" {
		t.Errorf("Expected only g1's folder, got %+v", folders)
	}
}

func TestDuplicateLabelsAllowed(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateFolder("g1", "Colors"); err != nil {
		t.Fatalf("First CreateFolder failed: %v", err)
	}
	if _, err := s.CreateFolder("g1", "Colors"); err != nil {
		t.Fatalf("Duplicate label should be permitted: %v", err)
	}

	matches, err := s.FoldersByLabel("g1", "Colors")
	if err != nil {
		t.Fatalf("FoldersByLabel failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 folders labeled Colors, got %d", len(matches))
	}
}

func TestRenameFolder(t *testing.T) {
	s := newTestStore(t)

	f, err := s.CreateFolder("g1", "Colors")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	if err := s.RenameFolder("g1", f.ID, "Palette"); err != nil {
		t.Fatalf("RenameFolder failed: %v", err)
	}

	folders, err := s.ListFolders("g1")
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(folders) != 1 || folders[0].Label != "Palette" {
		t.Errorf("Expected renamed folder, got %+v", folders)
	}
}

func TestRenameFolderWrongGuildIsNoop(t *testing.T) {
	s := newTestStore(t)

	f, err := s.CreateFolder("g1", "Colors")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	if err := s.RenameFolder("g2", f.ID, "Stolen"); err != nil {
		t.Fatalf("Cross-guild rename should be a no-op, not an error: %v", err)
	}

	folders, err := s.ListFolders("g1")
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if folders[0].Label != "Colors" {
		t.Errorf("Label changed across guilds: %+v", folders)
	}
}

func TestFolderContents(t *testing.T) {
	s := newTestStore(t)

	f, err := s.CreateFolder("g1", "Colors")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if err := s.AddReactionRole("e1", "r1", "Red", "g1", &f.ID); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e2", "r2", "Blue", "g1", &f.ID); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e3", "r3", "Loose", "g1", nil); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	view, err := s.FolderContents(f.ID)
	if err != nil {
		t.Fatalf("FolderContents failed: %v", err)
	}
	if view == nil {
		t.Fatal("Expected a view for an existing folder")
	}
	if view.Label != "Colors" {
		t.Errorf("Expected label Colors, got %q", view.Label)
	}
	if len(view.Roles) != 2 {
		t.Fatalf("Expected 2 member roles, got %d", len(view.Roles))
	}
	for _, r := range view.Roles {
		if r.FolderID == nil || *r.FolderID != f.ID {
			t.Errorf("Member role has wrong folder id: %+v", r)
		}
	}
}

func TestFolderContentsEmptyFolder(t *testing.T) {
	s := newTestStore(t)

	f, err := s.CreateFolder("g1", "Empty")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}

	view, err := s.FolderContents(f.ID)
	if err != nil {
		t.Fatalf("FolderContents failed: %v", err)
	}
	if view == nil {
		t.Fatal("An empty folder must still return its metadata")
	}
	if view.Label != "Empty" || len(view.Roles) != 0 {
		t.Errorf("Unexpected view: %+v", view)
	}
}

func TestFolderContentsMissingFolder(t *testing.T) {
	s := newTestStore(t)

	view, err := s.FolderContents(9999)
	if err != nil {
		t.Fatalf("Missing folder must not be an error: %v", err)
	}
	if view != nil {
		t.Errorf("Expected nil view for missing folder, got %+v", view)
	}
}

func TestDeleteFolderUnfilesMembers(t *testing.T) {
	s := newTestStore(t)

	f, err := s.CreateFolder("g1", "Colors")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if err := s.AddReactionRole("e1", "r1", "Red", "g1", &f.ID); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}
	if err := s.AddReactionRole("e2", "r2", "Blue", "g1", &f.ID); err != nil {
		t.Fatalf("AddReactionRole failed: %v", err)
	}

	if err := s.DeleteFolder(f.ID); err != nil {
		t.Fatalf("DeleteFolder failed: %v", err)
	}

	folders, err := s.ListFolders("g1")
	if err != nil {
		t.Fatalf("ListFolders failed: %v", err)
	}
	if len(folders) != 0 {
		t.Errorf("Expected no folders after delete, got %+v", folders)
	}

	unfiled, err := s.RolesByFolder("g1", nil)
	if err != nil {
		t.Fatalf("RolesByFolder failed: %v", err)
	}
	if len(unfiled) != 2 {
		t.Fatalf("Expected both members back in unfiled, got %d", len(unfiled))
	}
	for _, r := range unfiled {
		if r.FolderID != nil {
			t.Errorf("Role %s still points at a folder", r.RoleID)
		}
	}
}
