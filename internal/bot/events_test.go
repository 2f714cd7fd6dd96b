package bot

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// recordingStore stubs the slice of RoleStore the role lifecycle handlers
// touch. Embedding the interface leaves every other method unimplemented;
// calling one panics, which is exactly what these tests want.
type recordingStore struct {
	RoleStore
	renamed map[string]string
	deleted []string
}

func (r *recordingStore) UpdateRoleNames(roleID, newName string) error {
	if r.renamed == nil {
		r.renamed = make(map[string]string)
	}
	r.renamed[roleID] = newName
	return nil
}

func (r *recordingStore) DeleteRole(roleID string) error {
	r.deleted = append(r.deleted, roleID)
	return nil
}

func TestOnRoleUpdatePropagatesName(t *testing.T) {
	st := &recordingStore{}
	b := &Bot{store: st, log: zap.NewNop()}

	b.onRoleUpdate(&events.RoleUpdate{
		GenericRole: &events.GenericRole{
			GuildID: snowflake.ID(1),
			RoleID:  snowflake.ID(42),
			Role:    discord.Role{Name: "Renamed"},
		},
	})

	if got := st.renamed["42"]; got != "Renamed" {
		t.Errorf("Expected role 42 renamed to Renamed, got %q", got)
	}
}

func TestOnRoleDeleteDropsRole(t *testing.T) {
	st := &recordingStore{}
	b := &Bot{store: st, log: zap.NewNop()}

	b.onRoleDelete(&events.RoleDelete{
		GenericRole: &events.GenericRole{
			GuildID: snowflake.ID(1),
			RoleID:  snowflake.ID(42),
		},
	})

	if len(st.deleted) != 1 || st.deleted[0] != "42" {
		t.Errorf("Expected role 42 deleted, got %v", st.deleted)
	}
}
