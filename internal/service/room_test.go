package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wolfs_web/internal/game"
)

// classicMapping alice=Wolf、bob=Healer、carol=Prophet、dave=Villager
var classicMapping = map[uint]uint{1: 1, 2: 2, 3: 3, 4: 4}

// setupRoom 建立四人房間並依 classicMapping 分配角色，player ID 與 user ID 相同
func setupRoom(t *testing.T, env *testEnv) uint {
	t.Helper()
	room, err := env.roomSvc.CreateRoom(1, "village", []uint{2, 3, 4})
	require.NoError(t, err)
	_, err = env.roomSvc.AssignRoles(room.ID, 1, classicMapping, nil)
	require.NoError(t, err)
	return room.ID
}

func TestCreateRoom(t *testing.T) {
	env := newTestEnv()

	room, err := env.roomSvc.CreateRoom(1, "village", []uint{2, 3, 2})
	require.NoError(t, err)
	assert.Equal(t, uint(1), room.AdminID)
	assert.Len(t, room.Members, 3)

	_, err = env.roomSvc.CreateRoom(1, "ghost town", []uint{99})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.roomSvc.GetRoom(42)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomMembership(t *testing.T) {
	env := newTestEnv()
	room, err := env.roomSvc.CreateRoom(1, "village", []uint{2, 3})
	require.NoError(t, err)

	_, err = env.roomSvc.AddMembers(room.ID, 2, []uint{4})
	assert.ErrorIs(t, err, ErrNotRoomAdmin)

	updated, err := env.roomSvc.AddMembers(room.ID, 1, []uint{4, 2})
	require.NoError(t, err)
	assert.Len(t, updated.Members, 4)

	assert.ErrorIs(t, env.roomSvc.RemoveMember(room.ID, 2, 4), ErrNotRoomAdmin)
	assert.ErrorIs(t, env.roomSvc.RemoveMember(room.ID, 1, 1), ErrAdminCannotLeave)
	require.NoError(t, env.roomSvc.RemoveMember(room.ID, 3, 3))
	assert.ErrorIs(t, env.roomSvc.RemoveMember(room.ID, 1, 3), ErrNotRoomMember)

	assert.NoError(t, env.roomSvc.RequireMember(room.ID, 4))
	assert.ErrorIs(t, env.roomSvc.RequireMember(room.ID, 3), ErrNotRoomMember)
	assert.Contains(t, env.broadcast.types(), "system_message")
}

func TestDeleteRoomRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	room, err := env.roomSvc.CreateRoom(1, "village", []uint{2})
	require.NoError(t, err)

	assert.ErrorIs(t, env.roomSvc.DeleteRoom(room.ID, 2), ErrNotRoomAdmin)
	require.NoError(t, env.roomSvc.DeleteRoom(room.ID, 1))

	_, err = env.roomSvc.GetRoom(room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAssignRolesExplicit(t *testing.T) {
	env := newTestEnv()
	room, err := env.roomSvc.CreateRoom(1, "village", []uint{2, 3, 4})
	require.NoError(t, err)

	_, err = env.roomSvc.AssignRoles(room.ID, 2, classicMapping, nil)
	assert.ErrorIs(t, err, ErrNotRoomAdmin)

	_, err = env.roomSvc.AssignRoles(room.ID, 1, map[uint]uint{1: 1, 2: 2}, nil)
	assert.ErrorIs(t, err, ErrIncompleteMapping)

	_, err = env.roomSvc.AssignRoles(room.ID, 1, map[uint]uint{1: 1, 2: 2, 3: 3, 99: 4}, nil)
	assert.ErrorIs(t, err, ErrNotRoomMember)

	_, err = env.roomSvc.AssignRoles(room.ID, 1, map[uint]uint{1: 1, 2: 2, 3: 3, 4: 42}, nil)
	assert.ErrorIs(t, err, ErrCharacterNotFound)

	seated, err := env.roomSvc.AssignRoles(room.ID, 1, classicMapping, nil)
	require.NoError(t, err)
	require.Len(t, seated, 4)
	byUser := map[uint]string{}
	for _, p := range seated {
		byUser[p.UserID] = p.Character
	}
	assert.Equal(t, map[uint]string{1: "Wolf", 2: "Healer", 3: "Prophet", 4: "Villager"}, byUser)
}

func TestAssignRolesRandom(t *testing.T) {
	env := newTestEnv()
	room, err := env.roomSvc.CreateRoom(1, "village", []uint{2, 3, 4})
	require.NoError(t, err)

	seated, err := env.roomSvc.AssignRoles(room.ID, 1, nil, nil)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, p := range seated {
		names[p.Character] = true
	}
	assert.Len(t, names, 4, "a four-card roster dealt to four members gives each role once")

	_, err = env.roomSvc.AssignRoles(room.ID, 1, nil, []uint{1, 4})
	assert.ErrorIs(t, err, game.ErrNotEnoughCharacters)

	_, err = env.roomSvc.AssignRoles(room.ID, 1, nil, []uint{1, 4, 4, 77})
	assert.ErrorIs(t, err, ErrCharacterNotFound)

	seated, err = env.roomSvc.AssignRoles(room.ID, 1, nil, []uint{1, 4, 4, 4})
	require.NoError(t, err)
	wolves := 0
	for _, p := range seated {
		if !p.IsGood {
			wolves++
		}
	}
	assert.Equal(t, 1, wolves)
}

func TestReassignRevivesPlayers(t *testing.T) {
	env := newTestEnv()
	roomID := setupRoom(t, env)

	env.players.setAlive(3, false)
	_, err := env.roomSvc.AssignRoles(roomID, 1, classicMapping, nil)
	require.NoError(t, err)

	players, err := env.players.FindByRoom(roomID, []uint{3})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.True(t, players[0].IsAlive)
	assert.Equal(t, uint(3), players[0].ID, "the player row is reused")
}
