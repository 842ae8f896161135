package data

import (
	"context"
	"errors"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrLastTeam          = errors.New("cannot delete the only team")
	ErrPlayerInUse       = errors.New("player has recorded games")
	ErrUnsupportedBackup = errors.New("unsupported backup version")
)

// Store is the persisted store behind the live game core. Every method that takes an id of a
// missing row returns ErrRecordNotFound.
type Store interface {
	// Tx runs fn against a store whose writes commit together or not at all. Nested calls run
	// inside the outer transaction.
	Tx(ctx context.Context, fn func(tx Store) error) error

	InsertTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, id int64) (*Team, error)
	GetAllTeams(ctx context.Context) ([]*Team, error)
	UpdateTeam(ctx context.Context, team *Team) error
	DeleteTeam(ctx context.Context, id int64) error

	InsertPlayer(ctx context.Context, player *Player) error
	GetPlayer(ctx context.Context, id int64) (*Player, error)
	GetAllPlayers(ctx context.Context, teamID int64) ([]*Player, error)
	UpdatePlayer(ctx context.Context, player *Player) error
	DeletePlayer(ctx context.Context, id int64) error

	InsertGame(ctx context.Context, game *Game) error
	GetGame(ctx context.Context, id int64) (*Game, error)
	GetAllGames(ctx context.Context, teamID int64) ([]*Game, error)
	UpdateGame(ctx context.Context, id int64, update GameUpdate) (*Game, error)
	DeleteGame(ctx context.Context, id int64) error

	SetGameLineup(ctx context.Context, gameID int64, entries []*LineupEntry) error
	GetGameLineup(ctx context.Context, gameID int64) ([]*LineupEntry, error)
	UpdateLineupEntry(ctx context.Context, id int64, update LineupUpdate) error
	GetPlayerLineups(ctx context.Context, playerID int64) ([]*LineupEntry, error)

	AddGameEvent(ctx context.Context, event *Event) (int64, error)
	DeleteGameEvent(ctx context.Context, id int64) error
	GetGameEvents(ctx context.Context, gameID int64) ([]*Event, error)
	GetPlayerEvents(ctx context.Context, playerID int64) ([]*Event, error)

	Export(ctx context.Context) (*Backup, error)
	Import(ctx context.Context, backup *Backup) error
}
