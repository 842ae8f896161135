package data

import (
	json2 "encoding/json"
	"fmt"
	"io"
	"time"
)

const BackupVersion = 1

type Backup struct {
	Version    int        `json:"version"`
	ExportDate time.Time  `json:"exportDate"`
	Data       BackupData `json:"data"`
}

type BackupData struct {
	Teams       []*Team        `json:"teams"`
	Players     []*Player      `json:"players"`
	Games       []*Game        `json:"games"`
	GameLineups []*LineupEntry `json:"gameLineups"`
	GameEvents  []*Event       `json:"gameEvents"`
}

func (b *Backup) Write(w io.Writer) error {
	encoder := json2.NewEncoder(w)
	encoder.SetIndent("", "\t")
	return encoder.Encode(b)
}

func ReadBackup(r io.Reader) (*Backup, error) {
	var b Backup
	if err := json2.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	if err := b.prepare(); err != nil {
		return nil, err
	}
	return &b, nil
}

// prepare checks the version and upgrades single-team backups, which carry no teams table,
// by creating a default team for every team id the rows reference.
func (b *Backup) prepare() error {
	if b.Version != BackupVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedBackup, b.Version)
	}
	if len(b.Data.Teams) > 0 {
		return nil
	}

	seen := make(map[int64]bool)
	addTeam := func(id *int64) {
		if *id == 0 {
			*id = 1
		}
		if !seen[*id] {
			seen[*id] = true
			b.Data.Teams = append(b.Data.Teams, &Team{ID: *id, Name: DefaultTeamName,
				CreatedAt: b.ExportDate})
		}
	}
	for _, p := range b.Data.Players {
		addTeam(&p.TeamID)
	}
	for _, g := range b.Data.Games {
		addTeam(&g.TeamID)
	}
	if len(b.Data.Teams) == 0 {
		addTeam(new(int64))
	}
	return nil
}
