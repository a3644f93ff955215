package rosterstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"mailman-admin/lib/rosterstore/db"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps the last exported member roster of each list.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// Open opens (or creates) the sqlite database at path and applies the
// schema, path may be ":memory:".
func Open(ctx context.Context, path string) (Store, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return Store{}, err
	}
	// a second connection to ":memory:" would see an empty database
	database.SetMaxOpenConns(1)

	_, err = database.ExecContext(ctx, db.Schema)
	if err != nil {
		database.Close()
		return Store{}, fmt.Errorf("apply schema: %w", err)
	}
	return NewStore(database), nil
}

func (s Store) Close() error {
	return s.db.Close()
}

// Snapshot is the member listing of a list at a point in time, the
// addresses and names are aligned by index.
type Snapshot struct {
	Time      time.Time
	List      string
	Version   string
	Addresses []string
	Names     []string
}

// Push replaces the stored members of snapshot's list.
func (s Store) Push(ctx context.Context, snapshot Snapshot) error {
	if len(snapshot.Names) != len(snapshot.Addresses) {
		return fmt.Errorf(
			"snapshot of %s has %d addresses but %d names",
			snapshot.List, len(snapshot.Addresses), len(snapshot.Names),
		)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.UpsertList(ctx, db.UpsertListParams{
		Name:    snapshot.List,
		Version: snapshot.Version,
	})
	if err != nil {
		return err
	}
	err = txqry.DeleteMembers(ctx, snapshot.List)
	if err != nil {
		return err
	}

	exportedAt := snapshot.Time.Unix()
	for i, address := range snapshot.Addresses {
		err := txqry.CreateMember(ctx, db.CreateMemberParams{
			List:       snapshot.List,
			Address:    address,
			Name:       snapshot.Names[i],
			ExportedAt: exportedAt,
		})
		if err != nil {
			return err
		}
	}

	slog.DebugContext(ctx, "stored roster", "list", snapshot.List, "members", len(snapshot.Addresses))
	return tx.Commit()
}

type Member struct {
	Address    string
	Name       string
	ExportedAt time.Time
}

// Pull returns the stored members of list ordered by address.
func (s Store) Pull(ctx context.Context, list string) ([]Member, error) {
	rows, err := s.qry.GetMembers(ctx, list)
	if err != nil {
		return nil, err
	}
	members := make([]Member, len(rows))
	for i, r := range rows {
		members[i] = Member{
			Address:    r.Address,
			Name:       r.Name,
			ExportedAt: time.Unix(r.ExportedAt, 0),
		}
	}
	return members, nil
}

type List struct {
	Name    string
	Version string
}

func (s Store) Lists(ctx context.Context) ([]List, error) {
	rows, err := s.qry.GetLists(ctx)
	if err != nil {
		return nil, err
	}
	lists := make([]List, len(rows))
	for i, r := range rows {
		lists[i] = List{Name: r.Name, Version: r.Version}
	}
	return lists, nil
}
