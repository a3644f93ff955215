package db

import (
	"context"
)

const createMember = `-- name: CreateMember :exec
insert or replace into member(list, address, name, exported_at)
values (?, ?, ?, ?)
`

type CreateMemberParams struct {
	List       string
	Address    string
	Name       string
	ExportedAt int64
}

func (q *Queries) CreateMember(ctx context.Context, arg CreateMemberParams) error {
	_, err := q.db.ExecContext(ctx, createMember,
		arg.List,
		arg.Address,
		arg.Name,
		arg.ExportedAt,
	)
	return err
}

const deleteMembers = `-- name: DeleteMembers :exec
delete from member where list = ?
`

func (q *Queries) DeleteMembers(ctx context.Context, list string) error {
	_, err := q.db.ExecContext(ctx, deleteMembers, list)
	return err
}

const getLists = `-- name: GetLists :many
select name, version from list
order by name
`

func (q *Queries) GetLists(ctx context.Context) ([]List, error) {
	rows, err := q.db.QueryContext(ctx, getLists)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []List
	for rows.Next() {
		var i List
		if err := rows.Scan(&i.Name, &i.Version); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getMembers = `-- name: GetMembers :many
select address, name, exported_at from member
where list = ?
order by address
`

type GetMembersRow struct {
	Address    string
	Name       string
	ExportedAt int64
}

func (q *Queries) GetMembers(ctx context.Context, list string) ([]GetMembersRow, error) {
	rows, err := q.db.QueryContext(ctx, getMembers, list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetMembersRow
	for rows.Next() {
		var i GetMembersRow
		if err := rows.Scan(&i.Address, &i.Name, &i.ExportedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertList = `-- name: UpsertList :exec
insert into list(name, version) values (?, ?)
on conflict(name) do update set version = excluded.version
`

type UpsertListParams struct {
	Name    string
	Version string
}

func (q *Queries) UpsertList(ctx context.Context, arg UpsertListParams) error {
	_, err := q.db.ExecContext(ctx, upsertList, arg.Name, arg.Version)
	return err
}
