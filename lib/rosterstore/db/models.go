package db

type List struct {
	Name    string
	Version string
}

type Member struct {
	List       string
	Address    string
	Name       string
	ExportedAt int64
}
