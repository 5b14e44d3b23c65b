package entity

type Account struct {
	Base
	Login        string `db:"login"`
	PasswordHash string `db:"password"`
	IsActive     bool   `db:"is_active"`
	IsBlocked    bool   `db:"is_blocked"`
}
