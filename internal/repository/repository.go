package repository

import "github.com/jackc/pgx/v5/pgxpool"

type Repository struct {
	User     UserRepository
	Entry    EntryRepository
	Category CategoryRepository
	Social   SocialRepository
	Token    TokenRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		User:     UserRepository{db: db},
		Entry:    EntryRepository{db: db},
		Category: CategoryRepository{db: db},
		Social:   SocialRepository{db: db},
		Token:    TokenRepository{db: db},
	}
}
