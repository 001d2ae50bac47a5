package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

type repository struct {
	db         *gorm.DB
	test       repositories.TestRepository
	question   repositories.QuestionRepository
	option     repositories.OptionRepository
	person     repositories.PersonRepository
	submission repositories.SubmissionRepository
	answer     repositories.AnswerRepository
	result     repositories.ResultRepository
}

// NewRepository wires every table repository onto one gorm connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:         db,
		test:       NewTestPostgreSQL(db),
		question:   NewQuestionPostgreSQL(db),
		option:     NewOptionPostgreSQL(db),
		person:     NewPersonPostgreSQL(db),
		submission: NewSubmissionPostgreSQL(db),
		answer:     NewAnswerPostgreSQL(db),
		result:     NewResultPostgreSQL(db),
	}
}

func (r *repository) Test() repositories.TestRepository             { return r.test }
func (r *repository) Question() repositories.QuestionRepository     { return r.question }
func (r *repository) Option() repositories.OptionRepository         { return r.option }
func (r *repository) Person() repositories.PersonRepository         { return r.person }
func (r *repository) Submission() repositories.SubmissionRepository { return r.submission }
func (r *repository) Answer() repositories.AnswerRepository         { return r.answer }
func (r *repository) Result() repositories.ResultRepository         { return r.result }

func (r *repository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
