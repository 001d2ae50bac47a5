package postgres

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories"
)

type PersonPostgreSQL struct {
	db *gorm.DB
}

func NewPersonPostgreSQL(db *gorm.DB) repositories.PersonRepository {
	return &PersonPostgreSQL{db: db}
}

// UpsertByEmail creates the person or refreshes name and phone of the existing
// entry. person.ID is set to the stored id either way.
func (p PersonPostgreSQL) UpsertByEmail(ctx context.Context, tx *gorm.DB, person *models.Person) error {
	db := getDB(p.db, tx).WithContext(ctx)
	person.Email = strings.ToLower(strings.TrimSpace(person.Email))

	var existing models.Person
	err := db.Where("email = ?", person.Email).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(person).Error
	}
	if err != nil {
		return err
	}

	person.ID = existing.ID
	updates := map[string]interface{}{}
	if person.Name != "" {
		updates["name"] = person.Name
	}
	if person.Phone != "" {
		updates["phone"] = person.Phone
	}
	if len(updates) == 0 {
		return nil
	}
	return db.Model(&models.Person{}).Where("id = ?", existing.ID).Updates(updates).Error
}

func (p PersonPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Person, error) {
	var person models.Person
	if err := getDB(p.db, tx).WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&person).Error; err != nil {
		return nil, err
	}
	return &person, nil
}
