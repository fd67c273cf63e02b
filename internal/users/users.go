package users

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string
	AvatarURL string
	CreatedAt time.Time
}

type Repository interface {
	Upsert(u *User) error
	GetByID(id string) (*User, error)
	GetBatch(ids []string) (map[string]User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, err
	}
	return &repository{db: db}, nil
}

func (r *repository) Upsert(u *User) error {
	return r.db.Save(u).Error
}

func (r *repository) GetByID(id string) (*User, error) {
	var u User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetBatch loads display metadata for a set of author ids. Ids with no
// profile row are simply absent from the result; callers fall back to the id
// itself as the display name.
func (r *repository) GetBatch(ids []string) (map[string]User, error) {
	if len(ids) == 0 {
		return map[string]User{}, nil
	}
	var rows []User
	if err := r.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]User, len(rows))
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}
