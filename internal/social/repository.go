package social

import (
	"gorm.io/gorm"

	"feed-ranking-service/internal/ranking"
)

type Repository interface {
	Follow(uid, target string) error
	Unfollow(uid, target string) error
	ListFollowing(uid string, limit, offset int) ([]string, error)
	ListFollowers(uid string, limit, offset int) ([]string, error)
	BuildIndex(uid string) (ranking.Index, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Follow{}); err != nil {
		return nil, err
	}
	return &repository{db: db}, nil
}

func (r *repository) Follow(uid, target string) error {
	return r.db.FirstOrCreate(&Follow{UserID: uid, TargetID: target}).Error
}

func (r *repository) Unfollow(uid, target string) error {
	return r.db.Delete(&Follow{}, "user_id = ? AND target_id = ?", uid, target).Error
}

func (r *repository) ListFollowing(uid string, limit, offset int) ([]string, error) {
	return r.listIDs("user_id = ?", "target_id", uid, limit, offset)
}

func (r *repository) ListFollowers(uid string, limit, offset int) ([]string, error) {
	return r.listIDs("target_id = ?", "user_id", uid, limit, offset)
}

func (r *repository) listIDs(where, column, uid string, limit, offset int) ([]string, error) {
	var ids []string
	err := r.db.Model(&Follow{}).
		Where(where, uid).Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck(column, &ids).Error
	return ids, err
}

// BuildIndex loads both follow sets for uid in one pass. It always returns
// populated (possibly empty) maps, never nil ones: with no relationship rows
// the ranker classifies every non-own author as suggested instead of
// failing the pass.
func (r *repository) BuildIndex(uid string) (ranking.Index, error) {
	var rows []Follow
	if err := r.db.Where("user_id = ? OR target_id = ?", uid, uid).Find(&rows).Error; err != nil {
		return ranking.Index{}, err
	}
	idx := ranking.NewIndex(nil, nil)
	for _, f := range rows {
		if f.UserID == uid {
			idx.Following[f.TargetID] = struct{}{}
		}
		if f.TargetID == uid {
			idx.Followers[f.UserID] = struct{}{}
		}
	}
	return idx, nil
}
