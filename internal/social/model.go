package social

import "time"

type Follow struct {
	UserID    string `gorm:"primaryKey;size:64"`
	TargetID  string `gorm:"primaryKey;size:64;index"`
	CreatedAt time.Time
}
