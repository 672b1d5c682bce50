package persistence

import "time"

// MatchModel represents the matches table
type MatchModel struct {
	ID        string     `gorm:"column:id;primaryKey;not null"`
	MapName   string     `gorm:"column:map_name;not null"`
	MapHash   string     `gorm:"column:map_hash"`
	StartedAt time.Time  `gorm:"column:started_at;not null"`
	EndedAt   *time.Time `gorm:"column:ended_at"`
	Result    string     `gorm:"column:result"`
}

func (MatchModel) TableName() string {
	return "matches"
}

// MatchLogModel represents the match_logs table
type MatchLogModel struct {
	ID        int         `gorm:"column:id;primaryKey;autoIncrement"`
	MatchID   string      `gorm:"column:match_id;not null;index"`
	Match     *MatchModel `gorm:"foreignKey:MatchID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Frame     int         `gorm:"column:frame;not null"`
	Timestamp time.Time   `gorm:"column:timestamp;not null"`
	Level     string      `gorm:"column:level;not null;default:'INFO'"`
	Message   string      `gorm:"column:message;type:text;not null"`
	Metadata  string      `gorm:"column:metadata;type:text"`
}

func (MatchLogModel) TableName() string {
	return "match_logs"
}
