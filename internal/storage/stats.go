package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsSnapshot is what the stats endpoint returns.
type StatsSnapshot struct {
	Today DailyStat `json:"today"`
	Total TotalStat `json:"total"`
}

func statDate(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// RecordVisit counts a visitor at most once per day, keyed by the
// caller-supplied visitor ID. Returns whether the visit was new.
func (s *Store) RecordVisit(visitorID string, now time.Time) (bool, error) {
	if visitorID == "" {
		return false, errors.New("empty visitor id")
	}
	date := statDate(now)
	mark := &VisitorMark{ID: fmt.Sprintf("%s:%s", date, visitorID)}

	// DoNothing + RowsAffected tells us whether this visitor was
	// already counted today without a read-modify-write race.
	res := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(mark)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if err := s.bumpDaily(date, "visitors"); err != nil {
		return true, err
	}
	return true, s.bumpTotal("visitors")
}

// RecordTestnetClick counts a click on the testnet link, daily and
// all-time.
func (s *Store) RecordTestnetClick(now time.Time) error {
	if err := s.bumpDaily(statDate(now), "testnet_clicks"); err != nil {
		return err
	}
	return s.bumpTotal("testnet_clicks")
}

func (s *Store) bumpDaily(date, column string) error {
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&DailyStat{Date: date}).Error; err != nil {
		return err
	}
	return s.DB.Model(&DailyStat{}).Where("date = ?", date).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

func (s *Store) bumpTotal(column string) error {
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&TotalStat{ID: 1}).Error; err != nil {
		return err
	}
	return s.DB.Model(&TotalStat{}).Where("id = ?", 1).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// GetStats returns today's and the all-time counters; missing rows read
// as zeroes.
func (s *Store) GetStats(now time.Time) (*StatsSnapshot, error) {
	snap := &StatsSnapshot{}
	snap.Today.Date = statDate(now)

	if err := s.DB.Where("date = ?", snap.Today.Date).First(&snap.Today).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := s.DB.Where("id = ?", 1).First(&snap.Total).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return snap, nil
}

// BumpRefreshStat records a successful scheduled blog refresh.
func (s *Store) BumpRefreshStat(newsCount int, now time.Time) error {
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&RefreshStat{ID: 1}).Error; err != nil {
		return err
	}
	return s.DB.Model(&RefreshStat{}).Where("id = ?", 1).Updates(map[string]any{
		"last_update":  now,
		"news_count":   newsCount,
		"update_count": gorm.Expr("update_count + 1"),
	}).Error
}
