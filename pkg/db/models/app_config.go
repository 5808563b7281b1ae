package models

import "time"

// AppConfig is a keyed settings row maintained by operators, e.g. the
// deposit percentage applied to quote totals.
type AppConfig struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// AppConfigKeyDepositPercent names the deposit percentage setting.
const AppConfigKeyDepositPercent = "deposit_percent"
