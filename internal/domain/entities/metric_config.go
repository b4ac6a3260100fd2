package entities

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MetricConfig is one externally managed metric row as stored by the
// admin tooling. Weight is a fraction (0.20) and the bounds are optional.
type MetricConfig struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string            `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Weight    float64           `json:"weight" gorm:"not null;default:0"`
	MinValue  *float64          `json:"min_value,omitempty" gorm:"column:min_value"`
	MaxValue  *float64          `json:"max_value,omitempty" gorm:"column:max_value"`
	Settings  datatypes.JSONMap `json:"settings,omitempty" gorm:"type:jsonb"` // optional "ideal" and "method"
	IsActive  bool              `json:"is_active" gorm:"default:true;not null"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MetricConfig) TableName() string {
	return "scoring_metrics"
}

// Ideal returns the optional ideal threshold stored in settings
func (c MetricConfig) Ideal() (float64, bool) {
	return settingFloat(c.Settings, "ideal")
}

// Method returns the optional speech rate method stored in settings
func (c MetricConfig) Method() (string, bool) {
	if c.Settings == nil {
		return "", false
	}
	s, ok := c.Settings["method"].(string)
	return s, ok && s != ""
}

func settingFloat(m datatypes.JSONMap, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// MergeMetricConfigs maps external rows onto the default metric set. Fields
// a row does not specify keep their default value, unknown names are
// skipped and returned so callers can log them. Later rows win.
func MergeMetricConfigs(rows []MetricConfig) (MetricSet, []string) {
	set := DefaultMetricSet()
	var unknown []string
	for _, row := range rows {
		id, err := ParseMetricID(row.Name)
		if err != nil {
			unknown = append(unknown, row.Name)
			continue
		}
		def := set[id]
		def.Weight = weightPercent(row.Weight)
		if row.MinValue != nil {
			def.Thresholds.Min = *row.MinValue
		}
		if row.MaxValue != nil {
			def.Thresholds.Max = *row.MaxValue
		}
		if ideal, ok := row.Ideal(); ok {
			def.Thresholds.Ideal = ideal
		}
		if id == MetricSpeechRate {
			if name, ok := row.Method(); ok {
				if m, err := ParseSpeechRateMethod(name); err == nil {
					def.Method = m
				} else {
					unknown = append(unknown, row.Name+".method="+name)
				}
			}
		}
		set[id] = def
	}
	return set, unknown
}

// weightPercent converts a stored weight into a percentage. Values up to 1
// are fractions; anything larger is already a percentage.
func weightPercent(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w <= 1 {
		return math.Round(w*1e4) / 100
	}
	return w
}
