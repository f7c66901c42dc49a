package models

import (
	"time"

	"github.com/erp/posting/internal/domain/numbering"
	"github.com/google/uuid"
)

// NoSeriesModel is the persistence model for a number series
type NoSeriesModel struct {
	BaseModel
	ScopeModel
	Code        string              `gorm:"type:varchar(20);not null"`
	Description string              `gorm:"type:varchar(200)"`
	Lines       []NoSeriesLineModel `gorm:"foreignKey:SeriesID;references:ID"`
}

// TableName returns the table name for GORM
func (NoSeriesModel) TableName() string {
	return "no_series"
}

// ToDomain converts the persistence model to a domain NoSeries
func (m *NoSeriesModel) ToDomain() *numbering.NoSeries {
	s := &numbering.NoSeries{
		BaseEntity:  m.BaseModel.ToDomain(),
		Scope:       m.ScopeModel.Scope(),
		Code:        m.Code,
		Description: m.Description,
		Lines:       make([]*numbering.NoSeriesLine, 0, len(m.Lines)),
	}
	for i := range m.Lines {
		s.Lines = append(s.Lines, m.Lines[i].ToDomain())
	}
	return s
}

// NoSeriesModelFromDomain creates a persistence model from a domain NoSeries
func NoSeriesModelFromDomain(s *numbering.NoSeries) *NoSeriesModel {
	m := &NoSeriesModel{
		ScopeModel:  ScopeModelFromDomain(s.Scope),
		Code:        s.Code,
		Description: s.Description,
		Lines:       make([]NoSeriesLineModel, 0, len(s.Lines)),
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	for _, l := range s.Lines {
		m.Lines = append(m.Lines, *NoSeriesLineModelFromDomain(l))
	}
	return m
}

// NoSeriesLineModel is the persistence model for one numbering range of a series
type NoSeriesLineModel struct {
	BaseModel
	ScopeModel
	SeriesID     uuid.UUID `gorm:"type:uuid;not null;index"`
	StartingDate time.Time `gorm:"not null"`
	EndingDate   *time.Time
	StartingNo   string `gorm:"type:varchar(50);not null"`
	EndingNo     string `gorm:"type:varchar(50)"`
	LastNoUsed   string `gorm:"type:varchar(50)"`
	IncrementBy  int    `gorm:"not null;default:1"`
	LastDateUsed *time.Time
	Open         bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (NoSeriesLineModel) TableName() string {
	return "no_series_lines"
}

// ToDomain converts the persistence model to a domain NoSeriesLine
func (m *NoSeriesLineModel) ToDomain() *numbering.NoSeriesLine {
	return &numbering.NoSeriesLine{
		BaseEntity:   m.BaseModel.ToDomain(),
		SeriesID:     m.SeriesID,
		Scope:        m.ScopeModel.Scope(),
		StartingDate: m.StartingDate,
		EndingDate:   m.EndingDate,
		StartingNo:   m.StartingNo,
		EndingNo:     m.EndingNo,
		LastNoUsed:   m.LastNoUsed,
		IncrementBy:  m.IncrementBy,
		LastDateUsed: m.LastDateUsed,
		Open:         m.Open,
	}
}

// NoSeriesLineModelFromDomain creates a persistence model from a domain NoSeriesLine
func NoSeriesLineModelFromDomain(l *numbering.NoSeriesLine) *NoSeriesLineModel {
	m := &NoSeriesLineModel{
		ScopeModel:   ScopeModelFromDomain(l.Scope),
		SeriesID:     l.SeriesID,
		StartingDate: l.StartingDate,
		EndingDate:   l.EndingDate,
		StartingNo:   l.StartingNo,
		EndingNo:     l.EndingNo,
		LastNoUsed:   l.LastNoUsed,
		IncrementBy:  l.IncrementBy,
		LastDateUsed: l.LastDateUsed,
		Open:         l.Open,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// SequenceCounterModel holds the last value of a gapless scoped counter
type SequenceCounterModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(50);primaryKey"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceCounterModel) TableName() string {
	return "sequence_counters"
}
