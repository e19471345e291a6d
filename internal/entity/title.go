package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Title struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:256;not null" json:"name"`
	Year        int        `gorm:"not null" json:"year"`
	Description string     `gorm:"type:text" json:"description"`
	CategoryID  *uuid.UUID `gorm:"type:uuid" json:"-"`
	Category    *Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category"`
	Genres      []Genre    `gorm:"many2many:title_genres;constraint:OnDelete:CASCADE" json:"genres"`
	// Rating is never stored; list and detail queries fill it from an
	// aggregate over the title's review scores.
	Rating    float64   `gorm:"->;-:migration" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

func (t *Title) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}
