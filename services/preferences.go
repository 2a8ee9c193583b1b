package services

import (
	"context"
	"errors"

	"github.com/VitalijsFilipovs/booking-bot/i18n"
	"github.com/VitalijsFilipovs/booking-bot/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceStore remembers the interface language of each chat user.
type PreferenceStore struct {
	DB *gorm.DB
}

func NewPreferenceStore(db *gorm.DB) *PreferenceStore {
	return &PreferenceStore{DB: db}
}

// Language returns the stored language and whether the user has one.
func (p *PreferenceStore) Language(ctx context.Context, userID int64) (string, bool, error) {
	var pref models.UserPreference
	err := p.DB.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageErr("get language", err)
	}
	return i18n.Normalize(pref.Language), true, nil
}

// LanguageOr returns the stored language or fallback when there is none
// or it cannot be read.
func (p *PreferenceStore) LanguageOr(ctx context.Context, userID int64, fallback string) string {
	lang, ok, err := p.Language(ctx, userID)
	if err != nil || !ok {
		return i18n.Normalize(fallback)
	}
	return lang
}

func (p *PreferenceStore) SetLanguage(ctx context.Context, userID int64, lang string) error {
	pref := models.UserPreference{UserID: userID, Language: i18n.Normalize(lang)}
	err := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"lang"}),
	}).Create(&pref).Error
	if err != nil {
		return storageErr("set language", err)
	}
	return nil
}
