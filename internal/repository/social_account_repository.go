package repository

import (
	"github.com/sefazor/ticketgate-backend/internal/models"
	"gorm.io/gorm"
)

type SocialAccountRepository struct {
	db *gorm.DB
}

func NewSocialAccountRepository(db *gorm.DB) *SocialAccountRepository {
	return &SocialAccountRepository{db: db}
}

func (r *SocialAccountRepository) GetByProvider(provider, providerID string) (*models.SocialAccount, error) {
	var account models.SocialAccount
	err := r.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *SocialAccountRepository) Create(account *models.SocialAccount) error {
	return r.db.Create(account).Error
}

func (r *SocialAccountRepository) Update(account *models.SocialAccount) error {
	return r.db.Save(account).Error
}
