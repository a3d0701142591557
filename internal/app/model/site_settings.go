package model

import "time"

// SiteSettingsID is the fixed primary key of the one and only settings row.
// The singleton invariant is structural: every read and write targets this id.
const SiteSettingsID = "main"

// SiteSettings holds homepage branding and the payment instructions shown
// at checkout. Created once, updated in place, never deleted.
type SiteSettings struct {
	ID                string    `gorm:"primarykey;type:varchar(20)" json:"id"`
	HeroBgURL         string    `json:"hero_bg_url"`
	HeroImageURL      string    `json:"hero_image_url"`
	LogoURL           string    `json:"logo_url"`
	BankName          string    `json:"bank_name"`
	BankAccountNumber string    `json:"bank_account_number"`
	BankAccountName   string    `json:"bank_account_name"`
	PromptPayID       string    `json:"promptpay_id"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}
