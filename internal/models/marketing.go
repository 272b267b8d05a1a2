package models

import "time"

// GeneratedMarketingStrength is written once after all three generations settle.
type GeneratedMarketingStrength struct {
	ID          int64
	Parameters  CampaignParameters
	OwnerUserID string
	Output1     string
	Output2     string
	Output3     string
	CreatedAt   time.Time
}

func (g *GeneratedMarketingStrength) Outputs() [3]string {
	return [3]string{g.Output1, g.Output2, g.Output3}
}
