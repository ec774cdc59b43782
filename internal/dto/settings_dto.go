package dto

import "github.com/SscSPs/exchange_office_app/internal/core/domain"

// SettingsPayload is both the request and response body of the settings endpoints.
type SettingsPayload struct {
	OfficeName  string `json:"officeName" binding:"max=120"`
	Address     string `json:"address" binding:"max=200"`
	Phone       string `json:"phone" binding:"max=40"`
	PrinterName string `json:"printerName" binding:"max=120"`
}

func (p SettingsPayload) ToDomain() domain.OfficeSettings {
	return domain.OfficeSettings{
		OfficeName:  p.OfficeName,
		Address:     p.Address,
		Phone:       p.Phone,
		PrinterName: p.PrinterName,
	}
}

func ToSettingsPayload(s domain.OfficeSettings) SettingsPayload {
	return SettingsPayload{
		OfficeName:  s.OfficeName,
		Address:     s.Address,
		Phone:       s.Phone,
		PrinterName: s.PrinterName,
	}
}
