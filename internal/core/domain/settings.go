package domain

// Keys under which office settings are stored.
const (
	SettingOfficeName  = "office_name"
	SettingAddress     = "address"
	SettingPhone       = "phone"
	SettingPrinterName = "printer_name"
)

// OfficeSettings are the editable office details shown on invoices.
type OfficeSettings struct {
	OfficeName  string `json:"officeName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	PrinterName string `json:"printerName"`
}

// WithDefaults fills every empty field from defaults.
func (s OfficeSettings) WithDefaults(defaults OfficeSettings) OfficeSettings {
	if s.OfficeName == "" {
		s.OfficeName = defaults.OfficeName
	}
	if s.Address == "" {
		s.Address = defaults.Address
	}
	if s.Phone == "" {
		s.Phone = defaults.Phone
	}
	if s.PrinterName == "" {
		s.PrinterName = defaults.PrinterName
	}
	return s
}

// ToMap flattens the settings into their stored key-value form.
func (s OfficeSettings) ToMap() map[string]string {
	return map[string]string{
		SettingOfficeName:  s.OfficeName,
		SettingAddress:     s.Address,
		SettingPhone:       s.Phone,
		SettingPrinterName: s.PrinterName,
	}
}

// OfficeSettingsFromMap rebuilds settings from stored key-value pairs. Unknown keys are ignored.
func OfficeSettingsFromMap(values map[string]string) OfficeSettings {
	return OfficeSettings{
		OfficeName:  values[SettingOfficeName],
		Address:     values[SettingAddress],
		Phone:       values[SettingPhone],
		PrinterName: values[SettingPrinterName],
	}
}

// OfficeInfo is the header block printed at the top of every invoice.
type OfficeInfo struct {
	Tagline  string
	Name     string
	Subtitle string
	Address  string
	Phone    string
}
