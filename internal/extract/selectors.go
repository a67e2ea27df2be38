package extract

// Selectors locate the fields of a business detail page. The defaults
// target the Google Maps DOM but are injectable so a layout change is a
// config edit, not a code change.
type Selectors struct {
	SearchInput string
	ResultsList string
	Name        string
	Address     string
	Website     string
	Phone       string
}

// Default returns the selector set for the current Google Maps layout.
func Default() Selectors {
	return Selectors{
		SearchInput: `input#searchboxinput`,
		ResultsList: `a[href*="https://www.google.com/maps/place"]`,
		Name:        `h1.DUwDvf, h1.lfPIob`,
		Address:     `button[data-item-id="address"] div.fontBodyMedium`,
		Website:     `a[data-item-id="authority"] div.fontBodyMedium`,
		Phone:       `button[data-item-id^="phone:tel:"] div.fontBodyMedium`,
	}
}
