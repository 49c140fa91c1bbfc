package domain

// Location is a fixed point whose fire risk is tracked.
type Location struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`

	// Sheet overrides the spreadsheet tab name. Defaults to Name.
	Sheet string `yaml:"sheet,omitempty"`
	// File overrides the tabular file name. Defaults to TabularFileName(Name).
	File string `yaml:"file,omitempty"`
}

// SheetName returns the spreadsheet tab used for this location.
func (l Location) SheetName() string {
	if l.Sheet != "" {
		return l.Sheet
	}
	return l.Name
}

// FileName returns the tabular file name for this location.
func (l Location) FileName() string {
	if l.File != "" {
		return l.File
	}
	return TabularFileName(l.Name)
}

// DisplayName is the capitalised name shown on diagrams.
func (l Location) DisplayName() string {
	if l.Name == "" {
		return LocationFromTabularName(l.FileName())
	}
	return Capitalize(l.Name)
}
