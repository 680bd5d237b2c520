package dictionary

import "github.com/pathbench/ihcstruct/internal/model"

// Default returns the built-in breast/lung panel used when no dictionary
// file is configured.
func Default() *Dictionary {
	d, err := New(defaultMarkers())
	if err != nil {
		// The built-in panel is validated by tests; a failure here is a bug
		panic("built-in dictionary invalid: " + err.Error())
	}
	return d
}

func defaultMarkers() []model.MarkerDefinition {
	return []model.MarkerDefinition{
		{
			MarkerCanonical:    "ER",
			DisplayName:        "ER",
			Aliases:            []string{"er", "estrogen receptor", "oestrogen receptor"},
			HardPatternEnforce: true,
			AllowedPatterns:    []string{model.PatternNuclear},
			Requirements:       model.Requirements{PercentRequired: false, IntensityRequired: false},
		},
		{
			MarkerCanonical:    "PR",
			DisplayName:        "PR",
			Aliases:            []string{"pr", "progesterone receptor"},
			HardPatternEnforce: true,
			AllowedPatterns:    []string{model.PatternNuclear},
		},
		{
			MarkerCanonical:    "HER2",
			DisplayName:        "HER2",
			Aliases:            []string{"her2", "her2/neu", "her-2", "c-erbb2"},
			HardPatternEnforce: false,
			AllowedPatterns:    []string{model.PatternMembranous},
			Requirements:       model.Requirements{PercentRequired: true},
		},
		{
			MarkerCanonical:    "KI67",
			DisplayName:        "Ki-67",
			Aliases:            []string{"ki-67", "ki67", "mib-1", "mib1"},
			HardPatternEnforce: false,
			AllowedPatterns:    []string{model.PatternNuclear},
			Requirements:       model.Requirements{PercentRequired: true},
		},
		{
			MarkerCanonical:    "TTF1",
			DisplayName:        "TTF1",
			Aliases:            []string{"ttf1", "ttf-1", "thyroid transcription factor 1"},
			HardPatternEnforce: false,
			AllowedPatterns:    []string{model.PatternNuclear},
		},
		{
			MarkerCanonical:    "CK7",
			DisplayName:        "CK7",
			Aliases:            []string{"ck7", "ck-7", "cytokeratin 7"},
			HardPatternEnforce: false,
			AllowedPatterns:    []string{model.PatternCytoplasmic, model.PatternMembranous},
		},
		{
			MarkerCanonical:    "CK20",
			DisplayName:        "CK20",
			Aliases:            []string{"ck20", "ck-20", "cytokeratin 20"},
			HardPatternEnforce: false,
			AllowedPatterns:    []string{model.PatternCytoplasmic, model.PatternMembranous},
		},
		{
			MarkerCanonical:    "P63",
			DisplayName:        "p63",
			Aliases:            []string{"p63"},
			HardPatternEnforce: false,
			AllowedPatterns:    []string{model.PatternNuclear},
		},
	}
}
