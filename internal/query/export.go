package query

import (
	"github.com/condmon/acmcfg/internal/model"
)

// Matrix is a cross-tab table in the legacy export shape: a header row
// and one row per index value.
type Matrix struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ComponentTechnologyMatrix reconstitutes the legacy comp_xref_tech
// cross-tab: component names down the side, technology codes across the
// top, cells "P", "S", or "" from the application type. The downstream
// needs-monitoring pipeline consumes this shape directly.
func ComponentTechnologyMatrix(snap *model.Snapshot) Matrix {
	codes := snap.TechnologyCodes()

	byComponent := make(map[string]map[string]model.ApplicationType)
	for _, a := range snap.ComponentTechnology {
		if byComponent[a.ComponentName] == nil {
			byComponent[a.ComponentName] = make(map[string]model.ApplicationType)
		}
		byComponent[a.ComponentName][a.TechnologyCode] = a.ApplicationType
	}

	header := append([]string{"component_name"}, codes...)
	var rows [][]string
	for _, component := range snap.ComponentNames() {
		row := make([]string, 0, len(header))
		row = append(row, component)
		for _, code := range codes {
			row = append(row, byComponent[component][code].LegacyCell())
		}
		rows = append(rows, row)
	}
	return Matrix{Header: header, Rows: rows}
}

// ClassComponentMatrix reconstitutes the legacy class_xref_comp cross-tab:
// class names down the side, every component name across the top, cells
// "x" where the component occurs in the class.
func ClassComponentMatrix(snap *model.Snapshot) Matrix {
	components := snap.ComponentNames()

	inClass := make(map[string]map[string]bool)
	for _, a := range snap.ClassComponent {
		if inClass[a.ClassName] == nil {
			inClass[a.ClassName] = make(map[string]bool)
		}
		inClass[a.ClassName][a.ComponentName] = true
	}

	header := append([]string{"class_name"}, components...)
	var rows [][]string
	for _, class := range snap.ClassNames() {
		row := make([]string, 0, len(header))
		row = append(row, class)
		for _, component := range components {
			if inClass[class][component] {
				row = append(row, "x")
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return Matrix{Header: header, Rows: rows}
}
