package domain

import (
	"regexp"
	"strings"
)

var nonWordRun = regexp.MustCompile(`\W+`)

// Entity representa uma empresa (company) do ERP à qual os dados são escopados
type Entity struct {
	ID   int    `mapstructure:"id" json:"id"`
	Name string `mapstructure:"name" json:"name"`
}

// Slug retorna o nome normalizado usado nos nomes dos artefatos ("Metal Trims" -> "metal_trims")
func (e Entity) Slug() string {
	return nonWordRun.ReplaceAllString(strings.ToLower(e.Name), "_")
}
