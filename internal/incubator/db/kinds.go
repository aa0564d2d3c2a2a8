package db

import (
	"fmt"

	e "github.com/gartstein/incubator/internal/incubator/errors"
	"github.com/gartstein/incubator/internal/incubator/models"
)

// kindSchema holds the table layout of one tenant kind. Every query that
// branches on the kind goes through it.
type kindSchema struct {
	table        string
	formulaTable string
	// label is the SQL expression of the display label.
	label string
	// nameColumns are matched by the free-text search, in addition to label.
	nameColumns  []string
	groupColumns []string
}

var schemas = map[models.Kind]kindSchema{
	models.KindIndividual: {
		table:        "tiepp",
		formulaTable: "tiepp_formule",
		label:        "tiepp.nom || ' ' || tiepp.prenom",
		nameColumns:  []string{"tiepp.nom", "tiepp.prenom"},
		groupColumns: []string{"tiepp.id", "tiepp.nom", "tiepp.prenom", "tiepp.batiment_id"},
	},
	models.KindCorporate: {
		table:        "tiepm",
		formulaTable: "tiepm_formule",
		label:        "tiepm.raison_sociale",
		nameColumns:  []string{"tiepm.raison_sociale"},
		groupColumns: []string{"tiepm.id", "tiepm.raison_sociale", "tiepm.batiment_id"},
	},
}

func schemaFor(k models.Kind) (kindSchema, error) {
	s, ok := schemas[k]
	if !ok {
		return kindSchema{}, fmt.Errorf("%w: unknown tenant kind %q", e.ErrInvalidInput, k)
	}
	return s, nil
}
