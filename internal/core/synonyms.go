package core

// Field names a logical column that a source export may label in several ways.
type Field string

const (
	FieldOrderID        Field = "N° commande"
	FieldLabel          Field = "Libellé"
	FieldSupplier       Field = "Fournisseur"
	FieldAmount         Field = "Montant HT"
	FieldVisa           Field = "Ind. Visa"
	FieldStatus         Field = "Statut"
	FieldExpenseNature  Field = "Nature de dépense"
	FieldFlowType       Field = "Type de flux"
	FieldAuthor         Field = "Auteur"
	FieldSettlementDate Field = "Date de règlement"
	FieldCertOrderID    Field = "Commande"
	FieldCertStatus     Field = "Statut (constatations)"
	FieldWorkflowDate   Field = "Date"
)

// synonyms lists, per logical field, the header spellings seen in the
// exports. Order matters: earlier entries win both resolution passes.
var synonyms = map[Field][]string{
	FieldOrderID: {
		"n commande", "no commande", "numero commande", "n de commande", "n° commande",
		"num commande", "n cmd", "no cmd", "numero cmd", "cmd", "commande",
		"order", "order id", "bdc",
	},
	FieldLabel: {
		"libelle", "désignation", "designation", "objet", "description",
		"intitule", "intitulé", "libellé",
	},
	FieldSupplier: {"fournisseur", "vendor", "tiers", "fournisseu"},
	FieldAmount: {
		"montant ht", "total ht", "ht", "montant hors taxes", "m ht", "mnt ht", "montantht",
	},
	FieldVisa: {
		"ind visa", "indice visa", "indicateur visa", "visa", "visa ind", "visa (ind)",
		"ind? visa", "ind.? visa",
	},
	FieldStatus: {"statut", "status", "etat", "état"},
	FieldExpenseNature: {
		"nature de depense", "nature de dépense", "nature depense", "nature dépense",
		"nature de la depense", "nature de la dépense", "type de depense", "type de dépense",
		"nature",
	},
	FieldFlowType: {"type de flux", "flux", "nature de flux"},
	FieldAuthor:   {"auteur", "saisi par", "cree par", "créé par"},
	FieldSettlementDate: {
		"date de reglement", "date reglement", "date de paiement", "date paiement",
		"reglement", "paiement",
	},
	FieldCertOrderID: {
		"commande", "n commande", "no commande", "numero commande", "n° commande", "cmd", "bdc",
	},
	FieldCertStatus: {"statut", "etat", "état"},
	FieldWorkflowDate: {
		"date", "date workflow", "workflow", "date de workflow", "dt workflow",
		"maj", "mise a jour", "mise à jour",
	},
}

// Synonyms returns a copy of the aliases known for field, in priority order.
func Synonyms(field Field) []string {
	list := synonyms[field]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Fields returns every logical field with a synonym list.
func Fields() []Field {
	return []Field{
		FieldOrderID, FieldLabel, FieldSupplier, FieldAmount, FieldVisa, FieldStatus,
		FieldExpenseNature, FieldFlowType, FieldAuthor, FieldSettlementDate,
		FieldCertOrderID, FieldCertStatus, FieldWorkflowDate,
	}
}
