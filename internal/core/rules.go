package core

import "strings"

// globalRuleLines describes how each Global column (A to K) is filled.
var globalRuleLines = []string{
	"A • BDC : repris de Commandes.N° commande (après filtres : Mission / FCM 3MUNDI ESR-M exclus).",
	"B • OBJET : Commandes.Libellé.",
	"C • FOURN. : Commandes.Fournisseur.",
	"D • HT : Commandes.Montant HT.",
	"E • VISA : Commandes.Ind. Visa.",
	"F • ENVOYE : jointure Envoi BDC sur BDC=Commande → 'Date envoi (dd/mm/yyyy) + espace + Agent'.",
	"G • SF :",
	"    - si FOURN. = 'BNP PARIBAS - REGULARISATION CARTE ACHAT' → 'ss objet Régul CA'",
	"    - sinon, si ENVOYE contient 'ss objet Régul CA' → Constatation.Statut (recherche par BDC complet,",
	"      sinon par les 5 premiers caractères)",
	"    - sinon → 'Pas de SF connu'.",
	"H • WORKFLOW : valeur depuis Workflow (colonne 'Date' prioritaire, sinon 'Statut'), jointure sur BDC.",
	"I • PAYE :",
	"    - 0 facture pour le BDC → 'pas de paiement connu'",
	"    - 1 facture → afficher la Date de règlement (date-only si possible ; sinon valeur brute ; sinon 'date manquante')",
	"    - ≥2 factures → 'n paiements'",
	"J • SOLDE : HT (D) − somme des Montants HT de toutes les lignes Factures associées au BDC (2 décimales).",
	"K • STATUT : Commandes.Statut.",
	"",
	"Déduplication : si deux lignes Global (A..K) sont STRICTEMENT identiques, une seule est conservée.",
	"Si le même BDC présente des différences sur au moins une colonne, toutes les lignes sont gardées.",
}

// introLines explains which exports feed a run.
var introLines = []string{
	"Cet outil donne une vision globale du traitement des commandes.",
	"",
	"Il exploite plusieurs fichiers au format Excel :",
	"- 3 extractions Geslab :",
	"   « commandes / réservations » : ajouter dans les paramètres d'affichage Type de flux et Auteur",
	"   « constatation »",
	"   « facture »",
	"- l'extraction des « workflows »",
	"- le fichier « Envoi BDC » complété lors du traitement des bons de commande",
	"",
	"Seul le fichier des commandes est obligatoire.",
}

// CoverSheetName is the optional sheet carrying the column rules.
const CoverSheetName = "Page de garde"

// GlobalRules returns the rules of the Global columns.
func GlobalRules() string {
	return "Règles des colonnes Global (A→K)\n\n" + strings.Join(globalRuleLines, "\n")
}

// CoverText returns the text written on the cover sheet.
func CoverText() string {
	return "PAGE DE GARDE - Colonnes de l'onglet Global\n\n" + strings.Join(globalRuleLines, "\n")
}

// IntroText returns the usage notes shown by the shells.
func IntroText() string {
	return strings.Join(introLines, "\n")
}
