package header

import "github.com/moradafish/dashboard/internal/domain/models"

// Aliases lists the known header spellings per field. Entries are folded with
// normalize.Text before matching, so accents and case do not matter here.
var Aliases = map[models.Field][]string{
	models.FieldDate: {
		"data", "dt", "dia", "data do lancamento", "lancamento", "competencia", "date",
	},
	models.FieldWorker: {
		"filetador", "filetadores", "colaborador", "funcionario", "operador", "nome",
		"nome do filetador", "matricula", "crachá", "id", "worker", "name",
	},
	models.FieldRawInput: {
		"peixe recebido sem escama (kg)", "peixe recebido sem escama", "peixe sem escama (kg)",
		"peixe sem escama", "entrada sem escama (kg)", "peixe s/ escama (kg)",
	},
	models.FieldRawOutput: {
		"filé produzido (kg)", "filé produzido", "producao file (kg)", "saida file (kg)",
		"producao de file (kg)",
	},
	models.FieldCorrection: {
		"correção", "ajuste", "ajuste (kg)", "correção (kg)", "corte", "desconto",
	},
	models.FieldApprovalOverride: {
		"% aprov. sem escamas", "percentual aprovado sem escamas", "aprov sem escamas",
		"% aprovado sem escamas", "% aprov sem escamas", "aprovacao sem escamas",
	},
}
